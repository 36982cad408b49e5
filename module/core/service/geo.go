package service

import (
	"fmt"
	"math"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
)

const earthRadiusKM = 6371

// DistanceKM returns the great-circle distance in kilometers between two
// coordinates using the Haversine formula on a spherical-earth
// approximation. Symmetric in its arguments; zero for identical points.
func DistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ValidateCoordinate rejects latitudes outside [-90,90] and longitudes
// outside [-180,180] before they reach distance computation or storage.
func ValidateCoordinate(lat, lon float64) error {
	if lat < -90 || lat > 90 || math.IsNaN(lat) {
		return fmt.Errorf("latitude %v: %w", lat, domain.ErrInvalidCoordinate)
	}
	if lon < -180 || lon > 180 || math.IsNaN(lon) {
		return fmt.Errorf("longitude %v: %w", lon, domain.ErrInvalidCoordinate)
	}
	return nil
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
