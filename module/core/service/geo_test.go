package service

import (
	"errors"
	"math"
	"testing"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
)

func TestDistanceKM_ZeroForSamePoint(t *testing.T) {
	d := DistanceKM(8.2833, 77.3167, 8.2833, 77.3167)
	if d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestDistanceKM_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{8.2833, 77.3167, 8.5241, 76.9366},
		{-6.2088, 106.8456, -7.0, 107.0},
		{0, 0, 45, 90},
		{-90, 0, 90, 0},
	}
	for _, p := range pairs {
		ab := DistanceKM(p[0], p[1], p[2], p[3])
		ba := DistanceKM(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("asymmetric: %f vs %f for %v", ab, ba, p)
		}
	}
}

func TestDistanceKM_KnownDistance(t *testing.T) {
	// farm to processing unit, roughly 49km apart
	d := DistanceKM(8.2833, 77.3167, 8.5241, 76.9366)
	if d < 45 || d > 55 {
		t.Errorf("expected ~49km, got %f", d)
	}
}

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{"valid", 8.2833, 77.3167, false},
		{"valid extremes", -90, 180, false},
		{"lat too low", -90.1, 0, true},
		{"lat too high", 90.1, 0, true},
		{"lon too low", 0, -180.1, true},
		{"lon too high", 0, 180.1, true},
		{"lat NaN", math.NaN(), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.lat, tt.lon)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinate(%v, %v) error = %v, wantErr %v", tt.lat, tt.lon, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidCoordinate) {
				t.Errorf("expected ErrInvalidCoordinate, got %v", err)
			}
		})
	}
}
