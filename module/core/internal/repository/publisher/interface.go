package publisher

import (
	"context"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
)

type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert *domain.GeofenceAlert) error
}
