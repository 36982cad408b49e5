package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
)

type DispatchRepository interface {
	Create(ctx context.Context, d *domain.Dispatch) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Dispatch, error)
	// TransitionStatus conditionally moves a dispatch from one trip status to
	// another and sets the tracking flag in the same statement. It reports
	// false when the dispatch was not in the expected status, which closes
	// the read-then-write race between concurrent transitions.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.TripStatus, trackingActive bool) (bool, error)
}

type GPSLogRepository interface {
	Append(ctx context.Context, log *domain.GPSLog) error
	History(ctx context.Context, dispatchID uuid.UUID, limit int) ([]domain.GPSLog, error)
	// SyncBatch merges offline-buffered rows in one transaction, skipping
	// rows whose (dispatch_id, timestamp) already exists. Each insert runs
	// under a savepoint so a per-row failure is collected without aborting
	// the batch; a commit failure rolls the whole batch back and is
	// returned as the error.
	SyncBatch(ctx context.Context, logs []*domain.GPSLog) (*domain.SyncResult, error)
}

type AlertRepository interface {
	Append(ctx context.Context, alert *domain.GeofenceAlert) error
}

type NotificationRepository interface {
	Append(ctx context.Context, n *domain.Notification) error
	UpdateChannelFlags(ctx context.Context, id uuid.UUID, sms, whatsapp bool) error
	ListForRecipient(ctx context.Context, recipientID uuid.UUID, onlyUnread bool) ([]domain.Notification, error)
	// MarkRead reports false when the notification does not exist or does
	// not belong to the recipient.
	MarkRead(ctx context.Context, id, recipientID uuid.UUID, at time.Time) (bool, error)
}

type PersonRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Person, error)
	GetByStaffID(ctx context.Context, staffID string) (*domain.Person, error)
	FindActiveByRoles(ctx context.Context, roles []domain.Role) ([]domain.Person, error)
}

type AttendanceRepository interface {
	// SyncBatch merges offline-buffered attendance rows in one transaction,
	// skipping rows whose (person_id, timestamp, device_id) already exists.
	// Per-row failures are isolated with savepoints, as in GPSLogRepository.
	SyncBatch(ctx context.Context, logs []*domain.AttendanceLog) (*domain.SyncResult, error)
}
