package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationOnboardingApproval NotificationType = "onboarding_approval"
	NotificationProvisionRequest   NotificationType = "provision_request"
	NotificationGeofenceAlert      NotificationType = "geofence_alert"
	NotificationLotCompletion      NotificationType = "lot_completion"
)

// Notification is one unit of cross-channel communication. The in-app row is
// the reliable channel; SentViaSMS/SentViaWhatsApp record only that a channel
// send was attempted and did not error.
type Notification struct {
	ID              uuid.UUID        `json:"id"`
	RecipientID     uuid.UUID        `json:"recipient_id"`
	Type            NotificationType `json:"notification_type"`
	Title           string           `json:"title"`
	Message         string           `json:"message"`
	Data            map[string]any   `json:"data,omitempty"`
	Read            bool             `json:"read"`
	ReadAt          *time.Time       `json:"read_at,omitempty"`
	SentViaSMS      bool             `json:"sent_via_sms"`
	SentViaWhatsApp bool             `json:"sent_via_whatsapp"`
	CreatedAt       time.Time        `json:"created_at"`
}
