package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/messaging"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/repository/database"
)

// SystemNotification describes one domain event to fan out. Target roles are
// resolved to currently-active persons; target users are taken as-is. The
// union of both, deduplicated, receives one in-app notification row each.
type SystemNotification struct {
	Title        string
	Message      string
	Type         domain.NotificationType
	TargetRoles  []domain.Role
	TargetUsers  []uuid.UUID
	Data         map[string]any
	SendSMS      bool
	SendWhatsApp bool
}

// NotificationService creates in-app notification rows and fans out to
// SMS/WhatsApp as best-effort overlays. A nil sender disables channel sends
// entirely (for deployments without Twilio credentials).
type NotificationService struct {
	persons     database.PersonRepository
	store       database.NotificationRepository
	sender      messaging.Sender
	countryCode string
}

func NewNotificationService(persons database.PersonRepository, store database.NotificationRepository, sender messaging.Sender, countryCode string) *NotificationService {
	return &NotificationService{
		persons:     persons,
		store:       store,
		sender:      sender,
		countryCode: countryCode,
	}
}

// Send resolves recipients and creates one notification row per recipient.
// Channel-send failures are logged and never propagate; a failure to create
// an in-app row does propagate, since in-app is the reliable channel.
func (s *NotificationService) Send(ctx context.Context, sn SystemNotification) ([]domain.Notification, error) {
	recipients := make(map[uuid.UUID]*domain.Person)

	if len(sn.TargetRoles) > 0 {
		persons, err := s.persons.FindActiveByRoles(ctx, sn.TargetRoles)
		if err != nil {
			return nil, fmt.Errorf("resolve target roles: %w", err)
		}
		for i := range persons {
			recipients[persons[i].ID] = &persons[i]
		}
	}
	for _, id := range sn.TargetUsers {
		if _, ok := recipients[id]; !ok {
			recipients[id] = nil // looked up lazily, only for channel sends
		}
	}

	var created []domain.Notification
	for id, person := range recipients {
		n := domain.Notification{
			ID:          uuid.New(),
			RecipientID: id,
			Type:        sn.Type,
			Title:       sn.Title,
			Message:     sn.Message,
			Data:        sn.Data,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.store.Append(ctx, &n); err != nil {
			return created, fmt.Errorf("create notification for %s: %w", id, err)
		}

		s.sendChannels(ctx, &n, person, sn)
		created = append(created, n)
	}
	return created, nil
}

func (s *NotificationService) sendChannels(ctx context.Context, n *domain.Notification, person *domain.Person, sn SystemNotification) {
	if s.sender == nil || (!sn.SendSMS && !sn.SendWhatsApp) {
		return
	}

	if person == nil {
		p, err := s.persons.Get(ctx, n.RecipientID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				log.Printf("notification recipient lookup %s: %v", n.RecipientID, err)
			}
			return
		}
		person = p
	}
	if person.ContactNumber == "" {
		return
	}

	to := s.normalizePhone(person.ContactNumber)

	if sn.SendSMS {
		if err := s.sender.SendSMS(ctx, to, n.Message); err != nil {
			log.Printf("sms send to %s failed: %v", n.RecipientID, err)
		} else {
			n.SentViaSMS = true
		}
	}
	if sn.SendWhatsApp {
		if err := s.sender.SendWhatsApp(ctx, to, n.Message); err != nil {
			log.Printf("whatsapp send to %s failed: %v", n.RecipientID, err)
		} else {
			n.SentViaWhatsApp = true
		}
	}

	if n.SentViaSMS || n.SentViaWhatsApp {
		if err := s.store.UpdateChannelFlags(ctx, n.ID, n.SentViaSMS, n.SentViaWhatsApp); err != nil {
			log.Printf("update channel flags for %s: %v", n.ID, err)
		}
	}
}

// normalizePhone prepends the configured country code to numbers without an
// international prefix; such numbers are assumed domestic.
func (s *NotificationService) normalizePhone(number string) string {
	if strings.HasPrefix(number, "+") {
		return number
	}
	return s.countryCode + number
}

func (s *NotificationService) NotifyGeofenceAlert(ctx context.Context, driverName, alertType string) error {
	_, err := s.Send(ctx, SystemNotification{
		Title:       fmt.Sprintf("GPS Alert: %s", alertType),
		Message:     fmt.Sprintf("Driver %s - %s", driverName, alertType),
		Type:        domain.NotificationGeofenceAlert,
		TargetRoles: domain.ManagerRoles,
		SendSMS:     true,
	})
	return err
}

func (s *NotificationService) NotifyOnboardingApproval(ctx context.Context, managerID uuid.UUID, workerName string) error {
	_, err := s.Send(ctx, SystemNotification{
		Title:       "Onboarding Request Submitted",
		Message:     fmt.Sprintf("Worker %s has been submitted for admin approval.", workerName),
		Type:        domain.NotificationOnboardingApproval,
		TargetUsers: []uuid.UUID{managerID},
	})
	return err
}

func (s *NotificationService) NotifyProvisionRequest(ctx context.Context, recipientID uuid.UUID, requestType string, amount float64, requesterName string) error {
	_, err := s.Send(ctx, SystemNotification{
		Title:        fmt.Sprintf("New %s Request", requestType),
		Message:      fmt.Sprintf("%s requested %s for ₹%.2f", requesterName, requestType, amount),
		Type:         domain.NotificationProvisionRequest,
		TargetUsers:  []uuid.UUID{recipientID},
		SendSMS:      true,
		SendWhatsApp: true,
	})
	return err
}

func (s *NotificationService) NotifyLotCompletion(ctx context.Context, managerID uuid.UUID, lotID, supervisorName string) error {
	_, err := s.Send(ctx, SystemNotification{
		Title:       "Lot Processing Complete",
		Message:     fmt.Sprintf("%s completed processing for %s. Awaiting approval.", supervisorName, lotID),
		Type:        domain.NotificationLotCompletion,
		TargetUsers: []uuid.UUID{managerID},
		SendSMS:     true,
	})
	return err
}

func (s *NotificationService) ListForRecipient(ctx context.Context, recipient *domain.Person, onlyUnread bool) ([]domain.Notification, error) {
	return s.store.ListForRecipient(ctx, recipient.ID, onlyUnread)
}

func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID, recipient *domain.Person) error {
	ok, err := s.store.MarkRead(ctx, id, recipient.ID, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
