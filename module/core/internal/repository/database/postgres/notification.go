package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/repository/database"
)

var _ database.NotificationRepository = (*NotificationRepo)(nil)

type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Append(ctx context.Context, n *domain.Notification) error {
	var data []byte
	if n.Data != nil {
		var err error
		data, err = json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("marshal notification data: %w", err)
		}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, recipient_id, notification_type, title, message, data, read, sent_via_sms, sent_via_whatsapp, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		n.ID, n.RecipientID, n.Type, n.Title, n.Message, data,
		n.Read, n.SentViaSMS, n.SentViaWhatsApp, n.CreatedAt,
	)
	return err
}

func (r *NotificationRepo) UpdateChannelFlags(ctx context.Context, id uuid.UUID, sms, whatsapp bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET sent_via_sms = $1, sent_via_whatsapp = $2 WHERE id = $3`,
		sms, whatsapp, id,
	)
	return err
}

func (r *NotificationRepo) ListForRecipient(ctx context.Context, recipientID uuid.UUID, onlyUnread bool) ([]domain.Notification, error) {
	query := `SELECT id, recipient_id, notification_type, title, message, data, read, read_at, sent_via_sms, sent_via_whatsapp, created_at
		 FROM notifications WHERE recipient_id = $1`
	if onlyUnread {
		query += ` AND read = false`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var data []byte
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Message, &data,
			&n.Read, &n.ReadAt, &n.SentViaSMS, &n.SentViaWhatsApp, &n.CreatedAt); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &n.Data); err != nil {
				return nil, fmt.Errorf("unmarshal notification data: %w", err)
			}
		}
		results = append(results, n)
	}
	return results, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID uuid.UUID, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = true, read_at = $1 WHERE id = $2 AND recipient_id = $3`,
		at, id, recipientID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
