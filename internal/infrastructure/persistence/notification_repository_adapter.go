package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

const notificationColumns = `id, recipient_id, type, message, is_read, chat_id, request_id, offerer_id, event_id, created_at`

type NotificationRepositoryAdapter struct {
	db *sqlx.DB
}

func NewNotificationRepositoryAdapter(db *sqlx.DB) *NotificationRepositoryAdapter {
	return &NotificationRepositoryAdapter{db: db}
}

// Create опирается на уникальный event_id: повторная доставка того же события ничего не пишет.
func (r *NotificationRepositoryAdapter) Create(ctx context.Context, n *entity.Notification) (bool, error) {
	query := `
		INSERT INTO notifications (id, recipient_id, type, message, is_read, chat_id, request_id, offerer_id, event_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (event_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.RecipientID,
		string(n.Type),
		n.Message,
		n.IsRead,
		uuidPtr(n.Refs.ChatID),
		uuidPtr(n.Refs.RequestID),
		uuidPtr(n.Refs.OffererID),
		uuidPtr(n.EventID),
		n.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, apperror.ErrUserNotFound
		}
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать уведомление")
	}
	rows, _ := res.RowsAffected()
	return rows == 1, nil
}

func (r *NotificationRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	var row notificationRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrNotificationNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить уведомление")
	}
	return row.toEntity(), nil
}

func (r *NotificationRepositoryAdapter) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]*entity.Notification, int, error) {
	where := ` WHERE recipient_id = $1 AND (NOT $2 OR NOT is_read)`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications`+where, recipientID, unreadOnly); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать уведомления")
	}

	var limitArg interface{}
	if limit > 0 {
		limitArg = limit
	}
	var rows []notificationRow
	query := `SELECT ` + notificationColumns + ` FROM notifications` + where +
		` ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &rows, query, recipientID, unreadOnly, limitArg, offset); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить уведомления")
	}
	result := make([]*entity.Notification, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, total, nil
}

func (r *NotificationRepositoryAdapter) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT is_read`, recipientID); err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать непрочитанные уведомления")
	}
	return count, nil
}

func (r *NotificationRepositoryAdapter) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отметить уведомление")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryAdapter) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND NOT is_read`, recipientID)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отметить уведомления")
	}
	return res.RowsAffected()
}

func (r *NotificationRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить уведомление")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrNotificationNotFound
	}
	return nil
}

type notificationRow struct {
	ID          uuid.UUID     `db:"id"`
	RecipientID uuid.UUID     `db:"recipient_id"`
	Type        string        `db:"type"`
	Message     string        `db:"message"`
	IsRead      bool          `db:"is_read"`
	ChatID      uuid.NullUUID `db:"chat_id"`
	RequestID   uuid.NullUUID `db:"request_id"`
	OffererID   uuid.NullUUID `db:"offerer_id"`
	EventID     uuid.NullUUID `db:"event_id"`
	CreatedAt   time.Time     `db:"created_at"`
}

func (n *notificationRow) toEntity() *entity.Notification {
	return &entity.Notification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Type:        valueobject.NotificationType(n.Type),
		Message:     n.Message,
		IsRead:      n.IsRead,
		Refs: entity.NotificationRefs{
			ChatID:    nullUUIDPtr(n.ChatID),
			RequestID: nullUUIDPtr(n.RequestID),
			OffererID: nullUUIDPtr(n.OffererID),
		},
		EventID:   nullUUIDPtr(n.EventID),
		CreatedAt: n.CreatedAt,
	}
}

func uuidPtr(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func nullUUIDPtr(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	v := id.UUID
	return &v
}
