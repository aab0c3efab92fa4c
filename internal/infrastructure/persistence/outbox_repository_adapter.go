package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/outbox"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

// OutboxRepositoryAdapter реализует outbox.Store поверх таблицы outbox_events.
type OutboxRepositoryAdapter struct {
	db *sqlx.DB
}

func NewOutboxRepositoryAdapter(db *sqlx.DB) *OutboxRepositoryAdapter {
	return &OutboxRepositoryAdapter{db: db}
}

func (r *OutboxRepositoryAdapter) Insert(ctx context.Context, e outbox.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO outbox_events (id, kind, payload, status, attempts, next_attempt_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, string(e.Kind), []byte(e.Payload), string(e.Status), e.Attempts, e.NextAttemptAt, e.CreatedAt)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось записать событие outbox")
	}
	return nil
}

// Claim: SKIP LOCKED позволяет нескольким relay разбирать очередь без пересечений.
func (r *OutboxRepositoryAdapter) Claim(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]outbox.Event, error) {
	var rows []outboxRow
	query := `
		UPDATE outbox_events SET next_attempt_at = $3
		WHERE id IN (
			SELECT id FROM outbox_events
			WHERE status = 'pending' AND next_attempt_at <= $1
			ORDER BY created_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, payload, status, attempts, next_attempt_at, last_error, created_at`
	if err := r.db.SelectContext(ctx, &rows, query, now, limit, now.Add(lease)); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось выбрать события outbox")
	}
	events := make([]outbox.Event, len(rows))
	for i, row := range rows {
		events[i] = outbox.Event{
			ID:            row.ID,
			Kind:          outbox.Kind(row.Kind),
			Payload:       row.Payload,
			Status:        outbox.Status(row.Status),
			Attempts:      row.Attempts,
			NextAttemptAt: row.NextAttemptAt,
			LastError:     row.LastError,
			CreatedAt:     row.CreatedAt,
		}
	}
	return events, nil
}

func (r *OutboxRepositoryAdapter) MarkDone(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `UPDATE outbox_events SET status = 'done', processed_at = NOW() WHERE id = $1`, id)
}

func (r *OutboxRepositoryAdapter) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, next time.Time, lastErr string) error {
	return r.exec(ctx,
		`UPDATE outbox_events SET attempts = $2, next_attempt_at = $3, last_error = $4 WHERE id = $1`,
		id, attempts, next, lastErr)
}

func (r *OutboxRepositoryAdapter) MarkDead(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error {
	return r.exec(ctx,
		`UPDATE outbox_events SET status = 'dead', attempts = $2, last_error = $3, processed_at = NOW() WHERE id = $1`,
		id, attempts, lastErr)
}

// DeleteDone удаляет только доставленные события: dead остаются для разбора.
func (r *OutboxRepositoryAdapter) DeleteDone(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM outbox_events WHERE status = 'done' AND processed_at < $1`, before)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось очистить outbox")
	}
	return res.RowsAffected()
}

func (r *OutboxRepositoryAdapter) exec(ctx context.Context, query string, args ...interface{}) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить событие outbox")
	}
	return nil
}

type outboxRow struct {
	ID            uuid.UUID `db:"id"`
	Kind          string    `db:"kind"`
	Payload       []byte    `db:"payload"`
	Status        string    `db:"status"`
	Attempts      int       `db:"attempts"`
	NextAttemptAt time.Time `db:"next_attempt_at"`
	LastError     string    `db:"last_error"`
	CreatedAt     time.Time `db:"created_at"`
}
