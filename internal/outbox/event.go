// Package outbox хранит побочные эффекты (уведомления, пересчёт значков) в таблице
// outbox_events и доставляет их фоновым relay с повторными попытками.
package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindNotify     Kind = "notify"
	KindBadgeCheck Kind = "badge_check"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusDead    Status = "dead"
)

type Event struct {
	ID            uuid.UUID
	Kind          Kind
	Payload       json.RawMessage
	Status        Status
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
	CreatedAt     time.Time
}

type NotifyPayload struct {
	RecipientID uuid.UUID  `json:"recipient_id"`
	Type        string     `json:"type"`
	Message     string     `json:"message"`
	ChatID      *uuid.UUID `json:"chat_id,omitempty"`
	RequestID   *uuid.UUID `json:"request_id,omitempty"`
	OffererID   *uuid.UUID `json:"offerer_id,omitempty"`
}

type BadgeCheckPayload struct {
	UserID uuid.UUID `json:"user_id"`
}

func NewEvent(kind Kind, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	now := time.Now()
	return Event{
		ID:            uuid.New(),
		Kind:          kind,
		Payload:       raw,
		Status:        StatusPending,
		NextAttemptAt: now,
		CreatedAt:     now,
	}, nil
}

// Store - хранилище событий. Claim должен быть безопасен при нескольких экземплярах relay.
type Store interface {
	Insert(ctx context.Context, event Event) error
	// Claim забирает до limit готовых событий и сдвигает их next_attempt_at на lease,
	// чтобы другой экземпляр не взял их, пока идёт обработка.
	Claim(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]Event, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	MarkRetry(ctx context.Context, id uuid.UUID, attempts int, next time.Time, lastErr string) error
	MarkDead(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error
	DeleteDone(ctx context.Context, before time.Time) (int64, error)
}
