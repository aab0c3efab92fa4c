package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/ignatzorin/skillswap-backend/internal/logger"
	"github.com/sirupsen/logrus"
)

// Handler обрабатывает событие одного вида. Должен быть идемпотентным:
// событие может быть доставлено повторно после сбоя.
type Handler func(ctx context.Context, event Event) error

type RelayConfig struct {
	Batch       int
	MaxAttempts int
	BackoffBase time.Duration
	BackoffMax  time.Duration
	// Lease - на сколько откладывается событие на время обработки.
	Lease time.Duration
}

func (c RelayConfig) withDefaults() RelayConfig {
	if c.Batch <= 0 {
		c.Batch = 50
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 8
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = 2 * time.Second
	}
	if c.BackoffMax < c.BackoffBase {
		c.BackoffMax = c.BackoffBase
	}
	if c.Lease <= 0 {
		c.Lease = time.Minute
	}
	return c
}

type Relay struct {
	store    Store
	cfg      RelayConfig
	handlers map[Kind]Handler
	now      func() time.Time
	log      *logrus.Entry
}

func NewRelay(store Store, cfg RelayConfig) *Relay {
	return &Relay{
		store:    store,
		cfg:      cfg.withDefaults(),
		handlers: make(map[Kind]Handler),
		now:      time.Now,
		log:      logger.Component("outbox-relay"),
	}
}

func (r *Relay) Handle(kind Kind, h Handler) {
	r.handlers[kind] = h
}

// SetClock подменяет источник времени.
func (r *Relay) SetClock(now func() time.Time) {
	r.now = now
}

// Backoff возвращает задержку перед попыткой после attempts неудач: min(base*2^(attempts-1), max).
func Backoff(base, max time.Duration, attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	if attempts-1 >= 32 {
		return max
	}
	d := base << uint(attempts-1)
	if d <= 0 || d > max {
		return max
	}
	return d
}

// RunOnce обрабатывает одну пачку готовых событий и возвращает число успешно доставленных.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	events, err := r.store.Claim(ctx, r.now(), r.cfg.Batch, r.cfg.Lease)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, event := range events {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
		if r.dispatch(ctx, event) {
			delivered++
		}
	}
	return delivered, nil
}

func (r *Relay) dispatch(ctx context.Context, event Event) bool {
	entry := r.log.WithFields(logrus.Fields{
		"event_id": event.ID,
		"kind":     event.Kind,
	})

	handler, ok := r.handlers[event.Kind]
	if !ok {
		if err := r.store.MarkDead(ctx, event.ID, event.Attempts, fmt.Sprintf("неизвестный вид события %q", event.Kind)); err != nil {
			entry.WithError(err).Error("Не удалось пометить событие как dead")
		}
		entry.Error("Неизвестный вид события, событие отброшено")
		return false
	}

	handleErr := handler(ctx, event)
	if handleErr == nil {
		if err := r.store.MarkDone(ctx, event.ID); err != nil {
			entry.WithError(err).Error("Не удалось пометить событие как обработанное")
			return false
		}
		return true
	}

	attempts := event.Attempts + 1
	if attempts >= r.cfg.MaxAttempts {
		if err := r.store.MarkDead(ctx, event.ID, attempts, handleErr.Error()); err != nil {
			entry.WithError(err).Error("Не удалось пометить событие как dead")
		}
		entry.WithError(handleErr).WithField("attempts", attempts).Error("Событие исчерпало попытки доставки")
		return false
	}

	next := r.now().Add(Backoff(r.cfg.BackoffBase, r.cfg.BackoffMax, attempts))
	if err := r.store.MarkRetry(ctx, event.ID, attempts, next, handleErr.Error()); err != nil {
		entry.WithError(err).Error("Не удалось запланировать повтор")
	}
	entry.WithError(handleErr).WithFields(logrus.Fields{
		"attempts":   attempts,
		"next_retry": next,
	}).Warn("Ошибка обработки события, повторим позже")
	return false
}

// Cleanup удаляет обработанные события старше olderThan.
func (r *Relay) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	removed, err := r.store.DeleteDone(ctx, r.now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		r.log.WithField("removed", removed).Info("Очищены обработанные события outbox")
	}
	return removed, nil
}
