package outbox

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/logger"
	"github.com/sirupsen/logrus"
)

// Publisher записывает события в outbox. Ошибка записи логируется,
// основная операция к этому моменту уже зафиксирована.
type Publisher struct {
	store Store
	log   *logrus.Entry
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store, log: logger.Component("outbox")}
}

func (p *Publisher) Notify(ctx context.Context, event repository.NotifyEvent) {
	p.enqueue(ctx, KindNotify, NotifyPayload{
		RecipientID: event.RecipientID,
		Type:        string(event.Type),
		Message:     event.Message,
		ChatID:      event.Refs.ChatID,
		RequestID:   event.Refs.RequestID,
		OffererID:   event.Refs.OffererID,
	})
}

func (p *Publisher) BadgeCheck(ctx context.Context, userID uuid.UUID) {
	p.enqueue(ctx, KindBadgeCheck, BadgeCheckPayload{UserID: userID})
}

func (p *Publisher) enqueue(ctx context.Context, kind Kind, payload interface{}) {
	event, err := NewEvent(kind, payload)
	if err != nil {
		p.log.WithError(err).WithField("kind", kind).Error("Не удалось сериализовать событие")
		return
	}
	if err := p.store.Insert(ctx, event); err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{
			"kind":     kind,
			"event_id": event.ID,
		}).Error("Не удалось записать событие в outbox")
	}
}
