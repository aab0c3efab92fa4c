package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
)

// NotifyEvent - отложенное уведомление одному получателю.
type NotifyEvent struct {
	RecipientID uuid.UUID
	Type        valueobject.NotificationType
	Message     string
	Refs        entity.NotificationRefs
}

// EventPublisher ставит побочные эффекты в очередь после фиксации основного изменения.
// Ошибки публикации логируются и не возвращаются вызывающему.
type EventPublisher interface {
	Notify(ctx context.Context, event NotifyEvent)
	BadgeCheck(ctx context.Context, userID uuid.UUID)
}

// RealtimePusher доставляет событие подключённым клиентам пользователя.
type RealtimePusher interface {
	Push(userID uuid.UUID, event string, data interface{})
}
