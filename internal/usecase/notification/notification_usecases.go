package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

// RealtimeEvent - тип события в WebSocket для нового уведомления.
const RealtimeEvent = "notification"

const (
	defaultLimit = 20
	maxLimit     = 100
)

type NotifyInput struct {
	RecipientID uuid.UUID
	Type        valueobject.NotificationType
	Message     string
	Refs        entity.NotificationRefs
	// EventID - ключ идемпотентности доставки из outbox, может отсутствовать.
	EventID *uuid.UUID
}

type NotifyUseCase struct {
	notificationRepo repository.NotificationRepository
	pusher           repository.RealtimePusher
}

func NewNotifyUseCase(notificationRepo repository.NotificationRepository, pusher repository.RealtimePusher) *NotifyUseCase {
	return &NotifyUseCase{notificationRepo: notificationRepo, pusher: pusher}
}

// Execute пишет одно уведомление. created=false означает, что событие уже было доставлено ранее.
func (uc *NotifyUseCase) Execute(ctx context.Context, input NotifyInput) (*entity.Notification, bool, error) {
	n, err := entity.NewNotification(input.RecipientID, input.Type, input.Message, input.Refs)
	if err != nil {
		return nil, false, err
	}
	n.EventID = input.EventID

	created, err := uc.notificationRepo.Create(ctx, n)
	if err != nil {
		return nil, false, err
	}
	if created && uc.pusher != nil {
		uc.pusher.Push(n.RecipientID, RealtimeEvent, n)
	}
	return n, created, nil
}

type ListResult struct {
	Items  []*entity.Notification
	Total  int
	Limit  int
	Offset int
}

type ListUseCase struct {
	notificationRepo repository.NotificationRepository
}

func NewListUseCase(notificationRepo repository.NotificationRepository) *ListUseCase {
	return &ListUseCase{notificationRepo: notificationRepo}
}

func (uc *ListUseCase) Execute(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) (ListResult, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	items, total, err := uc.notificationRepo.ListByRecipient(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

type CountUnreadUseCase struct {
	notificationRepo repository.NotificationRepository
}

func NewCountUnreadUseCase(notificationRepo repository.NotificationRepository) *CountUnreadUseCase {
	return &CountUnreadUseCase{notificationRepo: notificationRepo}
}

func (uc *CountUnreadUseCase) Execute(ctx context.Context, userID uuid.UUID) (int, error) {
	return uc.notificationRepo.CountUnread(ctx, userID)
}

type MarkAsReadUseCase struct {
	notificationRepo repository.NotificationRepository
}

func NewMarkAsReadUseCase(notificationRepo repository.NotificationRepository) *MarkAsReadUseCase {
	return &MarkAsReadUseCase{notificationRepo: notificationRepo}
}

func (uc *MarkAsReadUseCase) Execute(ctx context.Context, id, userID uuid.UUID) error {
	n, err := uc.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !n.IsOwnedBy(userID) {
		return apperror.ErrForbidden
	}
	if n.IsRead {
		return nil
	}
	return uc.notificationRepo.MarkAsRead(ctx, id)
}

type MarkAllAsReadUseCase struct {
	notificationRepo repository.NotificationRepository
}

func NewMarkAllAsReadUseCase(notificationRepo repository.NotificationRepository) *MarkAllAsReadUseCase {
	return &MarkAllAsReadUseCase{notificationRepo: notificationRepo}
}

func (uc *MarkAllAsReadUseCase) Execute(ctx context.Context, userID uuid.UUID) (int64, error) {
	return uc.notificationRepo.MarkAllAsRead(ctx, userID)
}

type DeleteUseCase struct {
	notificationRepo repository.NotificationRepository
}

func NewDeleteUseCase(notificationRepo repository.NotificationRepository) *DeleteUseCase {
	return &DeleteUseCase{notificationRepo: notificationRepo}
}

func (uc *DeleteUseCase) Execute(ctx context.Context, id, userID uuid.UUID) error {
	n, err := uc.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !n.IsOwnedBy(userID) {
		return apperror.ErrForbidden
	}
	return uc.notificationRepo.Delete(ctx, id)
}
