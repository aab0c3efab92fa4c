package notification_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/fakes"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/notification"
)

func TestNotify_WritesAndPushes(t *testing.T) {
	db := fakes.NewDB()
	pusher := fakes.NewPusher()
	uc := notification.NewNotifyUseCase(db.Notifications(), pusher)
	recipient := uuid.New()

	n, created, err := uc.Execute(context.Background(), notification.NotifyInput{
		RecipientID: recipient,
		Type:        valueobject.NotificationOfferAccepted,
		Message:     "Ваш отклик принят",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, recipient, n.RecipientID)
	assert.False(t, n.IsRead)
	assert.Len(t, db.NotificationsFor(recipient), 1)
	assert.Equal(t, 1, pusher.Count(notification.RealtimeEvent))
}

func TestNotify_Validation(t *testing.T) {
	uc := notification.NewNotifyUseCase(fakes.NewDB().Notifications(), nil)

	_, _, err := uc.Execute(context.Background(), notification.NotifyInput{Type: valueobject.NotificationNewChat, Message: "x"})
	assert.True(t, apperror.IsValidation(err))

	_, _, err = uc.Execute(context.Background(), notification.NotifyInput{RecipientID: uuid.New(), Type: "spam", Message: "x"})
	assert.True(t, apperror.IsValidation(err))
}

func TestNotify_DuplicateEventIsDeliveredOnce(t *testing.T) {
	db := fakes.NewDB()
	pusher := fakes.NewPusher()
	uc := notification.NewNotifyUseCase(db.Notifications(), pusher)
	recipient := uuid.New()
	eventID := uuid.New()
	input := notification.NotifyInput{
		RecipientID: recipient,
		Type:        valueobject.NotificationKarmaAwarded,
		Message:     "+5 кармы",
		EventID:     &eventID,
	}

	_, first, err := uc.Execute(context.Background(), input)
	require.NoError(t, err)
	_, second, err := uc.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	assert.Len(t, db.NotificationsFor(recipient), 1)
	assert.Equal(t, 1, pusher.Count(notification.RealtimeEvent))
}

func TestNotify_SameTypeTwiceWithoutEventIDGivesTwo(t *testing.T) {
	db := fakes.NewDB()
	uc := notification.NewNotifyUseCase(db.Notifications(), nil)
	recipient := uuid.New()
	input := notification.NotifyInput{RecipientID: recipient, Type: valueobject.NotificationNewMessage, Message: "hi"}

	_, _, _ = uc.Execute(context.Background(), input)
	_, _, _ = uc.Execute(context.Background(), input)

	assert.Len(t, db.NotificationsFor(recipient), 2)
}

func TestMarkAsRead_OwnerOnlyAndWriteOnce(t *testing.T) {
	db := fakes.NewDB()
	repo := db.Notifications()
	owner := uuid.New()
	n, _, err := notification.NewNotifyUseCase(repo, nil).Execute(context.Background(), notification.NotifyInput{
		RecipientID: owner, Type: valueobject.NotificationNewOffer, Message: "Новый отклик",
	})
	require.NoError(t, err)

	uc := notification.NewMarkAsReadUseCase(repo)
	assert.ErrorIs(t, uc.Execute(context.Background(), n.ID, uuid.New()), apperror.ErrForbidden)
	require.NoError(t, uc.Execute(context.Background(), n.ID, owner))
	require.NoError(t, uc.Execute(context.Background(), n.ID, owner))

	count, err := notification.NewCountUnreadUseCase(repo).Execute(context.Background(), owner)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkAllAsReadAndList(t *testing.T) {
	db := fakes.NewDB()
	repo := db.Notifications()
	owner := uuid.New()
	notify := notification.NewNotifyUseCase(repo, nil)
	for i := 0; i < 3; i++ {
		_, _, err := notify.Execute(context.Background(), notification.NotifyInput{
			RecipientID: owner, Type: valueobject.NotificationNewMessage, Message: "msg",
		})
		require.NoError(t, err)
	}

	list := notification.NewListUseCase(repo)
	unread, err := list.Execute(context.Background(), owner, true, 2, 0)
	require.NoError(t, err)
	assert.Len(t, unread.Items, 2)
	assert.Equal(t, 3, unread.Total)

	updated, err := notification.NewMarkAllAsReadUseCase(repo).Execute(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	unread, err = list.Execute(context.Background(), owner, true, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, unread.Items)
}

func TestDelete_OwnerOnly(t *testing.T) {
	db := fakes.NewDB()
	repo := db.Notifications()
	owner := uuid.New()
	n, _, _ := notification.NewNotifyUseCase(repo, nil).Execute(context.Background(), notification.NotifyInput{
		RecipientID: owner, Type: valueobject.NotificationNewChat, Message: "Новый чат",
	})
	uc := notification.NewDeleteUseCase(repo)

	assert.ErrorIs(t, uc.Execute(context.Background(), n.ID, uuid.New()), apperror.ErrForbidden)
	require.NoError(t, uc.Execute(context.Background(), n.ID, owner))
	assert.ErrorIs(t, uc.Execute(context.Background(), n.ID, owner), apperror.ErrNotificationNotFound)
}
