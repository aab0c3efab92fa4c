package valueobject

import "github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"

type NotificationType string

const (
	NotificationNewOffer      NotificationType = "new_offer"
	NotificationOfferAccepted NotificationType = "offer_accepted"
	NotificationOfferRejected NotificationType = "offer_rejected"
	NotificationKarmaAwarded  NotificationType = "karma_awarded"
	NotificationNewChat       NotificationType = "new_chat"
	NotificationNewMessage    NotificationType = "new_message"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationNewOffer, NotificationOfferAccepted, NotificationOfferRejected,
		NotificationKarmaAwarded, NotificationNewChat, NotificationNewMessage:
		return true
	}
	return false
}

func NewNotificationType(value string) (NotificationType, error) {
	t := NotificationType(value)
	if !t.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный тип уведомления")
	}
	return t, nil
}
