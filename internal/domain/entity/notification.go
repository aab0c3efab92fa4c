package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

// NotificationRefs - необязательные ссылки на связанные сущности.
type NotificationRefs struct {
	ChatID    *uuid.UUID `json:"chat_id,omitempty"`
	RequestID *uuid.UUID `json:"request_id,omitempty"`
	OffererID *uuid.UUID `json:"offerer_id,omitempty"`
}

type Notification struct {
	ID          uuid.UUID
	RecipientID uuid.UUID
	Type        valueobject.NotificationType
	Message     string
	IsRead      bool
	Refs        NotificationRefs
	EventID     *uuid.UUID
	CreatedAt   time.Time
}

func NewNotification(recipientID uuid.UUID, typ valueobject.NotificationType, message string, refs NotificationRefs) (*Notification, error) {
	if recipientID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "получатель уведомления обязателен")
	}
	if !typ.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный тип уведомления")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "текст уведомления обязателен")
	}
	return &Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Type:        typ,
		Message:     message,
		Refs:        refs,
		CreatedAt:   time.Now(),
	}, nil
}

func (n *Notification) IsOwnedBy(userID uuid.UUID) bool {
	return n.RecipientID == userID
}
