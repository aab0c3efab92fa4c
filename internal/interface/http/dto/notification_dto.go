package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
)

type NotificationResponse struct {
	ID        uuid.UUID               `json:"id"`
	Type      string                  `json:"type"`
	Message   string                  `json:"message"`
	IsRead    bool                    `json:"is_read"`
	Refs      entity.NotificationRefs `json:"refs"`
	CreatedAt time.Time               `json:"created_at"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func ToNotificationResponses(items []*entity.Notification) []NotificationResponse {
	result := make([]NotificationResponse, len(items))
	for i, n := range items {
		result[i] = NotificationResponse{
			ID:        n.ID,
			Type:      string(n.Type),
			Message:   n.Message,
			IsRead:    n.IsRead,
			Refs:      n.Refs,
			CreatedAt: n.CreatedAt,
		}
	}
	return result
}
