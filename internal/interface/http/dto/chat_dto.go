package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/chat"
)

type GetOrCreateChatRequest struct {
	RequestID     uuid.UUID `json:"request_id" binding:"required"`
	ParticipantID uuid.UUID `json:"participant_id" binding:"required"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

type ChatResponse struct {
	ID            uuid.UUID   `json:"id"`
	RequestID     uuid.UUID   `json:"request_id"`
	RequestTitle  string      `json:"request_title"`
	Participants  []uuid.UUID `json:"participants"`
	LastMessage   string      `json:"last_message"`
	LastMessageAt *time.Time  `json:"last_message_at,omitempty"`
	LastSenderID  *uuid.UUID  `json:"last_sender_id,omitempty"`
	Unread        int         `json:"unread"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type GetOrCreateChatResponse struct {
	Chat    ChatResponse `json:"chat"`
	Created bool         `json:"created"`
}

type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	ChatID    uuid.UUID `json:"chat_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Text      string    `json:"text"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ToChatResponse показывает счётчик непрочитанных конкретного участника.
func ToChatResponse(c *entity.Chat, viewerID uuid.UUID) ChatResponse {
	return ChatResponse{
		ID:            c.ID,
		RequestID:     c.RequestID,
		RequestTitle:  c.RequestTitle,
		Participants:  c.Participants,
		LastMessage:   c.LastMessage,
		LastMessageAt: c.LastMessageAt,
		LastSenderID:  c.LastSenderID,
		Unread:        c.Unread[viewerID],
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func ToChatViewResponses(views []chat.ChatView) []ChatResponse {
	result := make([]ChatResponse, len(views))
	for i, v := range views {
		result[i] = ToChatResponse(v.Chat, uuid.Nil)
		result[i].Unread = v.Unread
	}
	return result
}

func ToMessageResponse(m *entity.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Text:      m.Text,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func ToMessageResponses(messages []*entity.Message) []MessageResponse {
	result := make([]MessageResponse, len(messages))
	for i, m := range messages {
		result[i] = ToMessageResponse(m)
	}
	return result
}
