package entity

import (
	"bytes"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

// chatNamespace - пространство имён для детерминированных ID чатов.
var chatNamespace = uuid.MustParse("5b0f6a52-8d0b-4f44-9c1d-6a5e2f0c7e31")

const lastMessagePreviewLength = 100

// ChatKey строит ID чата из запроса и неупорядоченной пары участников.
func ChatKey(requestID, a, b uuid.UUID) uuid.UUID {
	pair := []uuid.UUID{a, b}
	sort.Slice(pair, func(i, j int) bool { return bytes.Compare(pair[i][:], pair[j][:]) < 0 })

	var key strings.Builder
	key.WriteString(requestID.String())
	for _, id := range pair {
		key.WriteByte(':')
		key.WriteString(id.String())
	}
	return uuid.NewSHA1(chatNamespace, []byte(key.String()))
}

type Chat struct {
	ID            uuid.UUID
	RequestID     uuid.UUID
	RequestTitle  string
	Participants  []uuid.UUID
	Unread        map[uuid.UUID]int
	LastMessage   string
	LastMessageAt *time.Time
	LastSenderID  *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewChat(requestID, a, b uuid.UUID, requestTitle string) (*Chat, error) {
	if a == b {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя создать чат с самим собой")
	}
	if a == uuid.Nil || b == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "участники чата обязательны")
	}
	now := time.Now()
	return &Chat{
		ID:           ChatKey(requestID, a, b),
		RequestID:    requestID,
		RequestTitle: requestTitle,
		Participants: []uuid.UUID{a, b},
		Unread:       map[uuid.UUID]int{a: 0, b: 0},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (c *Chat) IsParticipant(userID uuid.UUID) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// Recipients возвращает всех участников, кроме отправителя.
func (c *Chat) Recipients(senderID uuid.UUID) []uuid.UUID {
	result := make([]uuid.UUID, 0, len(c.Participants))
	for _, id := range c.Participants {
		if id != senderID {
			result = append(result, id)
		}
	}
	return result
}

// RecordMessage обновляет сводку последнего сообщения и счётчики непрочитанных в памяти.
func (c *Chat) RecordMessage(msg *Message) {
	c.LastMessage = Preview(msg.Text)
	at := msg.CreatedAt
	c.LastMessageAt = &at
	sender := msg.SenderID
	c.LastSenderID = &sender
	c.UpdatedAt = at
	if c.Unread == nil {
		c.Unread = make(map[uuid.UUID]int, len(c.Participants))
	}
	for _, id := range c.Recipients(msg.SenderID) {
		c.Unread[id]++
	}
}

// Preview обрезает текст сообщения для отображения в списке чатов.
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= lastMessagePreviewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:lastMessagePreviewLength]) + "…"
}

type Message struct {
	ID        uuid.UUID
	ChatID    uuid.UUID
	SenderID  uuid.UUID
	Text      string
	IsRead    bool
	CreatedAt time.Time
}

// NewMessage возвращает nil без ошибки, если текст состоит только из пробелов.
func NewMessage(chatID, senderID uuid.UUID, text string) *Message {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &Message{
		ID:        uuid.New(),
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now(),
	}
}
