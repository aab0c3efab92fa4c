package fakes

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

type ChatRepository struct {
	db      *DB
	Creates int
}

func (db *DB) Chats() *ChatRepository { return &ChatRepository{db: db} }

// MessageCount - число сохранённых сообщений во всех чатах.
func (db *DB) MessageCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.messages)
}

func (r *ChatRepository) Create(ctx context.Context, chat *entity.Chat) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, exists := r.db.chats[chat.ID]; exists {
		return false, nil
	}
	r.Creates++
	r.db.chats[chat.ID] = cloneChat(chat)
	return true, nil
}

func (r *ChatRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Chat, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.chats[id]
	if !ok {
		return nil, apperror.ErrChatNotFound
	}
	return cloneChat(c), nil
}

func (r *ChatRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Chat, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var result []*entity.Chat
	for _, c := range r.db.chats {
		if c.IsParticipant(userID) {
			result = append(result, cloneChat(c))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	return result, nil
}

func (r *ChatRepository) AppendMessage(ctx context.Context, msg *entity.Message) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.chats[msg.ChatID]
	if !ok {
		return apperror.ErrChatNotFound
	}
	m := *msg
	r.db.messages = append(r.db.messages, &m)
	c.RecordMessage(msg)
	return nil
}

func (r *ChatRepository) ListMessages(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]*entity.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var result []*entity.Message
	for i := len(r.db.messages) - 1; i >= 0; i-- {
		if m := r.db.messages[i]; m.ChatID == chatID {
			c := *m
			result = append(result, &c)
		}
	}
	if offset >= len(result) {
		return []*entity.Message{}, nil
	}
	end := len(result)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return result[offset:end], nil
}

func (r *ChatRepository) MarkRead(ctx context.Context, chatID, userID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.chats[chatID]
	if !ok {
		return apperror.ErrChatNotFound
	}
	c.Unread[userID] = 0
	for _, m := range r.db.messages {
		if m.ChatID == chatID && m.SenderID != userID {
			m.IsRead = true
		}
	}
	return nil
}
