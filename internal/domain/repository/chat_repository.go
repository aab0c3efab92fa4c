package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
)

type ChatRepository interface {
	// Create возвращает created=false, если чат с таким ключом уже существует.
	Create(ctx context.Context, chat *entity.Chat) (created bool, err error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Chat, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Chat, error)
	// AppendMessage пишет сообщение, сводку чата и счётчики непрочитанных одной транзакцией.
	AppendMessage(ctx context.Context, msg *entity.Message) error
	ListMessages(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]*entity.Message, error)
	MarkRead(ctx context.Context, chatID, userID uuid.UUID) error
}
