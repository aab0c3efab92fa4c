package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/repository/common"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const chatColumns = `c.id, c.request_id, c.request_title, c.last_message, c.last_message_at, c.last_sender_id,
	c.created_at, c.updated_at`

type ChatRepositoryAdapter struct {
	db *sqlx.DB
}

func NewChatRepositoryAdapter(db *sqlx.DB) *ChatRepositoryAdapter {
	return &ChatRepositoryAdapter{db: db}
}

// Create вставляет чат и участников. ID чата детерминирован, поэтому
// повторное создание для той же пары упирается в первичный ключ и ничего не меняет.
func (r *ChatRepositoryAdapter) Create(ctx context.Context, chat *entity.Chat) (bool, error) {
	var created bool
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO chats (id, request_id, request_title, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING`,
			chat.ID, chat.RequestID, chat.RequestTitle, chat.CreatedAt, chat.UpdatedAt)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		created = true
		batch := common.NewBatchInserter(tx, `INSERT INTO chat_participants (chat_id, user_id)`, 2, len(chat.Participants)+1)
		for _, userID := range chat.Participants {
			if err := batch.Add(ctx, chat.ID, userID); err != nil {
				return err
			}
		}
		if err := batch.Flush(ctx); err != nil {
			if isForeignKeyViolation(err) {
				return apperror.ErrUserNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return false, txError(err, "не удалось создать чат")
	}
	return created, nil
}

func (r *ChatRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Chat, error) {
	var row chatRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+chatColumns+` FROM chats c WHERE c.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrChatNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить чат")
	}
	chats, err := r.withParticipants(ctx, []chatRow{row})
	if err != nil {
		return nil, err
	}
	return chats[0], nil
}

func (r *ChatRepositoryAdapter) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Chat, error) {
	var rows []chatRow
	query := `SELECT ` + chatColumns + `
		FROM chats c
		JOIN chat_participants p ON p.chat_id = c.id
		WHERE p.user_id = $1
		ORDER BY c.updated_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить чаты")
	}
	return r.withParticipants(ctx, rows)
}

func (r *ChatRepositoryAdapter) withParticipants(ctx context.Context, rows []chatRow) ([]*entity.Chat, error) {
	result := make([]*entity.Chat, len(rows))
	if len(rows) == 0 {
		return result, nil
	}
	byID := make(map[uuid.UUID]*entity.Chat, len(rows))
	ids := make([]string, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
		byID[rows[i].ID] = result[i]
		ids[i] = rows[i].ID.String()
	}

	var participants []struct {
		ChatID      uuid.UUID `db:"chat_id"`
		UserID      uuid.UUID `db:"user_id"`
		UnreadCount int       `db:"unread_count"`
	}
	if err := r.db.SelectContext(ctx, &participants, `
		SELECT chat_id, user_id, unread_count FROM chat_participants
		WHERE chat_id = ANY($1::uuid[])
		ORDER BY chat_id, user_id`, pq.Array(ids)); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить участников чата")
	}
	for _, p := range participants {
		chat := byID[p.ChatID]
		chat.Participants = append(chat.Participants, p.UserID)
		chat.Unread[p.UserID] = p.UnreadCount
	}
	return result, nil
}

// AppendMessage пишет сообщение, обновляет сводку чата и увеличивает непрочитанные всем, кроме отправителя.
func (r *ChatRepositoryAdapter) AppendMessage(ctx context.Context, msg *entity.Message) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE chats SET last_message = $2, last_message_at = $3, last_sender_id = $4, updated_at = $3
			WHERE id = $1`,
			msg.ChatID, entity.Preview(msg.Text), msg.CreatedAt, msg.SenderID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperror.ErrChatNotFound
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO messages (id, chat_id, sender_id, text, is_read, created_at)
			VALUES ($1, $2, $3, $4, FALSE, $5)`,
			msg.ID, msg.ChatID, msg.SenderID, msg.Text, msg.CreatedAt); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE chat_participants SET unread_count = unread_count + 1
			WHERE chat_id = $1 AND user_id <> $2`, msg.ChatID, msg.SenderID)
		return err
	})
	return txError(err, "не удалось сохранить сообщение")
}

func (r *ChatRepositoryAdapter) ListMessages(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]*entity.Message, error) {
	var rows []struct {
		ID        uuid.UUID `db:"id"`
		ChatID    uuid.UUID `db:"chat_id"`
		SenderID  uuid.UUID `db:"sender_id"`
		Text      string    `db:"text"`
		IsRead    bool      `db:"is_read"`
		CreatedAt time.Time `db:"created_at"`
	}
	query := `SELECT id, chat_id, sender_id, text, is_read, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`
	// LIMIT NULL - без ограничения.
	var limitArg interface{}
	if limit > 0 {
		limitArg = limit
	}
	if err := r.db.SelectContext(ctx, &rows, query, chatID, limitArg, offset); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить сообщения")
	}
	result := make([]*entity.Message, len(rows))
	for i, row := range rows {
		result[i] = &entity.Message{
			ID:        row.ID,
			ChatID:    row.ChatID,
			SenderID:  row.SenderID,
			Text:      row.Text,
			IsRead:    row.IsRead,
			CreatedAt: row.CreatedAt,
		}
	}
	return result, nil
}

func (r *ChatRepositoryAdapter) MarkRead(ctx context.Context, chatID, userID uuid.UUID) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE chat_participants SET unread_count = 0 WHERE chat_id = $1 AND user_id = $2`, chatID, userID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperror.ErrChatNotFound
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE messages SET is_read = TRUE WHERE chat_id = $1 AND sender_id <> $2 AND NOT is_read`, chatID, userID)
		return err
	})
	return txError(err, "не удалось отметить сообщения прочитанными")
}

type chatRow struct {
	ID            uuid.UUID     `db:"id"`
	RequestID     uuid.UUID     `db:"request_id"`
	RequestTitle  string        `db:"request_title"`
	LastMessage   string        `db:"last_message"`
	LastMessageAt sql.NullTime  `db:"last_message_at"`
	LastSenderID  uuid.NullUUID `db:"last_sender_id"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

func (c *chatRow) toEntity() *entity.Chat {
	chat := &entity.Chat{
		ID:            c.ID,
		RequestID:     c.RequestID,
		RequestTitle:  c.RequestTitle,
		Participants:  []uuid.UUID{},
		Unread:        map[uuid.UUID]int{},
		LastMessage:   c.LastMessage,
		LastMessageAt: nullTimePtr(c.LastMessageAt),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.LastSenderID.Valid {
		id := c.LastSenderID.UUID
		chat.LastSenderID = &id
	}
	return chat
}
