package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/validation"
)

const (
	// DeletedRequestTitle подставляется, если запрос чата уже удалён.
	DeletedRequestTitle = "Запрос удалён"
	// RealtimeMessageEvent - тип события WebSocket для нового сообщения.
	RealtimeMessageEvent = "chat_message"

	defaultMessagesLimit = 50
	maxMessagesLimit     = 200
)

type GetOrCreateChatUseCase struct {
	chatRepo    repository.ChatRepository
	requestRepo repository.RequestRepository
	publisher   repository.EventPublisher
}

func NewGetOrCreateChatUseCase(chatRepo repository.ChatRepository, requestRepo repository.RequestRepository, publisher repository.EventPublisher) *GetOrCreateChatUseCase {
	return &GetOrCreateChatUseCase{chatRepo: chatRepo, requestRepo: requestRepo, publisher: publisher}
}

// Execute возвращает единственный чат для запроса и пары участников. Порядок a и b не важен.
// created=true только у вызова, который действительно создал чат.
func (uc *GetOrCreateChatUseCase) Execute(ctx context.Context, callerID, requestID, a, b uuid.UUID) (*entity.Chat, bool, error) {
	if a == b {
		return nil, false, apperror.New(apperror.ErrCodeValidation, "нельзя создать чат с самим собой")
	}
	if callerID != a && callerID != b {
		return nil, false, apperror.ErrForbidden
	}

	id := entity.ChatKey(requestID, a, b)
	existing, err := uc.chatRepo.FindByID(ctx, id)
	if err == nil {
		return existing, false, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, false, err
	}

	title, err := uc.requestTitle(ctx, requestID, a, b)
	if err != nil {
		return nil, false, err
	}

	chat, err := entity.NewChat(requestID, a, b, title)
	if err != nil {
		return nil, false, err
	}

	created, err := uc.chatRepo.Create(ctx, chat)
	if err != nil {
		return nil, false, err
	}
	if !created {
		// чат успел создать параллельный вызов
		existing, err := uc.chatRepo.FindByID(ctx, id)
		return existing, false, err
	}

	chatID := chat.ID
	for _, participant := range chat.Participants {
		uc.publisher.Notify(ctx, repository.NotifyEvent{
			RecipientID: participant,
			Type:        valueobject.NotificationNewChat,
			Message:     fmt.Sprintf("Начат чат по запросу «%s»", title),
			Refs:        entity.NotificationRefs{ChatID: &chatID, RequestID: &requestID},
		})
	}
	return chat, true, nil
}

// requestTitle также проверяет, что один из участников - автор запроса.
// Для удалённого запроса проверять некого, чат получает заглушку в названии.
func (uc *GetOrCreateChatUseCase) requestTitle(ctx context.Context, requestID, a, b uuid.UUID) (string, error) {
	req, err := uc.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return DeletedRequestTitle, nil
		}
		return "", err
	}
	if req.OwnerID != a && req.OwnerID != b {
		return "", apperror.New(apperror.ErrCodeForbidden, "чат по запросу возможен только с его автором")
	}
	return req.Title, nil
}

type SendMessageUseCase struct {
	chatRepo  repository.ChatRepository
	publisher repository.EventPublisher
	pusher    repository.RealtimePusher
}

func NewSendMessageUseCase(chatRepo repository.ChatRepository, publisher repository.EventPublisher, pusher repository.RealtimePusher) *SendMessageUseCase {
	return &SendMessageUseCase{chatRepo: chatRepo, publisher: publisher, pusher: pusher}
}

// Execute возвращает nil без ошибки, если текст пустой: такое сообщение ничего не меняет.
func (uc *SendMessageUseCase) Execute(ctx context.Context, chatID, senderID uuid.UUID, text string) (*entity.Message, error) {
	msg := entity.NewMessage(chatID, senderID, text)
	if msg == nil {
		return nil, nil
	}
	if err := validation.ValidateMessageContent(msg.Text); err != nil {
		return nil, apperror.Validation(err)
	}

	chat, err := uc.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsParticipant(senderID) {
		return nil, apperror.ErrForbidden
	}

	if err := uc.chatRepo.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}

	requestID := chat.RequestID
	for _, recipient := range chat.Recipients(senderID) {
		uc.publisher.Notify(ctx, repository.NotifyEvent{
			RecipientID: recipient,
			Type:        valueobject.NotificationNewMessage,
			Message:     fmt.Sprintf("Новое сообщение: %s", entity.Preview(msg.Text)),
			Refs:        entity.NotificationRefs{ChatID: &chatID, RequestID: &requestID},
		})
	}
	if uc.pusher != nil {
		for _, participant := range chat.Participants {
			uc.pusher.Push(participant, RealtimeMessageEvent, msg)
		}
	}
	return msg, nil
}

// ChatView - чат глазами конкретного участника.
type ChatView struct {
	Chat   *entity.Chat
	Unread int
}

type ListMyChatsUseCase struct {
	chatRepo repository.ChatRepository
}

func NewListMyChatsUseCase(chatRepo repository.ChatRepository) *ListMyChatsUseCase {
	return &ListMyChatsUseCase{chatRepo: chatRepo}
}

func (uc *ListMyChatsUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]ChatView, error) {
	chats, err := uc.chatRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]ChatView, len(chats))
	for i, c := range chats {
		result[i] = ChatView{Chat: c, Unread: c.Unread[userID]}
	}
	return result, nil
}

type ListMessagesUseCase struct {
	chatRepo repository.ChatRepository
}

func NewListMessagesUseCase(chatRepo repository.ChatRepository) *ListMessagesUseCase {
	return &ListMessagesUseCase{chatRepo: chatRepo}
}

func (uc *ListMessagesUseCase) Execute(ctx context.Context, chatID, userID uuid.UUID, limit, offset int) ([]*entity.Message, error) {
	chat, err := uc.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsParticipant(userID) {
		return nil, apperror.ErrForbidden
	}
	if limit <= 0 {
		limit = defaultMessagesLimit
	}
	if limit > maxMessagesLimit {
		limit = maxMessagesLimit
	}
	if offset < 0 {
		offset = 0
	}
	return uc.chatRepo.ListMessages(ctx, chatID, limit, offset)
}

type MarkChatReadUseCase struct {
	chatRepo repository.ChatRepository
}

func NewMarkChatReadUseCase(chatRepo repository.ChatRepository) *MarkChatReadUseCase {
	return &MarkChatReadUseCase{chatRepo: chatRepo}
}

func (uc *MarkChatReadUseCase) Execute(ctx context.Context, chatID, userID uuid.UUID) error {
	chat, err := uc.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsParticipant(userID) {
		return apperror.ErrForbidden
	}
	return uc.chatRepo.MarkRead(ctx, chatID, userID)
}
