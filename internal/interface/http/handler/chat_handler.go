package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/skillswap-backend/internal/interface/http/dto"
	"github.com/ignatzorin/skillswap-backend/internal/interface/http/response"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/chat"
)

type ChatHandler struct {
	getOrCreateUC  *chat.GetOrCreateChatUseCase
	listMyUC       *chat.ListMyChatsUseCase
	sendMessageUC  *chat.SendMessageUseCase
	listMessagesUC *chat.ListMessagesUseCase
	markReadUC     *chat.MarkChatReadUseCase
}

func NewChatHandler(
	getOrCreateUC *chat.GetOrCreateChatUseCase,
	listMyUC *chat.ListMyChatsUseCase,
	sendMessageUC *chat.SendMessageUseCase,
	listMessagesUC *chat.ListMessagesUseCase,
	markReadUC *chat.MarkChatReadUseCase,
) *ChatHandler {
	return &ChatHandler{
		getOrCreateUC:  getOrCreateUC,
		listMyUC:       listMyUC,
		sendMessageUC:  sendMessageUC,
		listMessagesUC: listMessagesUC,
		markReadUC:     markReadUC,
	}
}

// GetOrCreate возвращает 201, если чат создан этим вызовом, и 200, если он уже был.
func (h *ChatHandler) GetOrCreate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.GetOrCreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "request_id и participant_id обязательны")
		return
	}

	ch, created, err := h.getOrCreateUC.Execute(c.Request.Context(), userID, req.RequestID, userID, req.ParticipantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.GetOrCreateChatResponse{Chat: dto.ToChatResponse(ch, userID), Created: created}
	if created {
		response.Created(c, resp)
		return
	}
	response.Success(c, resp)
}

func (h *ChatHandler) ListMyChats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	views, err := h.listMyUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToChatViewResponses(views))
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	chatID, ok := parseUUIDParam(c, "id", "некорректный ID чата")
	if !ok {
		return
	}

	limit := parseIntQuery(c, "limit", 0)
	offset := parseIntQuery(c, "offset", 0)

	messages, err := h.listMessagesUC.Execute(c.Request.Context(), chatID, userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToMessageResponses(messages))
}

// SendMessage: пустой текст молча игнорируется, ответ без data.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	chatID, ok := parseUUIDParam(c, "id", "некорректный ID чата")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректное тело запроса")
		return
	}

	msg, err := h.sendMessageUC.Execute(c.Request.Context(), chatID, userID, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	if msg == nil {
		response.Success(c, nil)
		return
	}

	response.Created(c, dto.ToMessageResponse(msg))
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	chatID, ok := parseUUIDParam(c, "id", "некорректный ID чата")
	if !ok {
		return
	}

	if err := h.markReadUC.Execute(c.Request.Context(), chatID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "сообщения прочитаны"})
}
