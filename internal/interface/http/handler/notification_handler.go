package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/skillswap-backend/internal/interface/http/dto"
	"github.com/ignatzorin/skillswap-backend/internal/interface/http/response"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/notification"
)

const defaultNotificationsLimit = 20

type NotificationHandler struct {
	listUC        *notification.ListUseCase
	countUnreadUC *notification.CountUnreadUseCase
	markReadUC    *notification.MarkAsReadUseCase
	markAllReadUC *notification.MarkAllAsReadUseCase
	deleteUC      *notification.DeleteUseCase
}

func NewNotificationHandler(
	listUC *notification.ListUseCase,
	countUnreadUC *notification.CountUnreadUseCase,
	markReadUC *notification.MarkAsReadUseCase,
	markAllReadUC *notification.MarkAllAsReadUseCase,
	deleteUC *notification.DeleteUseCase,
) *NotificationHandler {
	return &NotificationHandler{
		listUC:        listUC,
		countUnreadUC: countUnreadUC,
		markReadUC:    markReadUC,
		markAllReadUC: markAllReadUC,
		deleteUC:      deleteUC,
	}
}

// List: ?unread=true оставляет только непрочитанные.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit := parseIntQuery(c, "limit", defaultNotificationsLimit)
	offset := parseIntQuery(c, "offset", 0)

	result, err := h.listUC.Execute(c.Request.Context(), userID, parseBoolQuery(c, "unread"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToNotificationResponses(result.Items), result.Total, result.Limit, result.Offset)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	count, err := h.countUnreadUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.UnreadCountResponse{Count: count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id", "некорректный ID уведомления")
	if !ok {
		return
	}

	if err := h.markReadUC.Execute(c.Request.Context(), id, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "уведомление прочитано"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	updated, err := h.markAllReadUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.MarkAllReadResponse{Updated: updated})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id", "некорректный ID уведомления")
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), id, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "уведомление удалено"})
}
