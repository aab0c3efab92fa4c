package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/skillswap-backend/internal/interface/http/dto"
	"github.com/ignatzorin/skillswap-backend/internal/interface/http/response"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/badge"
)

type BadgeHandler struct {
	progressUC *badge.ProgressUseCase
	grantUC    *badge.GrantBadgeUseCase
}

func NewBadgeHandler(progressUC *badge.ProgressUseCase, grantUC *badge.GrantBadgeUseCase) *BadgeHandler {
	return &BadgeHandler{progressUC: progressUC, grantUC: grantUC}
}

func (h *BadgeHandler) Catalog(c *gin.Context) {
	response.Success(c, dto.ToBadgeResponses(badge.ListCatalog()))
}

func (h *BadgeHandler) Progress(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}
	userID, ok := parseUUIDParam(c, "id", "некорректный ID пользователя")
	if !ok {
		return
	}

	progress, err := h.progressUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBadgeProgressResponses(progress))
}

// Grant выдаёт значок вручную. Проверка прав выполняется в сценарии.
func (h *BadgeHandler) Grant(c *gin.Context) {
	callerID, ok := requireUserID(c)
	if !ok {
		return
	}
	userID, ok := parseUUIDParam(c, "id", "некорректный ID пользователя")
	if !ok {
		return
	}

	badgeID := c.Param("badgeId")
	awarded, err := h.grantUC.Execute(c.Request.Context(), callerID, userID, badgeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.GrantBadgeResponse{BadgeID: badgeID, Awarded: awarded})
}
