package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/skillswap-backend/internal/interface/http/response"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/endorsement"
)

type EndorsementHandler struct {
	endorseUC *endorsement.EndorseSkillUseCase
	revokeUC  *endorsement.RevokeEndorsementUseCase
}

func NewEndorsementHandler(endorseUC *endorsement.EndorseSkillUseCase, revokeUC *endorsement.RevokeEndorsementUseCase) *EndorsementHandler {
	return &EndorsementHandler{endorseUC: endorseUC, revokeUC: revokeUC}
}

type endorsementResponse struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
	Added bool   `json:"added"`
}

// Endorse подтверждает навык пользователя :id. Повторное подтверждение ничего не меняет.
func (h *EndorsementHandler) Endorse(c *gin.Context) {
	endorserID, ok := requireUserID(c)
	if !ok {
		return
	}
	ownerID, ok := parseUUIDParam(c, "id", "некорректный ID пользователя")
	if !ok {
		return
	}

	skill := c.Param("name")
	result, err := h.endorseUC.Execute(c.Request.Context(), ownerID, endorserID, skill)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, endorsementResponse{Skill: skill, Count: result.Count, Added: result.Added})
}

func (h *EndorsementHandler) Revoke(c *gin.Context) {
	endorserID, ok := requireUserID(c)
	if !ok {
		return
	}
	ownerID, ok := parseUUIDParam(c, "id", "некорректный ID пользователя")
	if !ok {
		return
	}

	skill := c.Param("name")
	count, err := h.revokeUC.Execute(c.Request.Context(), ownerID, endorserID, skill)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, endorsementResponse{Skill: skill, Count: count})
}
