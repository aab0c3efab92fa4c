package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/skillswap-backend/internal/interface/http/dto"
	"github.com/ignatzorin/skillswap-backend/internal/interface/http/response"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/ai"
)

// AIHandler отдаёт подсказки ассистента. При недоступной модели ответ строится локально
// и помечается fallback=true.
type AIHandler struct {
	tagsUC    *ai.SuggestTagsUseCase
	tipsUC    *ai.ClarityTipsUseCase
	qualityUC *ai.QualityScoreUseCase
	enhanceUC *ai.EnhanceDescriptionUseCase
}

func NewAIHandler(
	tagsUC *ai.SuggestTagsUseCase,
	tipsUC *ai.ClarityTipsUseCase,
	qualityUC *ai.QualityScoreUseCase,
	enhanceUC *ai.EnhanceDescriptionUseCase,
) *AIHandler {
	return &AIHandler{tagsUC: tagsUC, tipsUC: tipsUC, qualityUC: qualityUC, enhanceUC: enhanceUC}
}

func bindDraft(c *gin.Context) (dto.AIDraftRequest, bool) {
	var req dto.AIDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректное тело запроса")
		return req, false
	}
	return req, true
}

func (h *AIHandler) SuggestTags(c *gin.Context) {
	req, ok := bindDraft(c)
	if !ok {
		return
	}
	result, err := h.tagsUC.Execute(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.AITagsResponse{Tags: result.Tags, Fallback: result.Fallback})
}

func (h *AIHandler) ClarityTips(c *gin.Context) {
	req, ok := bindDraft(c)
	if !ok {
		return
	}
	result, err := h.tipsUC.Execute(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.AITipsResponse{Tips: result.Tips, Fallback: result.Fallback})
}

func (h *AIHandler) QualityScore(c *gin.Context) {
	req, ok := bindDraft(c)
	if !ok {
		return
	}
	result, err := h.qualityUC.Execute(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.AIQualityResponse{Score: result.Score, Fallback: result.Fallback})
}

func (h *AIHandler) EnhanceDescription(c *gin.Context) {
	req, ok := bindDraft(c)
	if !ok {
		return
	}
	result, err := h.enhanceUC.Execute(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.AIEnhanceResponse{Description: result.Description, Fallback: result.Fallback})
}
