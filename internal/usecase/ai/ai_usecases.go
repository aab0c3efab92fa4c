package ai

import (
	"context"
	"strings"

	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/logger"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/validation"
)

// Все подсказки работают и без модели: при отсутствии конфигурации или ошибке
// возвращается локальный вариант с Fallback=true. Ошибка модели наружу не выходит.

type TagsResult struct {
	Tags     []string
	Fallback bool
}

type TipsResult struct {
	Tips     string
	Fallback bool
}

type QualityResult struct {
	Score    entity.QualityScore
	Fallback bool
}

type EnhanceResult struct {
	Description string
	Fallback    bool
}

func validateInput(title, description string) error {
	if err := validation.ValidateNonEmpty("заголовок", title); err != nil {
		return apperror.Validation(err)
	}
	if err := validation.ValidateLength("текст запроса", title+description, 0, validation.MaxAIInputLength); err != nil {
		return apperror.Validation(err)
	}
	return nil
}

func logFallback(op string, err error) {
	logger.Component("ai").WithError(err).WithField("op", op).Warn("Модель недоступна, используем локальную подсказку")
}

type SuggestTagsUseCase struct {
	aiService repository.AIService
}

func NewSuggestTagsUseCase(aiService repository.AIService) *SuggestTagsUseCase {
	return &SuggestTagsUseCase{aiService: aiService}
}

func (uc *SuggestTagsUseCase) Execute(ctx context.Context, title, description string) (TagsResult, error) {
	if err := validateInput(title, description); err != nil {
		return TagsResult{}, err
	}
	if uc.aiService != nil {
		raw, err := uc.aiService.SuggestTags(ctx, title, description)
		if err == nil {
			if tags := cleanTags(raw); len(tags) > 0 {
				return TagsResult{Tags: tags}, nil
			}
			err = apperror.New(apperror.ErrCodeUnavailable, "модель не вернула тегов")
		}
		logFallback("suggest_tags", err)
	}
	return TagsResult{Tags: fallbackTags(title, description), Fallback: true}, nil
}

// cleanTags нормализует теги модели по тем же правилам, что и теги запроса.
func cleanTags(raw []string) []string {
	result := make([]string, 0, maxSuggestedTags)
	seen := make(map[string]bool)
	for _, t := range raw {
		normalized, err := validation.NormalizeTags([]string{t})
		if err != nil || len(normalized) == 0 || seen[normalized[0]] {
			continue
		}
		seen[normalized[0]] = true
		result = append(result, normalized[0])
		if len(result) == maxSuggestedTags {
			break
		}
	}
	return result
}

type ClarityTipsUseCase struct {
	aiService repository.AIService
}

func NewClarityTipsUseCase(aiService repository.AIService) *ClarityTipsUseCase {
	return &ClarityTipsUseCase{aiService: aiService}
}

func (uc *ClarityTipsUseCase) Execute(ctx context.Context, title, description string) (TipsResult, error) {
	if err := validateInput(title, description); err != nil {
		return TipsResult{}, err
	}
	if uc.aiService != nil {
		tips, err := uc.aiService.ClarityTips(ctx, title, description)
		if err == nil && strings.TrimSpace(tips) != "" {
			return TipsResult{Tips: strings.TrimSpace(tips)}, nil
		}
		logFallback("clarity_tips", err)
	}
	return TipsResult{Tips: fallbackTips(title, description), Fallback: true}, nil
}

type QualityScoreUseCase struct {
	aiService repository.AIService
}

func NewQualityScoreUseCase(aiService repository.AIService) *QualityScoreUseCase {
	return &QualityScoreUseCase{aiService: aiService}
}

func (uc *QualityScoreUseCase) Execute(ctx context.Context, title, description string) (QualityResult, error) {
	if err := validateInput(title, description); err != nil {
		return QualityResult{}, err
	}
	if uc.aiService != nil {
		score, err := uc.aiService.QualityScore(ctx, title, description)
		if err == nil {
			return QualityResult{Score: score.Clamp()}, nil
		}
		logFallback("quality_score", err)
	}
	return QualityResult{Score: fallbackQuality(title, description), Fallback: true}, nil
}

type EnhanceDescriptionUseCase struct {
	aiService repository.AIService
}

func NewEnhanceDescriptionUseCase(aiService repository.AIService) *EnhanceDescriptionUseCase {
	return &EnhanceDescriptionUseCase{aiService: aiService}
}

func (uc *EnhanceDescriptionUseCase) Execute(ctx context.Context, title, description string) (EnhanceResult, error) {
	if err := validateInput(title, description); err != nil {
		return EnhanceResult{}, err
	}
	if uc.aiService != nil {
		text, err := uc.aiService.EnhanceDescription(ctx, title, description)
		if err == nil && strings.TrimSpace(text) != "" {
			return EnhanceResult{Description: strings.TrimSpace(text)}, nil
		}
		logFallback("enhance_description", err)
	}
	return EnhanceResult{Description: fallbackEnhance(title, description), Fallback: true}, nil
}
