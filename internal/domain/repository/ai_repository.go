package repository

import (
	"context"

	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
)

// AIService - подсказки по тексту запроса от языковой модели.
type AIService interface {
	SuggestTags(ctx context.Context, title, description string) ([]string, error)
	ClarityTips(ctx context.Context, title, description string) (string, error)
	QualityScore(ctx context.Context, title, description string) (entity.QualityScore, error)
	EnhanceDescription(ctx context.Context, title, description string) (string, error)
}
