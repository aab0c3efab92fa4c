package dto

import "github.com/ignatzorin/skillswap-backend/internal/domain/entity"

// AIDraftRequest - черновик запроса, который анализирует ассистент.
type AIDraftRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type AITagsResponse struct {
	Tags     []string `json:"tags"`
	Fallback bool     `json:"fallback"`
}

type AITipsResponse struct {
	Tips     string `json:"tips"`
	Fallback bool   `json:"fallback"`
}

type AIQualityResponse struct {
	Score    entity.QualityScore `json:"score"`
	Fallback bool                `json:"fallback"`
}

type AIEnhanceResponse struct {
	Description string `json:"description"`
	Fallback    bool   `json:"fallback"`
}
