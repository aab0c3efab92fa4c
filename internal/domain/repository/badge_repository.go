package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/badge"
)

// StatsRepository собирает снимок счётчиков пользователя для проверки значков.
type StatsRepository interface {
	Load(ctx context.Context, userID uuid.UUID) (badge.Stats, error)
}
