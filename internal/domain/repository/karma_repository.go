package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type LeaderboardEntry struct {
	Rank        int
	UserID      uuid.UUID
	DisplayName string
	PhotoURL    string
	Karma       int
	JoinedAt    time.Time
}

type KarmaRepository interface {
	// Award пишет строку журнала и атомарно увеличивает карму в одной транзакции.
	// Повторное начисление за тот же запрос возвращает apperror.ErrKarmaAlreadyAwarded.
	Award(ctx context.Context, userID, requestID uuid.UUID, delta int) error
	GetKarma(ctx context.Context, userID uuid.UUID) (int, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	// UpdateBestRanks фиксирует лучшее место для первых limit пользователей
	// и возвращает тех, у кого оно улучшилось.
	UpdateBestRanks(ctx context.Context, limit int) ([]uuid.UUID, error)
}
