package karma

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/logger"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

const (
	DefaultLeaderboardLimit = 20
	MaxLeaderboardLimit     = 100
	// SnapshotDepth - сколько верхних мест рейтинга фиксируется в best_rank.
	SnapshotDepth = 100
)

// ValidateDelta запрещает отрицательные и нулевые начисления, поэтому карма только растёт.
func ValidateDelta(delta int) error {
	if delta <= 0 {
		return apperror.New(apperror.ErrCodeValidation, "начисление кармы должно быть положительным")
	}
	return nil
}

// AwardUseCase - начисление кармы через журнал, идемпотентное по паре (запрос, пользователь).
type AwardUseCase struct {
	karmaRepo repository.KarmaRepository
	publisher repository.EventPublisher
}

func NewAwardUseCase(karmaRepo repository.KarmaRepository, publisher repository.EventPublisher) *AwardUseCase {
	return &AwardUseCase{karmaRepo: karmaRepo, publisher: publisher}
}

func (uc *AwardUseCase) Execute(ctx context.Context, userID, requestID uuid.UUID, delta int) error {
	if err := ValidateDelta(delta); err != nil {
		return err
	}
	if err := uc.karmaRepo.Award(ctx, userID, requestID, delta); err != nil {
		return err
	}
	uc.publisher.BadgeCheck(ctx, userID)
	return nil
}

type GetKarmaUseCase struct {
	karmaRepo repository.KarmaRepository
}

func NewGetKarmaUseCase(karmaRepo repository.KarmaRepository) *GetKarmaUseCase {
	return &GetKarmaUseCase{karmaRepo: karmaRepo}
}

func (uc *GetKarmaUseCase) Execute(ctx context.Context, userID uuid.UUID) (int, error) {
	return uc.karmaRepo.GetKarma(ctx, userID)
}

type LeaderboardUseCase struct {
	karmaRepo repository.KarmaRepository
}

func NewLeaderboardUseCase(karmaRepo repository.KarmaRepository) *LeaderboardUseCase {
	return &LeaderboardUseCase{karmaRepo: karmaRepo}
}

func (uc *LeaderboardUseCase) Execute(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}
	return uc.karmaRepo.Leaderboard(ctx, limit)
}

// SnapshotRanksUseCase фиксирует лучшее место в рейтинге и ставит проверку значков тем, у кого оно улучшилось.
type SnapshotRanksUseCase struct {
	karmaRepo repository.KarmaRepository
	publisher repository.EventPublisher
}

func NewSnapshotRanksUseCase(karmaRepo repository.KarmaRepository, publisher repository.EventPublisher) *SnapshotRanksUseCase {
	return &SnapshotRanksUseCase{karmaRepo: karmaRepo, publisher: publisher}
}

func (uc *SnapshotRanksUseCase) Execute(ctx context.Context) (int, error) {
	improved, err := uc.karmaRepo.UpdateBestRanks(ctx, SnapshotDepth)
	if err != nil {
		return 0, err
	}
	for _, userID := range improved {
		uc.publisher.BadgeCheck(ctx, userID)
	}
	if len(improved) > 0 {
		logger.Component("karma").WithField("improved", len(improved)).Info("обновлены лучшие места в рейтинге")
	}
	return len(improved), nil
}
