package badge

import (
	"context"
	"time"

	"github.com/google/uuid"
	badgecatalog "github.com/ignatzorin/skillswap-backend/internal/domain/badge"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/logger"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// CheckAndAwardAllUseCase проходит по всему каталогу и выдаёт значки, правила которых выполнены.
type CheckAndAwardAllUseCase struct {
	badgeRepo repository.UserBadgeRepository
	log       *logrus.Entry
}

func NewCheckAndAwardAllUseCase(badgeRepo repository.UserBadgeRepository) *CheckAndAwardAllUseCase {
	return &CheckAndAwardAllUseCase{badgeRepo: badgeRepo, log: logger.Component("badges")}
}

// Execute возвращает только впервые выданные значки. Ошибка записи одного значка
// логируется и не прерывает проверку остальных.
func (uc *CheckAndAwardAllUseCase) Execute(ctx context.Context, userID uuid.UUID, stats badgecatalog.Stats) []string {
	awarded := make([]string, 0)
	for _, b := range badgecatalog.Catalog() {
		if !badgecatalog.CheckEligibility(stats, b.ID) {
			continue
		}

		created, err := uc.badgeRepo.Award(ctx, userID, b.ID)
		if err != nil {
			uc.log.WithError(err).WithFields(logrus.Fields{
				"user_id":  userID,
				"badge_id": b.ID,
			}).Error("не удалось выдать значок")
			continue
		}

		stats = stats.WithEarned(b.ID)
		if created {
			awarded = append(awarded, b.ID)
		}
	}

	if len(awarded) > 0 {
		uc.log.WithFields(logrus.Fields{"user_id": userID, "badges": awarded}).Info("выданы новые значки")
	}
	return awarded
}

// EvaluateUserUseCase загружает статистику пользователя и запускает выдачу значков.
type EvaluateUserUseCase struct {
	statsRepo repository.StatsRepository
	awarder   *CheckAndAwardAllUseCase
}

func NewEvaluateUserUseCase(statsRepo repository.StatsRepository, awarder *CheckAndAwardAllUseCase) *EvaluateUserUseCase {
	return &EvaluateUserUseCase{statsRepo: statsRepo, awarder: awarder}
}

func (uc *EvaluateUserUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]string, error) {
	stats, err := uc.statsRepo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.awarder.Execute(ctx, userID, stats), nil
}

// GrantBadgeUseCase - ручная выдача значка администратором.
type GrantBadgeUseCase struct {
	badgeRepo repository.UserBadgeRepository
	userRepo  repository.UserRepository
	admins    map[uuid.UUID]struct{}
}

func NewGrantBadgeUseCase(badgeRepo repository.UserBadgeRepository, userRepo repository.UserRepository, adminIDs []uuid.UUID) *GrantBadgeUseCase {
	admins := make(map[uuid.UUID]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &GrantBadgeUseCase{badgeRepo: badgeRepo, userRepo: userRepo, admins: admins}
}

func (uc *GrantBadgeUseCase) IsAdmin(userID uuid.UUID) bool {
	_, ok := uc.admins[userID]
	return ok
}

func (uc *GrantBadgeUseCase) Execute(ctx context.Context, callerID, userID uuid.UUID, badgeID string) (bool, error) {
	if !uc.IsAdmin(callerID) {
		return false, apperror.ErrForbidden
	}
	if _, ok := badgecatalog.Lookup(badgeID); !ok {
		return false, apperror.ErrBadgeNotFound
	}
	if _, err := uc.userRepo.FindByID(ctx, userID); err != nil {
		return false, err
	}
	return uc.badgeRepo.Award(ctx, userID, badgeID)
}

// EarnedBadge - значок каталога вместе с датой получения.
type EarnedBadge struct {
	Badge     badgecatalog.Badge
	AwardedAt time.Time
}

type ListUserBadgesUseCase struct {
	badgeRepo repository.UserBadgeRepository
}

func NewListUserBadgesUseCase(badgeRepo repository.UserBadgeRepository) *ListUserBadgesUseCase {
	return &ListUserBadgesUseCase{badgeRepo: badgeRepo}
}

func (uc *ListUserBadgesUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]EarnedBadge, error) {
	owned, err := uc.badgeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]EarnedBadge, 0, len(owned))
	for _, ub := range owned {
		b, ok := badgecatalog.Lookup(ub.BadgeID)
		if !ok {
			// значок убран из каталога
			continue
		}
		result = append(result, EarnedBadge{Badge: b, AwardedAt: ub.AwardedAt})
	}
	return result, nil
}

// ListCatalog возвращает весь каталог значков.
func ListCatalog() []badgecatalog.Badge {
	return badgecatalog.Catalog()
}

type BadgeProgress struct {
	Badge   badgecatalog.Badge
	Current int
	Target  int
	Earned  bool
}

type ProgressUseCase struct {
	statsRepo repository.StatsRepository
}

func NewProgressUseCase(statsRepo repository.StatsRepository) *ProgressUseCase {
	return &ProgressUseCase{statsRepo: statsRepo}
}

func (uc *ProgressUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]BadgeProgress, error) {
	stats, err := uc.statsRepo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	catalog := badgecatalog.Catalog()
	result := make([]BadgeProgress, 0, len(catalog))
	for _, b := range catalog {
		current, target := b.Rule.Progress(stats)
		result = append(result, BadgeProgress{
			Badge:   b,
			Current: current,
			Target:  target,
			Earned:  stats.Has(b.ID),
		})
	}
	return result, nil
}
