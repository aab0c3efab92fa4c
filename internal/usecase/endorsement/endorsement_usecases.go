package endorsement

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/badge"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/validation"
)

type Result struct {
	Count int
	Added bool
}

type EndorseSkillUseCase struct {
	userRepo  repository.UserRepository
	skillRepo repository.SkillRepository
	publisher repository.EventPublisher
}

func NewEndorseSkillUseCase(userRepo repository.UserRepository, skillRepo repository.SkillRepository, publisher repository.EventPublisher) *EndorseSkillUseCase {
	return &EndorseSkillUseCase{userRepo: userRepo, skillRepo: skillRepo, publisher: publisher}
}

// Execute добавляет подтверждение. Повторное подтверждение тем же пользователем ничего не меняет.
// Проверка значков ставится в очередь ровно в момент, когда число подтверждений становится равным порогу.
func (uc *EndorseSkillUseCase) Execute(ctx context.Context, ownerID, endorserID uuid.UUID, skillName string) (Result, error) {
	if ownerID == endorserID {
		return Result{}, apperror.ErrSelfEndorsement
	}
	if err := validation.ValidateSkillName(skillName); err != nil {
		return Result{}, apperror.Validation(err)
	}
	if _, err := uc.userRepo.FindByID(ctx, ownerID); err != nil {
		return Result{}, err
	}

	count, added, err := uc.skillRepo.AddEndorsement(ctx, ownerID, skillName, endorserID)
	if err != nil {
		return Result{}, err
	}

	if added && count == badge.SkillGuruThreshold {
		uc.publisher.BadgeCheck(ctx, ownerID)
	}
	return Result{Count: count, Added: added}, nil
}

// RevokeEndorsementUseCase снимает подтверждение. Уже выданные значки не отзываются.
type RevokeEndorsementUseCase struct {
	skillRepo repository.SkillRepository
}

func NewRevokeEndorsementUseCase(skillRepo repository.SkillRepository) *RevokeEndorsementUseCase {
	return &RevokeEndorsementUseCase{skillRepo: skillRepo}
}

func (uc *RevokeEndorsementUseCase) Execute(ctx context.Context, ownerID, endorserID uuid.UUID, skillName string) (int, error) {
	count, _, err := uc.skillRepo.RemoveEndorsement(ctx, ownerID, skillName, endorserID)
	return count, err
}
