package profile

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/logger"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/badge"
	"github.com/ignatzorin/skillswap-backend/internal/validation"
	"github.com/sirupsen/logrus"
)

// EnsureProfileUseCase создаёт профиль при первом входе и обновляет имя и фото при последующих.
type EnsureProfileUseCase struct {
	userRepo repository.UserRepository
}

func NewEnsureProfileUseCase(userRepo repository.UserRepository) *EnsureProfileUseCase {
	return &EnsureProfileUseCase{userRepo: userRepo}
}

func (uc *EnsureProfileUseCase) Execute(ctx context.Context, identity entity.Identity) (*entity.User, error) {
	existing, err := uc.userRepo.FindByExternalID(ctx, identity.ExternalID)
	if err == nil {
		if existing.RefreshFromIdentity(identity) {
			if err := uc.userRepo.Update(ctx, existing); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	user, err := entity.NewUser(identity)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		// параллельный первый вход: профиль уже создан другим запросом
		if apperror.IsConflict(err) {
			return uc.userRepo.FindByExternalID(ctx, identity.ExternalID)
		}
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{
		"user_id":     user.ID,
		"external_id": user.ExternalID,
	}).Info("Создан новый профиль")
	return user, nil
}

type Profile struct {
	User   *entity.User
	Skills []*entity.Skill
	Badges []badge.EarnedBadge
}

type GetProfileUseCase struct {
	userRepo   repository.UserRepository
	skillRepo  repository.SkillRepository
	listBadges *badge.ListUserBadgesUseCase
}

func NewGetProfileUseCase(userRepo repository.UserRepository, skillRepo repository.SkillRepository, listBadges *badge.ListUserBadgesUseCase) *GetProfileUseCase {
	return &GetProfileUseCase{userRepo: userRepo, skillRepo: skillRepo, listBadges: listBadges}
}

// Execute возвращает профиль. Закрытый профиль видит только владелец.
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID, viewerID uuid.UUID) (*Profile, error) {
	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Preferences.ProfilePublic && user.ID != viewerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "профиль скрыт владельцем")
	}
	skills, err := uc.skillRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	badges, err := uc.listBadges.Execute(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Skills: skills, Badges: badges}, nil
}

// UpdateProfileInput - nil означает "не менять".
type UpdateProfileInput struct {
	DisplayName *string
	Bio         *string
	Links       *[]entity.Link
	Preferences *entity.Preferences
}

type UpdateProfileUseCase struct {
	userRepo repository.UserRepository
}

func NewUpdateProfileUseCase(userRepo repository.UserRepository) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userRepo: userRepo}
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		if err := validation.ValidateDisplayName(*in.DisplayName); err != nil {
			return nil, apperror.Validation(err)
		}
		user.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.Bio != nil {
		if err := validation.ValidateBio(*in.Bio); err != nil {
			return nil, apperror.Validation(err)
		}
		user.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Links != nil {
		links, err := normalizeLinks(*in.Links)
		if err != nil {
			return nil, err
		}
		user.Links = links
	}
	if in.Preferences != nil {
		user.Preferences = *in.Preferences
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return uc.userRepo.FindByID(ctx, userID)
}

func normalizeLinks(links []entity.Link) ([]entity.Link, error) {
	if len(links) > validation.MaxLinksCount {
		return nil, apperror.New(apperror.ErrCodeValidation, "слишком много ссылок")
	}
	result := make([]entity.Link, 0, len(links))
	for _, l := range links {
		if err := validation.ValidateExternalLink(l.URL); err != nil {
			return nil, apperror.Validation(err)
		}
		title := strings.TrimSpace(l.Title)
		if err := validation.ValidateLength("название ссылки", title, 0, validation.MaxLinkTitleLength); err != nil {
			return nil, apperror.Validation(err)
		}
		result = append(result, entity.Link{
			Type:  strings.ToLower(strings.TrimSpace(l.Type)),
			URL:   strings.TrimSpace(l.URL),
			Title: title,
		})
	}
	return result, nil
}

type AddSkillInput struct {
	Name        string
	Category    string
	Proficiency string
}

type AddSkillUseCase struct {
	skillRepo repository.SkillRepository
}

func NewAddSkillUseCase(skillRepo repository.SkillRepository) *AddSkillUseCase {
	return &AddSkillUseCase{skillRepo: skillRepo}
}

func (uc *AddSkillUseCase) Execute(ctx context.Context, userID uuid.UUID, in AddSkillInput) (*entity.Skill, error) {
	if err := validation.ValidateSkillName(in.Name); err != nil {
		return nil, apperror.Validation(err)
	}
	category, err := valueobject.NewSkillCategory(in.Category)
	if err != nil {
		return nil, err
	}
	proficiency, err := valueobject.NewProficiency(in.Proficiency)
	if err != nil {
		return nil, err
	}
	skill, err := entity.NewSkill(userID, in.Name, category, proficiency)
	if err != nil {
		return nil, err
	}
	if err := uc.skillRepo.Add(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

type RemoveSkillUseCase struct {
	skillRepo repository.SkillRepository
}

func NewRemoveSkillUseCase(skillRepo repository.SkillRepository) *RemoveSkillUseCase {
	return &RemoveSkillUseCase{skillRepo: skillRepo}
}

func (uc *RemoveSkillUseCase) Execute(ctx context.Context, userID uuid.UUID, name string) error {
	return uc.skillRepo.Remove(ctx, userID, strings.TrimSpace(name))
}
