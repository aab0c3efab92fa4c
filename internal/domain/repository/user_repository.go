package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*entity.User, error)
}

type SkillRepository interface {
	Add(ctx context.Context, skill *entity.Skill) error
	Remove(ctx context.Context, userID uuid.UUID, name string) error
	Find(ctx context.Context, userID uuid.UUID, name string) (*entity.Skill, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Skill, error)

	// AddEndorsement добавляет подтверждение с семантикой множества.
	// added=false, если endorser уже подтверждал навык. count - число подтверждений после операции.
	AddEndorsement(ctx context.Context, userID uuid.UUID, skillName string, endorserID uuid.UUID) (count int, added bool, err error)
	RemoveEndorsement(ctx context.Context, userID uuid.UUID, skillName string, endorserID uuid.UUID) (count int, removed bool, err error)
}

type UserBadgeRepository interface {
	// Award возвращает created=false, если значок уже был у пользователя.
	Award(ctx context.Context, userID uuid.UUID, badgeID string) (created bool, err error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.UserBadge, error)
}
