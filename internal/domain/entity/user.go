package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

type User struct {
	ID          uuid.UUID
	ExternalID  string
	Email       string
	DisplayName string
	PhotoURL    string
	Bio         string
	Karma       int
	BestRank    *int
	Links       []Link
	Preferences Preferences
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Link struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

type Preferences struct {
	NotifyEmail   bool
	ProfilePublic bool
}

// Identity - данные, которые отдаёт внешний провайдер аутентификации.
type Identity struct {
	ExternalID  string
	Email       string
	DisplayName string
	PhotoURL    string
}

func NewUser(identity Identity) (*User, error) {
	if strings.TrimSpace(identity.ExternalID) == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "внешний идентификатор обязателен")
	}
	name := strings.TrimSpace(identity.DisplayName)
	if name == "" {
		name = displayNameFromEmail(identity.Email)
	}
	now := time.Now()
	return &User{
		ID:          uuid.New(),
		ExternalID:  identity.ExternalID,
		Email:       strings.ToLower(strings.TrimSpace(identity.Email)),
		DisplayName: name,
		PhotoURL:    identity.PhotoURL,
		Links:       []Link{},
		Preferences: Preferences{NotifyEmail: true, ProfilePublic: true},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// RefreshFromIdentity обновляет имя и фото после повторного входа. Возвращает true, если что-то изменилось.
func (u *User) RefreshFromIdentity(identity Identity) bool {
	changed := false
	if name := strings.TrimSpace(identity.DisplayName); name != "" && name != u.DisplayName {
		u.DisplayName = name
		changed = true
	}
	if identity.PhotoURL != "" && identity.PhotoURL != u.PhotoURL {
		u.PhotoURL = identity.PhotoURL
		changed = true
	}
	if changed {
		u.UpdatedAt = time.Now()
	}
	return changed
}

func displayNameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "Участник"
}

type Skill struct {
	UserID       uuid.UUID
	Name         string
	Category     valueobject.SkillCategory
	Proficiency  valueobject.Proficiency
	Endorsements []uuid.UUID
	CreatedAt    time.Time
}

func NewSkill(userID uuid.UUID, name string, category valueobject.SkillCategory, proficiency valueobject.Proficiency) (*Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название навыка обязательно")
	}
	return &Skill{
		UserID:       userID,
		Name:         name,
		Category:     category,
		Proficiency:  proficiency,
		Endorsements: []uuid.UUID{},
		CreatedAt:    time.Now(),
	}, nil
}

func (s *Skill) IsEndorsedBy(userID uuid.UUID) bool {
	for _, id := range s.Endorsements {
		if id == userID {
			return true
		}
	}
	return false
}

func (s *Skill) EndorsementCount() int {
	return len(s.Endorsements)
}

// UserBadge - значок из каталога, выданный пользователю.
type UserBadge struct {
	UserID    uuid.UUID
	BadgeID   string
	AwardedAt time.Time
}
