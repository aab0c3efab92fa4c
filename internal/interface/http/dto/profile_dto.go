package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/profile"
)

type UpdateProfileRequest struct {
	DisplayName *string           `json:"display_name"`
	Bio         *string           `json:"bio"`
	Links       *[]entity.Link    `json:"links"`
	Preferences *PreferencesInput `json:"preferences"`
}

type PreferencesInput struct {
	NotifyEmail   bool `json:"notify_email"`
	ProfilePublic bool `json:"profile_public"`
}

func (r UpdateProfileRequest) ToInput() profile.UpdateProfileInput {
	in := profile.UpdateProfileInput{
		DisplayName: r.DisplayName,
		Bio:         r.Bio,
		Links:       r.Links,
	}
	if r.Preferences != nil {
		in.Preferences = &entity.Preferences{
			NotifyEmail:   r.Preferences.NotifyEmail,
			ProfilePublic: r.Preferences.ProfilePublic,
		}
	}
	return in
}

type AddSkillRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category"`
	Proficiency string `json:"proficiency"`
}

type UserResponse struct {
	ID          uuid.UUID        `json:"id"`
	Email       string           `json:"email,omitempty"`
	DisplayName string           `json:"display_name"`
	PhotoURL    string           `json:"photo_url"`
	Bio         string           `json:"bio"`
	Karma       int              `json:"karma"`
	BestRank    *int             `json:"best_rank,omitempty"`
	Links       []entity.Link    `json:"links"`
	Preferences PreferencesInput `json:"preferences"`
	CreatedAt   time.Time        `json:"created_at"`
}

type SkillResponse struct {
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	Proficiency  string      `json:"proficiency"`
	Endorsements []uuid.UUID `json:"endorsements"`
	Count        int         `json:"endorsement_count"`
}

type ProfileResponse struct {
	User         UserResponse          `json:"user"`
	Skills       []SkillResponse       `json:"skills"`
	Badges       []EarnedBadgeResponse `json:"badges"`
	Testimonials []TestimonialResponse `json:"testimonials,omitempty"`
}

// ToUserResponse скрывает email от всех, кроме владельца.
func ToUserResponse(u *entity.User, viewerID uuid.UUID) UserResponse {
	links := u.Links
	if links == nil {
		links = []entity.Link{}
	}
	resp := UserResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Bio:         u.Bio,
		Karma:       u.Karma,
		BestRank:    u.BestRank,
		Links:       links,
		Preferences: PreferencesInput{
			NotifyEmail:   u.Preferences.NotifyEmail,
			ProfilePublic: u.Preferences.ProfilePublic,
		},
		CreatedAt: u.CreatedAt,
	}
	if u.ID == viewerID {
		resp.Email = u.Email
	}
	return resp
}

func ToSkillResponse(s *entity.Skill) SkillResponse {
	endorsements := s.Endorsements
	if endorsements == nil {
		endorsements = []uuid.UUID{}
	}
	return SkillResponse{
		Name:         s.Name,
		Category:     string(s.Category),
		Proficiency:  string(s.Proficiency),
		Endorsements: endorsements,
		Count:        len(endorsements),
	}
}

func ToProfileResponse(p *profile.Profile, viewerID uuid.UUID) ProfileResponse {
	skills := make([]SkillResponse, len(p.Skills))
	for i, s := range p.Skills {
		skills[i] = ToSkillResponse(s)
	}
	return ProfileResponse{
		User:   ToUserResponse(p.User, viewerID),
		Skills: skills,
		Badges: ToEarnedBadgeResponses(p.Badges),
	}
}
