package dto

import (
	"time"

	"github.com/google/uuid"
	badgecatalog "github.com/ignatzorin/skillswap-backend/internal/domain/badge"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/badge"
)

type BadgeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Tier        string `json:"tier"`
	Points      int    `json:"points"`
	Icon        string `json:"icon"`
}

type EarnedBadgeResponse struct {
	BadgeResponse
	AwardedAt time.Time `json:"awarded_at"`
}

type BadgeProgressResponse struct {
	BadgeResponse
	Current int  `json:"current"`
	Target  int  `json:"target"`
	Earned  bool `json:"earned"`
}

type GrantBadgeResponse struct {
	BadgeID string `json:"badge_id"`
	Awarded bool   `json:"awarded"`
}

type LeaderboardEntryResponse struct {
	Rank        int       `json:"rank"`
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url"`
	Karma       int       `json:"karma"`
	JoinedAt    time.Time `json:"joined_at"`
}

type AwardKarmaRequest struct {
	UserID    uuid.UUID `json:"user_id" binding:"required"`
	RequestID uuid.UUID `json:"request_id" binding:"required"`
	Delta     int       `json:"delta" binding:"required"`
}

func ToBadgeResponse(b badgecatalog.Badge) BadgeResponse {
	return BadgeResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Category:    string(b.Category),
		Tier:        string(b.Tier),
		Points:      b.Points,
		Icon:        b.Icon,
	}
}

func ToBadgeResponses(badges []badgecatalog.Badge) []BadgeResponse {
	result := make([]BadgeResponse, len(badges))
	for i, b := range badges {
		result[i] = ToBadgeResponse(b)
	}
	return result
}

func ToEarnedBadgeResponses(badges []badge.EarnedBadge) []EarnedBadgeResponse {
	result := make([]EarnedBadgeResponse, len(badges))
	for i, b := range badges {
		result[i] = EarnedBadgeResponse{BadgeResponse: ToBadgeResponse(b.Badge), AwardedAt: b.AwardedAt}
	}
	return result
}

func ToBadgeProgressResponses(progress []badge.BadgeProgress) []BadgeProgressResponse {
	result := make([]BadgeProgressResponse, len(progress))
	for i, p := range progress {
		result[i] = BadgeProgressResponse{
			BadgeResponse: ToBadgeResponse(p.Badge),
			Current:       p.Current,
			Target:        p.Target,
			Earned:        p.Earned,
		}
	}
	return result
}

func ToLeaderboardResponses(entries []repository.LeaderboardEntry) []LeaderboardEntryResponse {
	result := make([]LeaderboardEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = LeaderboardEntryResponse{
			Rank:        e.Rank,
			UserID:      e.UserID,
			DisplayName: e.DisplayName,
			PhotoURL:    e.PhotoURL,
			Karma:       e.Karma,
			JoinedAt:    e.JoinedAt,
		}
	}
	return result
}
