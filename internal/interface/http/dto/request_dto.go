package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/request"
)

type CreateRequestRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	OfferInReturn string   `json:"offer_in_return"`
	Tags          []string `json:"tags"`
	Urgency       string   `json:"urgency"`
	EstimatedTime string   `json:"estimated_time"`
}

func (r CreateRequestRequest) ToInput(ownerID uuid.UUID) request.CreateRequestInput {
	return request.CreateRequestInput{
		OwnerID:       ownerID,
		Title:         r.Title,
		Description:   r.Description,
		OfferInReturn: r.OfferInReturn,
		Tags:          r.Tags,
		Urgency:       r.Urgency,
		EstimatedTime: r.EstimatedTime,
	}
}

type SubmitOfferRequest struct {
	Message string `json:"message" binding:"required"`
}

type RequestResponse struct {
	ID               uuid.UUID  `json:"id"`
	OwnerID          uuid.UUID  `json:"owner_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	OfferInReturn    string     `json:"offer_in_return"`
	Tags             []string   `json:"tags"`
	Urgency          string     `json:"urgency"`
	EstimatedTime    string     `json:"estimated_time"`
	Status           string     `json:"status"`
	AcceptedHelperID *uuid.UUID `json:"accepted_helper_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

type OfferResponse struct {
	ID          uuid.UUID  `json:"id"`
	RequestID   uuid.UUID  `json:"request_id"`
	HelperID    uuid.UUID  `json:"helper_id"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type ContributionResponse struct {
	Offer   OfferResponse    `json:"offer"`
	Request *RequestResponse `json:"request,omitempty"`
}

type AwardKarmaResponse struct {
	RequestID uuid.UUID `json:"request_id"`
	HelperID  uuid.UUID `json:"helper_id"`
	Delta     int       `json:"delta"`
}

func ToRequestResponse(r *entity.Request) RequestResponse {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return RequestResponse{
		ID:               r.ID,
		OwnerID:          r.OwnerID,
		Title:            r.Title,
		Description:      r.Description,
		OfferInReturn:    r.OfferInReturn,
		Tags:             tags,
		Urgency:          string(r.Urgency),
		EstimatedTime:    r.EstimatedTime,
		Status:           string(r.Status),
		AcceptedHelperID: r.AcceptedHelperID,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		CompletedAt:      r.CompletedAt,
	}
}

func ToRequestResponses(requests []*entity.Request) []RequestResponse {
	result := make([]RequestResponse, len(requests))
	for i, r := range requests {
		result[i] = ToRequestResponse(r)
	}
	return result
}

func ToOfferResponse(o *entity.Offer) OfferResponse {
	return OfferResponse{
		ID:          o.ID,
		RequestID:   o.RequestID,
		HelperID:    o.HelperID,
		Message:     o.Message,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		AcceptedAt:  o.AcceptedAt,
		RejectedAt:  o.RejectedAt,
		CompletedAt: o.CompletedAt,
	}
}

func ToOfferResponses(offers []*entity.Offer) []OfferResponse {
	result := make([]OfferResponse, len(offers))
	for i, o := range offers {
		result[i] = ToOfferResponse(o)
	}
	return result
}

func ToContributionResponses(items []repository.Contribution) []ContributionResponse {
	result := make([]ContributionResponse, len(items))
	for i, item := range items {
		result[i] = ContributionResponse{Offer: ToOfferResponse(item.Offer)}
		if item.Request != nil {
			r := ToRequestResponse(item.Request)
			result[i].Request = &r
		}
	}
	return result
}

func ToAwardKarmaResponse(r request.AwardKarmaResult) AwardKarmaResponse {
	return AwardKarmaResponse{RequestID: r.RequestID, HelperID: r.HelperID, Delta: r.Delta}
}
