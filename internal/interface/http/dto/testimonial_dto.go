package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
)

type CreateTestimonialRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
	Text       string    `json:"text" binding:"required"`
}

type TestimonialResponse struct {
	ID         uuid.UUID  `json:"id"`
	SenderID   uuid.UUID  `json:"sender_id"`
	ReceiverID uuid.UUID  `json:"receiver_id"`
	Text       string     `json:"text"`
	Approved   bool       `json:"approved"`
	CreatedAt  time.Time  `json:"created_at"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

func ToTestimonialResponse(t *entity.Testimonial) TestimonialResponse {
	return TestimonialResponse{
		ID:         t.ID,
		SenderID:   t.SenderID,
		ReceiverID: t.ReceiverID,
		Text:       t.Text,
		Approved:   t.Approved,
		CreatedAt:  t.CreatedAt,
		ApprovedAt: t.ApprovedAt,
	}
}

func ToTestimonialResponses(items []*entity.Testimonial) []TestimonialResponse {
	result := make([]TestimonialResponse, len(items))
	for i, t := range items {
		result[i] = ToTestimonialResponse(t)
	}
	return result
}
