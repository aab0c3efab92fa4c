package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

// Testimonial становится видимым только после одобрения получателем.
type Testimonial struct {
	ID         uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Text       string
	Approved   bool
	CreatedAt  time.Time
	ApprovedAt *time.Time
}

func NewTestimonial(senderID, receiverID uuid.UUID, text string) (*Testimonial, error) {
	if senderID == receiverID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя оставить отзыв самому себе")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "текст отзыва не может быть пустым")
	}
	return &Testimonial{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  time.Now(),
	}, nil
}

func (t *Testimonial) Approve(by uuid.UUID) error {
	if t.ReceiverID != by {
		return apperror.ErrForbidden
	}
	if t.Approved {
		return apperror.New(apperror.ErrCodeConflict, "отзыв уже одобрен")
	}
	now := time.Now()
	t.Approved = true
	t.ApprovedAt = &now
	return nil
}

func (t *Testimonial) CanDelete(userID uuid.UUID) bool {
	return t.SenderID == userID || t.ReceiverID == userID
}
