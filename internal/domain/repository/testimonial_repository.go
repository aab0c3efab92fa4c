package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
)

type TestimonialRepository interface {
	Create(ctx context.Context, t *entity.Testimonial) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Testimonial, error)
	Approve(ctx context.Context, t *entity.Testimonial) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByReceiver(ctx context.Context, receiverID uuid.UUID, approvedOnly bool) ([]*entity.Testimonial, error)
}
