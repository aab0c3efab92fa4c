package testimonial

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/validation"
)

type CreateUseCase struct {
	userRepo        repository.UserRepository
	testimonialRepo repository.TestimonialRepository
}

func NewCreateUseCase(userRepo repository.UserRepository, testimonialRepo repository.TestimonialRepository) *CreateUseCase {
	return &CreateUseCase{userRepo: userRepo, testimonialRepo: testimonialRepo}
}

func (uc *CreateUseCase) Execute(ctx context.Context, senderID, receiverID uuid.UUID, text string) (*entity.Testimonial, error) {
	if err := validation.ValidateTestimonial(text); err != nil {
		return nil, apperror.Validation(err)
	}
	t, err := entity.NewTestimonial(senderID, receiverID, text)
	if err != nil {
		return nil, err
	}
	if _, err := uc.userRepo.FindByID(ctx, receiverID); err != nil {
		return nil, err
	}
	if err := uc.testimonialRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ApproveUseCase - одобрение отзыва получателем. Одобренные отзывы учитываются в значках.
type ApproveUseCase struct {
	testimonialRepo repository.TestimonialRepository
	publisher       repository.EventPublisher
}

func NewApproveUseCase(testimonialRepo repository.TestimonialRepository, publisher repository.EventPublisher) *ApproveUseCase {
	return &ApproveUseCase{testimonialRepo: testimonialRepo, publisher: publisher}
}

func (uc *ApproveUseCase) Execute(ctx context.Context, id, receiverID uuid.UUID) (*entity.Testimonial, error) {
	t, err := uc.testimonialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.Approve(receiverID); err != nil {
		return nil, err
	}
	if err := uc.testimonialRepo.Approve(ctx, t); err != nil {
		return nil, err
	}
	uc.publisher.BadgeCheck(ctx, t.ReceiverID)
	return t, nil
}

type DeleteUseCase struct {
	testimonialRepo repository.TestimonialRepository
}

func NewDeleteUseCase(testimonialRepo repository.TestimonialRepository) *DeleteUseCase {
	return &DeleteUseCase{testimonialRepo: testimonialRepo}
}

func (uc *DeleteUseCase) Execute(ctx context.Context, id, userID uuid.UUID) error {
	t, err := uc.testimonialRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !t.CanDelete(userID) {
		return apperror.ErrForbidden
	}
	return uc.testimonialRepo.Delete(ctx, id)
}

type ListForUserUseCase struct {
	testimonialRepo repository.TestimonialRepository
}

func NewListForUserUseCase(testimonialRepo repository.TestimonialRepository) *ListForUserUseCase {
	return &ListForUserUseCase{testimonialRepo: testimonialRepo}
}

// Execute показывает неодобренные отзывы только самому получателю.
func (uc *ListForUserUseCase) Execute(ctx context.Context, receiverID, viewerID uuid.UUID) ([]*entity.Testimonial, error) {
	return uc.testimonialRepo.ListByReceiver(ctx, receiverID, viewerID != receiverID)
}
