package request

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/validation"
)

type CreateRequestInput struct {
	OwnerID       uuid.UUID
	Title         string
	Description   string
	OfferInReturn string
	Tags          []string
	Urgency       string
	EstimatedTime string
}

type CreateRequestUseCase struct {
	requestRepo repository.RequestRepository
	publisher   repository.EventPublisher
}

func NewCreateRequestUseCase(requestRepo repository.RequestRepository, publisher repository.EventPublisher) *CreateRequestUseCase {
	return &CreateRequestUseCase{requestRepo: requestRepo, publisher: publisher}
}

func (uc *CreateRequestUseCase) Execute(ctx context.Context, input CreateRequestInput) (*entity.Request, error) {
	if err := validation.ValidateRequestTitle(input.Title); err != nil {
		return nil, apperror.Validation(err)
	}
	if err := validation.ValidateRequestDescription(input.Description); err != nil {
		return nil, apperror.Validation(err)
	}
	if err := validation.ValidateLength("предложение взамен", input.OfferInReturn, 0, validation.MaxOfferInReturnLength); err != nil {
		return nil, apperror.Validation(err)
	}
	if err := validation.ValidateLength("оценка времени", input.EstimatedTime, 0, validation.MaxEstimatedTimeLength); err != nil {
		return nil, apperror.Validation(err)
	}
	tags, err := validation.NormalizeTags(input.Tags)
	if err != nil {
		return nil, apperror.Validation(err)
	}
	urgency, err := valueobject.NewUrgency(input.Urgency)
	if err != nil {
		return nil, err
	}

	req, err := entity.NewRequest(input.OwnerID, input.Title, input.Description, input.OfferInReturn, tags, urgency, input.EstimatedTime)
	if err != nil {
		return nil, err
	}

	if err := uc.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	uc.publisher.BadgeCheck(ctx, req.OwnerID)
	return req, nil
}
