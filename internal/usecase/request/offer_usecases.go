package request

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/validation"
)

type SubmitOfferUseCase struct {
	requestRepo repository.RequestRepository
	publisher   repository.EventPublisher
}

func NewSubmitOfferUseCase(requestRepo repository.RequestRepository, publisher repository.EventPublisher) *SubmitOfferUseCase {
	return &SubmitOfferUseCase{requestRepo: requestRepo, publisher: publisher}
}

func (uc *SubmitOfferUseCase) Execute(ctx context.Context, requestID, helperID uuid.UUID, message string) (*entity.Offer, error) {
	req, err := uc.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.IsOwnedBy(helperID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нельзя откликнуться на собственный запрос")
	}
	if !req.IsOpen() {
		return nil, apperror.New(apperror.ErrCodeConflict, "запрос больше не принимает отклики")
	}
	if err := validation.ValidateLength("текст отклика", message, 0, validation.MaxOfferMessageLength); err != nil {
		return nil, apperror.Validation(err)
	}

	offer, err := entity.NewOffer(requestID, helperID, message)
	if err != nil {
		return nil, err
	}
	if err := uc.requestRepo.CreateOffer(ctx, offer); err != nil {
		return nil, err
	}

	uc.publisher.Notify(ctx, repository.NotifyEvent{
		RecipientID: req.OwnerID,
		Type:        valueobject.NotificationNewOffer,
		Message:     fmt.Sprintf("Новый отклик на запрос «%s»", req.Title),
		Refs:        entity.NotificationRefs{RequestID: &req.ID, OffererID: &helperID},
	})
	uc.publisher.BadgeCheck(ctx, helperID)
	return offer, nil
}

type ListOffersUseCase struct {
	requestRepo repository.RequestRepository
}

func NewListOffersUseCase(requestRepo repository.RequestRepository) *ListOffersUseCase {
	return &ListOffersUseCase{requestRepo: requestRepo}
}

// Execute отдаёт владельцу все отклики, остальным только их собственные.
func (uc *ListOffersUseCase) Execute(ctx context.Context, requestID, requesterID uuid.UUID) ([]*entity.Offer, error) {
	req, err := uc.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	offers, err := uc.requestRepo.ListOffers(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.IsOwnedBy(requesterID) {
		return offers, nil
	}
	own := make([]*entity.Offer, 0, 1)
	for _, o := range offers {
		if o.IsOwnedBy(requesterID) {
			own = append(own, o)
		}
	}
	return own, nil
}

type AcceptOfferUseCase struct {
	requestRepo repository.RequestRepository
	publisher   repository.EventPublisher
}

func NewAcceptOfferUseCase(requestRepo repository.RequestRepository, publisher repository.EventPublisher) *AcceptOfferUseCase {
	return &AcceptOfferUseCase{requestRepo: requestRepo, publisher: publisher}
}

// Execute принимает отклик. Остальные ожидающие отклики не меняются.
// Помощник получает ровно одно уведомление offer_accepted.
func (uc *AcceptOfferUseCase) Execute(ctx context.Context, requestID, offerID, requesterID uuid.UUID) (*entity.Offer, error) {
	req, offer, err := loadOwnedOffer(ctx, uc.requestRepo, requestID, offerID, requesterID)
	if err != nil {
		return nil, err
	}

	if err := uc.requestRepo.AcceptOffer(ctx, req.ID, offer.ID, offer.HelperID); err != nil {
		return nil, err
	}

	uc.publisher.Notify(ctx, repository.NotifyEvent{
		RecipientID: offer.HelperID,
		Type:        valueobject.NotificationOfferAccepted,
		Message:     fmt.Sprintf("Ваш отклик на запрос «%s» принят", req.Title),
		Refs:        entity.NotificationRefs{RequestID: &req.ID},
	})

	return uc.requestRepo.FindOffer(ctx, offer.ID)
}

type RejectOfferUseCase struct {
	requestRepo repository.RequestRepository
	publisher   repository.EventPublisher
}

func NewRejectOfferUseCase(requestRepo repository.RequestRepository, publisher repository.EventPublisher) *RejectOfferUseCase {
	return &RejectOfferUseCase{requestRepo: requestRepo, publisher: publisher}
}

func (uc *RejectOfferUseCase) Execute(ctx context.Context, requestID, offerID, requesterID uuid.UUID) (*entity.Offer, error) {
	req, offer, err := loadOwnedOffer(ctx, uc.requestRepo, requestID, offerID, requesterID)
	if err != nil {
		return nil, err
	}

	if err := uc.requestRepo.RejectOffer(ctx, offer.ID); err != nil {
		return nil, err
	}

	uc.publisher.Notify(ctx, repository.NotifyEvent{
		RecipientID: offer.HelperID,
		Type:        valueobject.NotificationOfferRejected,
		Message:     fmt.Sprintf("Ваш отклик на запрос «%s» отклонён", req.Title),
		Refs:        entity.NotificationRefs{RequestID: &req.ID},
	})

	return uc.requestRepo.FindOffer(ctx, offer.ID)
}

func loadOwnedOffer(ctx context.Context, repo repository.RequestRepository, requestID, offerID, requesterID uuid.UUID) (*entity.Request, *entity.Offer, error) {
	req, err := repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if !req.IsOwnedBy(requesterID) {
		return nil, nil, apperror.ErrForbidden
	}
	offer, err := repo.FindOffer(ctx, offerID)
	if err != nil {
		return nil, nil, err
	}
	if offer.RequestID != req.ID {
		return nil, nil, apperror.ErrOfferNotFound
	}
	return req, offer, nil
}
