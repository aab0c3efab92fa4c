package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
)

type RequestRepository interface {
	Create(ctx context.Context, request *entity.Request) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]*entity.Request, int, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Request, error)

	CreateOffer(ctx context.Context, offer *entity.Offer) error
	FindOffer(ctx context.Context, id uuid.UUID) (*entity.Offer, error)
	ListOffers(ctx context.Context, requestID uuid.UUID) ([]*entity.Offer, error)
	ListContributions(ctx context.Context, helperID uuid.UUID) ([]Contribution, error)
	RejectOffer(ctx context.Context, offerID uuid.UUID) error

	// AcceptOffer условными апдейтами переводит отклик pending→accepted
	// и запрос open→in_progress. Если хоть одно условие не выполнено, ничего не меняется.
	AcceptOffer(ctx context.Context, requestID, offerID, helperID uuid.UUID) error
	// CompleteWithKarma завершает запрос и принятый отклик, пишет журнал кармы
	// и увеличивает карму помощника в одной транзакции.
	CompleteWithKarma(ctx context.Context, requestID, helperID uuid.UUID, delta int) error
}

type RequestFilter struct {
	Status string
	Tag    string
	Limit  int
	Offset int
}

// Contribution - отклик пользователя вместе с запросом, на который он откликнулся.
type Contribution struct {
	Offer   *entity.Offer
	Request *entity.Request
}
