package request

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type GetRequestUseCase struct {
	requestRepo repository.RequestRepository
}

func NewGetRequestUseCase(requestRepo repository.RequestRepository) *GetRequestUseCase {
	return &GetRequestUseCase{requestRepo: requestRepo}
}

func (uc *GetRequestUseCase) Execute(ctx context.Context, id uuid.UUID) (*entity.Request, error) {
	return uc.requestRepo.FindByID(ctx, id)
}

type ListRequestsResult struct {
	Items  []*entity.Request
	Total  int
	Limit  int
	Offset int
}

type ListRequestsUseCase struct {
	requestRepo repository.RequestRepository
}

func NewListRequestsUseCase(requestRepo repository.RequestRepository) *ListRequestsUseCase {
	return &ListRequestsUseCase{requestRepo: requestRepo}
}

func (uc *ListRequestsUseCase) Execute(ctx context.Context, filter repository.RequestFilter) (ListRequestsResult, error) {
	if filter.Status != "" {
		if _, err := valueobject.NewRequestStatus(filter.Status); err != nil {
			return ListRequestsResult{}, err
		}
	}
	filter.Tag = strings.ToLower(strings.TrimSpace(filter.Tag))
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	items, total, err := uc.requestRepo.List(ctx, filter)
	if err != nil {
		return ListRequestsResult{}, err
	}
	return ListRequestsResult{Items: items, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

type ListMyRequestsUseCase struct {
	requestRepo repository.RequestRepository
}

func NewListMyRequestsUseCase(requestRepo repository.RequestRepository) *ListMyRequestsUseCase {
	return &ListMyRequestsUseCase{requestRepo: requestRepo}
}

func (uc *ListMyRequestsUseCase) Execute(ctx context.Context, ownerID uuid.UUID) ([]*entity.Request, error) {
	return uc.requestRepo.ListByOwner(ctx, ownerID)
}

type ListMyContributionsUseCase struct {
	requestRepo repository.RequestRepository
}

func NewListMyContributionsUseCase(requestRepo repository.RequestRepository) *ListMyContributionsUseCase {
	return &ListMyContributionsUseCase{requestRepo: requestRepo}
}

func (uc *ListMyContributionsUseCase) Execute(ctx context.Context, helperID uuid.UUID) ([]repository.Contribution, error) {
	return uc.requestRepo.ListContributions(ctx, helperID)
}
