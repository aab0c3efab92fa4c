package fakes

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

type RequestRepository struct{ db *DB }

func (db *DB) Requests() *RequestRepository { return &RequestRepository{db: db} }

// RequestState возвращает текущее состояние запроса в обход репозитория.
func (db *DB) RequestState(id uuid.UUID) *entity.Request {
	db.mu.Lock()
	defer db.mu.Unlock()
	if r, ok := db.requests[id]; ok {
		return cloneRequest(r)
	}
	return nil
}

func (db *DB) OfferState(id uuid.UUID) *entity.Offer {
	db.mu.Lock()
	defer db.mu.Unlock()
	if o, ok := db.offers[id]; ok {
		return cloneOffer(o)
	}
	return nil
}

// DeleteRequest имитирует удаление запроса владельцем.
func (db *DB) DeleteRequest(id uuid.UUID) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.requests, id)
}

func (r *RequestRepository) Create(ctx context.Context, req *entity.Request) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Request, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	req, ok := r.db.requests[id]
	if !ok {
		return nil, apperror.ErrRequestNotFound
	}
	return cloneRequest(req), nil
}

func (r *RequestRepository) List(ctx context.Context, filter repository.RequestFilter) ([]*entity.Request, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var matched []*entity.Request
	for _, req := range r.db.requests {
		if filter.Status != "" && string(req.Status) != filter.Status {
			continue
		}
		if filter.Tag != "" && !containsTag(req.Tags, filter.Tag) {
			continue
		}
		matched = append(matched, cloneRequest(req))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := len(matched)
	if filter.Offset >= total {
		return []*entity.Request{}, total, nil
	}
	end := total
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return matched[filter.Offset:end], total, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (r *RequestRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Request, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var result []*entity.Request
	for _, req := range r.db.requests {
		if req.OwnerID == ownerID {
			result = append(result, cloneRequest(req))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *RequestRepository) CreateOffer(ctx context.Context, offer *entity.Offer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.offers {
		if o.RequestID == offer.RequestID && o.HelperID == offer.HelperID {
			return apperror.New(apperror.ErrCodeConflict, "вы уже откликнулись на этот запрос")
		}
	}
	r.db.offers[offer.ID] = cloneOffer(offer)
	return nil
}

func (r *RequestRepository) FindOffer(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.offers[id]
	if !ok {
		return nil, apperror.ErrOfferNotFound
	}
	return cloneOffer(o), nil
}

func (r *RequestRepository) ListOffers(ctx context.Context, requestID uuid.UUID) ([]*entity.Offer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var result []*entity.Offer
	for _, o := range r.db.offers {
		if o.RequestID == requestID {
			result = append(result, cloneOffer(o))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *RequestRepository) ListContributions(ctx context.Context, helperID uuid.UUID) ([]repository.Contribution, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var result []repository.Contribution
	for _, o := range r.db.offers {
		if o.HelperID != helperID {
			continue
		}
		req, ok := r.db.requests[o.RequestID]
		if !ok {
			continue
		}
		result = append(result, repository.Contribution{Offer: cloneOffer(o), Request: cloneRequest(req)})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Offer.CreatedAt.After(result[j].Offer.CreatedAt) })
	return result, nil
}

func (r *RequestRepository) RejectOffer(ctx context.Context, offerID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.offers[offerID]
	if !ok {
		return apperror.ErrOfferNotFound
	}
	return o.Reject()
}

func (r *RequestRepository) AcceptOffer(ctx context.Context, requestID, offerID, helperID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	req, ok := r.db.requests[requestID]
	if !ok {
		return apperror.ErrRequestNotFound
	}
	o, ok := r.db.offers[offerID]
	if !ok || o.RequestID != requestID || o.HelperID != helperID {
		return apperror.ErrOfferNotFound
	}
	if o.Status != valueobject.OfferStatusPending {
		return apperror.New(apperror.ErrCodeConflict, "можно принять только ожидающий отклик")
	}
	if req.Status != valueobject.RequestStatusOpen || req.AcceptedHelperID != nil {
		return apperror.New(apperror.ErrCodeConflict, "помощник для запроса уже выбран")
	}
	if err := req.AcceptHelper(helperID); err != nil {
		return err
	}
	return o.Accept()
}

func (r *RequestRepository) CompleteWithKarma(ctx context.Context, requestID, helperID uuid.UUID, delta int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	req, ok := r.db.requests[requestID]
	if !ok {
		return apperror.ErrRequestNotFound
	}
	if _, awarded := r.db.ledger[ledgerKey{requestID, helperID}]; awarded || req.Status == valueobject.RequestStatusCompleted {
		return apperror.ErrKarmaAlreadyAwarded
	}
	if req.Status != valueobject.RequestStatusInProgress || req.AcceptedHelperID == nil || *req.AcceptedHelperID != helperID {
		return apperror.New(apperror.ErrCodeConflict, "запрос не находится в работе")
	}

	var accepted *entity.Offer
	for _, o := range r.db.offers {
		if o.RequestID == requestID && o.HelperID == helperID && o.Status == valueobject.OfferStatusAccepted {
			accepted = o
		}
	}
	if accepted == nil {
		return apperror.New(apperror.ErrCodeConflict, "принятый отклик не найден")
	}
	if err := r.db.awardLocked(helperID, requestID, delta); err != nil {
		return err
	}
	_ = req.Complete()
	_ = accepted.Complete()
	return nil
}
