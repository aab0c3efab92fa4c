package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

// Request - запрос о помощи, опубликованный пользователем.
type Request struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Title            string
	Description      string
	OfferInReturn    string
	Tags             []string
	Urgency          valueobject.Urgency
	EstimatedTime    string
	Status           valueobject.RequestStatus
	AcceptedHelperID *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
}

func NewRequest(ownerID uuid.UUID, title, description, offerInReturn string, tags []string, urgency valueobject.Urgency, estimatedTime string) (*Request, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "заголовок запроса обязателен")
	}
	if ownerID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "автор запроса обязателен")
	}
	now := time.Now()
	return &Request{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Title:         title,
		Description:   strings.TrimSpace(description),
		OfferInReturn: strings.TrimSpace(offerInReturn),
		Tags:          tags,
		Urgency:       urgency,
		EstimatedTime: strings.TrimSpace(estimatedTime),
		Status:        valueobject.RequestStatusOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// AcceptHelper переводит запрос в работу. Помощник назначается ровно один раз.
func (r *Request) AcceptHelper(helperID uuid.UUID) error {
	if r.AcceptedHelperID != nil {
		return apperror.New(apperror.ErrCodeConflict, "помощник для запроса уже выбран")
	}
	if !r.Status.CanTransitionTo(valueobject.RequestStatusInProgress) {
		return apperror.New(apperror.ErrCodeConflict, "невозможно принять отклик в текущем статусе запроса")
	}
	r.AcceptedHelperID = &helperID
	r.Status = valueobject.RequestStatusInProgress
	r.UpdatedAt = time.Now()
	return nil
}

func (r *Request) Complete() error {
	if !r.Status.CanTransitionTo(valueobject.RequestStatusCompleted) {
		return apperror.New(apperror.ErrCodeConflict, "невозможно завершить запрос в текущем статусе")
	}
	now := time.Now()
	r.Status = valueobject.RequestStatusCompleted
	r.CompletedAt = &now
	r.UpdatedAt = now
	return nil
}

func (r *Request) IsOwnedBy(userID uuid.UUID) bool {
	return r.OwnerID == userID
}

func (r *Request) IsOpen() bool {
	return r.Status == valueobject.RequestStatusOpen
}

// Offer - отклик пользователя на запрос (Response в терминах клиента).
type Offer struct {
	ID          uuid.UUID
	RequestID   uuid.UUID
	HelperID    uuid.UUID
	Message     string
	Status      valueobject.OfferStatus
	CreatedAt   time.Time
	AcceptedAt  *time.Time
	RejectedAt  *time.Time
	CompletedAt *time.Time
}

func NewOffer(requestID, helperID uuid.UUID, message string) (*Offer, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "текст отклика обязателен")
	}
	return &Offer{
		ID:        uuid.New(),
		RequestID: requestID,
		HelperID:  helperID,
		Message:   message,
		Status:    valueobject.OfferStatusPending,
		CreatedAt: time.Now(),
	}, nil
}

func (o *Offer) Accept() error {
	if !o.Status.CanTransitionTo(valueobject.OfferStatusAccepted) {
		return apperror.New(apperror.ErrCodeConflict, "можно принять только ожидающий отклик")
	}
	now := time.Now()
	o.Status = valueobject.OfferStatusAccepted
	o.AcceptedAt = &now
	return nil
}

func (o *Offer) Reject() error {
	if !o.Status.CanTransitionTo(valueobject.OfferStatusRejected) {
		return apperror.New(apperror.ErrCodeConflict, "можно отклонить только ожидающий отклик")
	}
	now := time.Now()
	o.Status = valueobject.OfferStatusRejected
	o.RejectedAt = &now
	return nil
}

func (o *Offer) Complete() error {
	if !o.Status.CanTransitionTo(valueobject.OfferStatusCompleted) {
		return apperror.New(apperror.ErrCodeConflict, "можно завершить только принятый отклик")
	}
	now := time.Now()
	o.Status = valueobject.OfferStatusCompleted
	o.CompletedAt = &now
	return nil
}

func (o *Offer) IsOwnedBy(userID uuid.UUID) bool {
	return o.HelperID == userID
}
