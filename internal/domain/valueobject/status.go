package valueobject

import "github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"

type RequestStatus string

const (
	RequestStatusOpen       RequestStatus = "open"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusCompleted  RequestStatus = "completed"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusOpen, RequestStatusInProgress, RequestStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo: переходы только вперёд, open -> in_progress -> completed.
func (s RequestStatus) CanTransitionTo(newStatus RequestStatus) bool {
	transitions := map[RequestStatus][]RequestStatus{
		RequestStatusOpen:       {RequestStatusInProgress},
		RequestStatusInProgress: {RequestStatusCompleted},
		RequestStatusCompleted:  {},
	}

	for _, status := range transitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewRequestStatus(status string) (RequestStatus, error) {
	s := RequestStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус запроса")
	}
	return s, nil
}

type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "pending"
	OfferStatusAccepted  OfferStatus = "accepted"
	OfferStatusRejected  OfferStatus = "rejected"
	OfferStatusCompleted OfferStatus = "completed"
)

func (s OfferStatus) IsValid() bool {
	switch s {
	case OfferStatusPending, OfferStatusAccepted, OfferStatusRejected, OfferStatusCompleted:
		return true
	}
	return false
}

func (s OfferStatus) CanTransitionTo(newStatus OfferStatus) bool {
	transitions := map[OfferStatus][]OfferStatus{
		OfferStatusPending:   {OfferStatusAccepted, OfferStatusRejected},
		OfferStatusAccepted:  {OfferStatusCompleted},
		OfferStatusRejected:  {},
		OfferStatusCompleted: {},
	}

	for _, status := range transitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func NewUrgency(value string) (Urgency, error) {
	if value == "" {
		return UrgencyMedium, nil
	}
	u := Urgency(value)
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return u, nil
	}
	return "", apperror.New(apperror.ErrCodeValidation, "некорректная срочность запроса")
}
