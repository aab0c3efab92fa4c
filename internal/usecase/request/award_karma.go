package request

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/karma"
)

type AwardKarmaResult struct {
	RequestID uuid.UUID
	HelperID  uuid.UUID
	Delta     int
}

// AwardKarmaUseCase завершает запрос и начисляет карму принятому помощнику.
// Повторный вызов возвращает конфликт: статус меняется через CAS, а журнал кармы уникален по (запрос, пользователь).
type AwardKarmaUseCase struct {
	requestRepo  repository.RequestRepository
	publisher    repository.EventPublisher
	karmaPerHelp int
}

func NewAwardKarmaUseCase(requestRepo repository.RequestRepository, publisher repository.EventPublisher, karmaPerHelp int) *AwardKarmaUseCase {
	return &AwardKarmaUseCase{requestRepo: requestRepo, publisher: publisher, karmaPerHelp: karmaPerHelp}
}

func (uc *AwardKarmaUseCase) Execute(ctx context.Context, requestID, requesterID uuid.UUID) (AwardKarmaResult, error) {
	if err := karma.ValidateDelta(uc.karmaPerHelp); err != nil {
		return AwardKarmaResult{}, err
	}

	req, err := uc.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return AwardKarmaResult{}, err
	}
	if !req.IsOwnedBy(requesterID) {
		return AwardKarmaResult{}, apperror.ErrForbidden
	}
	if req.Status == valueobject.RequestStatusCompleted {
		return AwardKarmaResult{}, apperror.ErrKarmaAlreadyAwarded
	}
	if req.Status != valueobject.RequestStatusInProgress || req.AcceptedHelperID == nil {
		return AwardKarmaResult{}, apperror.New(apperror.ErrCodeConflict, "сначала примите отклик помощника")
	}
	helperID := *req.AcceptedHelperID

	if err := uc.requestRepo.CompleteWithKarma(ctx, req.ID, helperID, uc.karmaPerHelp); err != nil {
		return AwardKarmaResult{}, err
	}

	uc.publisher.Notify(ctx, repository.NotifyEvent{
		RecipientID: helperID,
		Type:        valueobject.NotificationKarmaAwarded,
		Message:     fmt.Sprintf("Вы получили +%d кармы за помощь с запросом «%s»", uc.karmaPerHelp, req.Title),
		Refs:        entity.NotificationRefs{RequestID: &req.ID},
	})
	uc.publisher.BadgeCheck(ctx, helperID)

	return AwardKarmaResult{RequestID: req.ID, HelperID: helperID, Delta: uc.karmaPerHelp}, nil
}
