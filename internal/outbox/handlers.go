package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/badge"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/notification"
)

// NotifyHandler создаёт уведомление. ID события служит ключом идемпотентности,
// поэтому повторная доставка не создаёт дубликат.
func NotifyHandler(notify *notification.NotifyUseCase) Handler {
	return func(ctx context.Context, event Event) error {
		var p NotifyPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return fmt.Errorf("outbox: некорректный payload notify: %w", err)
		}
		eventID := event.ID
		_, _, err := notify.Execute(ctx, notification.NotifyInput{
			RecipientID: p.RecipientID,
			Type:        valueobject.NotificationType(p.Type),
			Message:     p.Message,
			Refs: entity.NotificationRefs{
				ChatID:    p.ChatID,
				RequestID: p.RequestID,
				OffererID: p.OffererID,
			},
			EventID: &eventID,
		})
		return err
	}
}

// BadgeCheckHandler пересчитывает значки пользователя.
func BadgeCheckHandler(evaluate *badge.EvaluateUserUseCase) Handler {
	return func(ctx context.Context, event Event) error {
		var p BadgeCheckPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return fmt.Errorf("outbox: некорректный payload badge_check: %w", err)
		}
		_, err := evaluate.Execute(ctx, p.UserID)
		return err
	}
}
