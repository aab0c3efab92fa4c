package auth

import (
	"context"

	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"google.golang.org/api/idtoken"
)

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// GoogleVerifier проверяет Google ID token: подпись, срок и audience.
type GoogleVerifier struct {
	clientID string
	validate validateFunc
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (entity.Identity, error) {
	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return entity.Identity{}, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "недействительный токен")
	}
	if payload.Subject == "" {
		return entity.Identity{}, errInvalidToken
	}
	return entity.Identity{
		ExternalID:  "google:" + payload.Subject,
		Email:       claimString(payload.Claims, "email"),
		DisplayName: claimString(payload.Claims, "name"),
		PhotoURL:    claimString(payload.Claims, "picture"),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
