package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func TestGoogleVerifier(t *testing.T) {
	v := NewGoogleVerifier("client-id")

	t.Run("maps claims", func(t *testing.T) {
		v.validate = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			assert.Equal(t, "client-id", audience)
			return &idtoken.Payload{
				Subject: "1234",
				Claims: map[string]interface{}{
					"email":   "dana@example.com",
					"name":    "Dana",
					"picture": "https://example.com/d.png",
				},
			}, nil
		}
		identity, err := v.Verify(context.Background(), "token")
		require.NoError(t, err)
		assert.Equal(t, "google:1234", identity.ExternalID)
		assert.Equal(t, "dana@example.com", identity.Email)
		assert.Equal(t, "Dana", identity.DisplayName)
		assert.Equal(t, "https://example.com/d.png", identity.PhotoURL)
	})

	t.Run("invalid token", func(t *testing.T) {
		v.validate = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			return nil, errors.New("idtoken: audience provided does not match")
		}
		_, err := v.Verify(context.Background(), "token")
		assert.Equal(t, apperror.ErrCodeUnauthorized, apperror.CodeOf(err))
	})

	t.Run("missing subject", func(t *testing.T) {
		v.validate = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			return &idtoken.Payload{Claims: map[string]interface{}{}}, nil
		}
		_, err := v.Verify(context.Background(), "token")
		assert.Equal(t, apperror.ErrCodeUnauthorized, apperror.CodeOf(err))
	})
}
