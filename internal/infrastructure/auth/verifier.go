// Package auth проверяет токены внешнего провайдера и превращает их в entity.Identity.
package auth

import (
	"context"
	"strings"

	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

// Verifier проверяет токен и возвращает личность пользователя.
type Verifier interface {
	Verify(ctx context.Context, token string) (entity.Identity, error)
}

var errInvalidToken = apperror.New(apperror.ErrCodeUnauthorized, "недействительный токен")

// Chain пробует верификаторы по очереди и возвращает первый успешный результат.
type Chain []Verifier

func (c Chain) Verify(ctx context.Context, token string) (entity.Identity, error) {
	var lastErr error = errInvalidToken
	for _, v := range c {
		identity, err := v.Verify(ctx, token)
		if err == nil {
			return identity, nil
		}
		lastErr = err
	}
	return entity.Identity{}, lastErr
}

// BearerToken достаёт токен из заголовка Authorization.
func BearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
