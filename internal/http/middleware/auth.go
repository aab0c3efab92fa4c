package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/skillswap-backend/internal/cache"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/infrastructure/auth"
	"github.com/ignatzorin/skillswap-backend/internal/interface/http/response"
	"github.com/ignatzorin/skillswap-backend/internal/logger"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey   = "user_id"
	ContextIdentityKey = "identity"
)

// ProfileEnsurer создаёт профиль при первом входе.
type ProfileEnsurer interface {
	Execute(ctx context.Context, identity entity.Identity) (*entity.User, error)
}

// Authenticator проверяет токен и сопоставляет внешнюю личность с пользователем.
// Сопоставление externalID → userID кэшируется на ttl.
type Authenticator struct {
	verifier auth.Verifier
	profiles ProfileEnsurer
	cache    *cache.Cache
	ttl      time.Duration
}

func NewAuthenticator(verifier auth.Verifier, profiles ProfileEnsurer, c *cache.Cache, ttl time.Duration) *Authenticator {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Authenticator{verifier: verifier, profiles: profiles, cache: c, ttl: ttl}
}

// Resolve возвращает ID пользователя и проверенную личность для токена.
func (a *Authenticator) Resolve(ctx context.Context, token string) (uuid.UUID, entity.Identity, error) {
	identity, err := a.verifier.Verify(ctx, token)
	if err != nil {
		return uuid.Nil, entity.Identity{}, err
	}

	key := cache.IdentityKey(identity.ExternalID)
	value, err := a.cache.GetOrSet(key, a.ttl, func() (interface{}, error) {
		user, err := a.profiles.Execute(ctx, identity)
		if err != nil {
			return nil, err
		}
		return user.ID, nil
	})
	if err != nil {
		return uuid.Nil, entity.Identity{}, err
	}
	return value.(uuid.UUID), identity, nil
}

// Forget сбрасывает кэш сопоставления, например после обновления профиля.
func (a *Authenticator) Forget(externalID string) {
	a.cache.Delete(cache.IdentityKey(externalID))
}

// Required пропускает только запросы с валидным Bearer токеном.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		userID, identity, err := a.Resolve(c.Request.Context(), token)
		if err != nil {
			if apperror.CodeOf(err) != apperror.ErrCodeUnauthorized {
				response.Error(c, err)
				return
			}
			logger.Log.WithFields(logrus.Fields{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			}).Debug("Отклонён токен")
			response.Unauthorized(c, "токен невалиден")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// Optional определяет пользователя, если токен передан и валиден, и никогда не отклоняет запрос.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := auth.BearerToken(c.GetHeader("Authorization")); ok {
			if userID, identity, err := a.Resolve(c.Request.Context(), token); err == nil {
				c.Set(ContextUserIDKey, userID)
				c.Set(ContextIdentityKey, identity)
			}
		}
		c.Next()
	}
}
