// Команда devtoken выпускает HMAC-токен для локальной разработки и тестов API.
//
//	go run ./cmd/devtoken -sub dev-user-1 -name "Dev User" -ttl 24h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ignatzorin/skillswap-backend/internal/config"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/infrastructure/auth"
	"github.com/ignatzorin/skillswap-backend/internal/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	sub := flag.String("sub", "", "внешний идентификатор пользователя (обязателен)")
	email := flag.String("email", "", "email")
	name := flag.String("name", "", "отображаемое имя")
	ttl := flag.Duration("ttl", 24*time.Hour, "срок действия токена")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load config")
	}
	if cfg.IsProduction() {
		logger.Log.Fatal("devtoken запрещен в production")
	}
	if cfg.HMACSecret == "" {
		logger.Log.Fatal("AUTH_HMAC_SECRET не задан")
	}

	token, err := auth.IssueToken(cfg.HMACSecret, entity.Identity{
		ExternalID:  *sub,
		Email:       *email,
		DisplayName: *name,
	}, *ttl)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to issue token")
	}

	logger.Log.WithFields(logrus.Fields{
		"sub": *sub,
		"ttl": ttl.String(),
	}).Debug("Token issued")
	fmt.Fprintln(os.Stdout, token)
}
