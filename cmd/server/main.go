package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/skillswap-backend/internal/cache"
	"github.com/ignatzorin/skillswap-backend/internal/config"
	"github.com/ignatzorin/skillswap-backend/internal/db"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/goroutine"
	"github.com/ignatzorin/skillswap-backend/internal/http/middleware"
	httpRouter "github.com/ignatzorin/skillswap-backend/internal/http/router"
	aiinfra "github.com/ignatzorin/skillswap-backend/internal/infrastructure/ai"
	"github.com/ignatzorin/skillswap-backend/internal/infrastructure/auth"
	"github.com/ignatzorin/skillswap-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/skillswap-backend/internal/interface/http/handler"
	"github.com/ignatzorin/skillswap-backend/internal/jobs"
	"github.com/ignatzorin/skillswap-backend/internal/logger"
	"github.com/ignatzorin/skillswap-backend/internal/outbox"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/ai"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/badge"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/chat"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/endorsement"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/karma"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/notification"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/profile"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/request"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/testimonial"
	"github.com/ignatzorin/skillswap-backend/internal/ws"
)

const cacheCleanupInterval = time.Minute

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logLevel := cfg.LogLevel
	if logLevel == "" {
		logLevel = "info"
		if !cfg.IsProduction() {
			logLevel = "debug"
		}
	}
	logger.Init(logLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.WithError(err).Fatal("Ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn); err != nil {
		logger.Log.WithError(err).Fatal("Ошибка миграций")
	}

	verifier := buildVerifier(cfg)

	// Репозитории.
	userRepo := persistence.NewUserRepositoryAdapter(dbConn)
	skillRepo := persistence.NewSkillRepositoryAdapter(dbConn)
	badgeRepo := persistence.NewUserBadgeRepositoryAdapter(dbConn)
	statsRepo := persistence.NewStatsRepositoryAdapter(dbConn)
	karmaRepo := persistence.NewKarmaRepositoryAdapter(dbConn)
	requestRepo := persistence.NewRequestRepositoryAdapter(dbConn)
	chatRepo := persistence.NewChatRepositoryAdapter(dbConn)
	notificationRepo := persistence.NewNotificationRepositoryAdapter(dbConn)
	testimonialRepo := persistence.NewTestimonialRepositoryAdapter(dbConn)
	outboxStore := persistence.NewOutboxRepositoryAdapter(dbConn)

	publisher := outbox.NewPublisher(outboxStore)
	hub := ws.NewHub()
	appCache := cache.New()

	var aiService repository.AIService
	if cfg.AIAPIKey != "" {
		aiService = aiinfra.NewOpenAIService(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout)
	} else {
		logger.Log.Warn("AI_API_KEY не задан, подсказки строятся локально")
	}

	// Сценарии.
	awardBadges := badge.NewCheckAndAwardAllUseCase(badgeRepo)
	evaluateBadges := badge.NewEvaluateUserUseCase(statsRepo, awardBadges)
	listBadges := badge.NewListUserBadgesUseCase(badgeRepo)
	grantBadge := badge.NewGrantBadgeUseCase(badgeRepo, userRepo, cfg.AdminIDs())

	ensureProfile := profile.NewEnsureProfileUseCase(userRepo)
	notify := notification.NewNotifyUseCase(notificationRepo, hub)
	snapshotRanks := karma.NewSnapshotRanksUseCase(karmaRepo, publisher)

	// Outbox relay доставляет уведомления и проверки значков.
	relay := outbox.NewRelay(outboxStore, outbox.RelayConfig{
		Batch:       cfg.OutboxBatch,
		MaxAttempts: cfg.OutboxMaxAttempts,
		BackoffBase: cfg.OutboxBackoffBase,
		BackoffMax:  cfg.OutboxBackoffMax,
	})
	relay.Handle(outbox.KindNotify, outbox.NotifyHandler(notify))
	relay.Handle(outbox.KindBadgeCheck, outbox.BadgeCheckHandler(evaluateBadges))

	authn := middleware.NewAuthenticator(verifier, ensureProfile, appCache, cfg.ProfileCacheTTL)

	handlers := httpRouter.Handlers{
		Health: handler.NewHealthHandler(dbConn),
		Profile: handler.NewProfileHandler(
			ensureProfile,
			profile.NewGetProfileUseCase(userRepo, skillRepo, listBadges),
			profile.NewUpdateProfileUseCase(userRepo),
			profile.NewAddSkillUseCase(skillRepo),
			profile.NewRemoveSkillUseCase(skillRepo),
			testimonial.NewListForUserUseCase(testimonialRepo),
		),
		Endorsement: handler.NewEndorsementHandler(
			endorsement.NewEndorseSkillUseCase(userRepo, skillRepo, publisher),
			endorsement.NewRevokeEndorsementUseCase(skillRepo),
		),
		Badge: handler.NewBadgeHandler(badge.NewProgressUseCase(statsRepo), grantBadge),
		Karma: handler.NewKarmaHandler(
			karma.NewLeaderboardUseCase(karmaRepo),
			karma.NewGetKarmaUseCase(karmaRepo),
			karma.NewAwardUseCase(karmaRepo, publisher),
			grantBadge,
			appCache,
		),
		Request: handler.NewRequestHandler(
			request.NewCreateRequestUseCase(requestRepo, publisher),
			request.NewGetRequestUseCase(requestRepo),
			request.NewListRequestsUseCase(requestRepo),
			request.NewListMyRequestsUseCase(requestRepo),
			request.NewListMyContributionsUseCase(requestRepo),
			request.NewSubmitOfferUseCase(requestRepo, publisher),
			request.NewListOffersUseCase(requestRepo),
			request.NewAcceptOfferUseCase(requestRepo, publisher),
			request.NewRejectOfferUseCase(requestRepo, publisher),
			request.NewAwardKarmaUseCase(requestRepo, publisher, cfg.KarmaPerHelp),
			appCache,
		),
		Chat: handler.NewChatHandler(
			chat.NewGetOrCreateChatUseCase(chatRepo, requestRepo, publisher),
			chat.NewListMyChatsUseCase(chatRepo),
			chat.NewSendMessageUseCase(chatRepo, publisher, hub),
			chat.NewListMessagesUseCase(chatRepo),
			chat.NewMarkChatReadUseCase(chatRepo),
		),
		Notification: handler.NewNotificationHandler(
			notification.NewListUseCase(notificationRepo),
			notification.NewCountUnreadUseCase(notificationRepo),
			notification.NewMarkAsReadUseCase(notificationRepo),
			notification.NewMarkAllAsReadUseCase(notificationRepo),
			notification.NewDeleteUseCase(notificationRepo),
		),
		Testimonial: handler.NewTestimonialHandler(
			testimonial.NewCreateUseCase(userRepo, testimonialRepo),
			testimonial.NewApproveUseCase(testimonialRepo, publisher),
			testimonial.NewDeleteUseCase(testimonialRepo),
		),
		AI: handler.NewAIHandler(
			ai.NewSuggestTagsUseCase(aiService),
			ai.NewClarityTipsUseCase(aiService),
			ai.NewQualityScoreUseCase(aiService),
			ai.NewEnhanceDescriptionUseCase(aiService),
		),
		WS: handler.NewWSHandler(hub, authn, cfg.AllowedOrigins),
	}

	engine := httpRouter.SetupRouter(cfg, handlers, authn)

	// Фоновые задачи.
	goroutine.SafeGoWithContext(ctx, "ws-hub", hub.Run)
	goroutine.SafeGoWithContext(ctx, "cache-cleanup", func(ctx context.Context) {
		appCache.Run(ctx, cacheCleanupInterval)
	})

	scheduler := jobs.NewScheduler(jobs.Config{
		OutboxInterval:      cfg.OutboxInterval,
		LeaderboardSnapshot: cfg.LeaderboardSnapshot,
		OutboxRetention:     cfg.OutboxRetention,
	}, relay, snapshotRanks)
	if err := scheduler.Start(ctx); err != nil {
		logger.Log.WithError(err).Fatal("Ошибка запуска планировщика")
	}
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGo("http-shutdown", func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("Ошибка остановки HTTP сервера")
		}
	})

	logger.Log.WithFields(logrus.Fields{
		"port": cfg.HTTPPort,
		"env":  cfg.Env,
	}).Info("HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.WithError(err).Error("Сервер завершился с ошибкой")
	}
	logger.Log.Info("Сервер остановлен")
}

// buildVerifier собирает цепочку проверки токенов: Google, затем HMAC для dev и тестов.
func buildVerifier(cfg *config.Config) auth.Verifier {
	var chain auth.Chain
	if cfg.GoogleClientID != "" {
		chain = append(chain, auth.NewGoogleVerifier(cfg.GoogleClientID))
	}
	if cfg.HMACSecret != "" {
		chain = append(chain, auth.NewHMACVerifier(cfg.HMACSecret))
	}
	if len(chain) == 0 {
		logger.Log.Fatal("Не настроен ни один способ проверки токенов: задайте GOOGLE_CLIENT_ID или AUTH_HMAC_SECRET")
	}
	return chain
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithError(err).Error("Ошибка закрытия базы")
	}
}
