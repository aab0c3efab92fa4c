// Package jobs управляет фоновыми задачами (cron): доставка outbox,
// снимок рейтинга и очистка обработанных событий.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/ignatzorin/skillswap-backend/internal/logger"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const cleanupSpec = "@daily"

type OutboxRelay interface {
	RunOnce(ctx context.Context) (int, error)
	Cleanup(ctx context.Context, olderThan time.Duration) (int64, error)
}

type RankSnapshotter interface {
	Execute(ctx context.Context) (int, error)
}

type Config struct {
	OutboxInterval      string
	LeaderboardSnapshot string
	OutboxRetention     time.Duration
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	cfg      Config
	relay    OutboxRelay
	snapshot RankSnapshotter
	log      *logrus.Entry
}

func NewScheduler(cfg Config, relay OutboxRelay, snapshot RankSnapshotter) *Scheduler {
	l := cronLogger{entry: logger.Component("cron")}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		cfg:      cfg,
		relay:    relay,
		snapshot: snapshot,
		log:      logger.Component("jobs"),
	}
}

// Start регистрирует задачи и запускает планировщик. ctx передаётся в каждую задачу.
func (s *Scheduler) Start(ctx context.Context) error {
	jobs := []struct {
		name string
		spec string
		fn   func()
	}{
		{"outbox-relay", s.cfg.OutboxInterval, func() { s.runRelay(ctx) }},
		{"leaderboard-snapshot", s.cfg.LeaderboardSnapshot, func() { s.runSnapshot(ctx) }},
		{"outbox-cleanup", cleanupSpec, func() { s.runCleanup(ctx) }},
	}
	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.spec, job.fn); err != nil {
			return fmt.Errorf("jobs: некорректное расписание %s %q: %w", job.name, job.spec, err)
		}
	}

	s.cron.Start()
	s.log.WithFields(logrus.Fields{
		"outbox":      s.cfg.OutboxInterval,
		"leaderboard": s.cfg.LeaderboardSnapshot,
	}).Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и ждёт завершения текущих задач.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Планировщик задач остановлен")
}

func (s *Scheduler) runRelay(ctx context.Context) {
	delivered, err := s.relay.RunOnce(ctx)
	if err != nil {
		s.log.WithError(err).Error("Ошибка доставки outbox")
		return
	}
	if delivered > 0 {
		s.log.WithField("delivered", delivered).Debug("Доставлены события outbox")
	}
}

func (s *Scheduler) runSnapshot(ctx context.Context) {
	if _, err := s.snapshot.Execute(ctx); err != nil {
		s.log.WithError(err).Error("Ошибка снимка рейтинга")
	}
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	if _, err := s.relay.Cleanup(ctx, s.cfg.OutboxRetention); err != nil {
		s.log.WithError(err).Error("Ошибка очистки outbox")
	}
}

// cronLogger направляет логи cron в logrus.
type cronLogger struct {
	entry *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithError(err).WithFields(fields(keysAndValues)).Error(msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
