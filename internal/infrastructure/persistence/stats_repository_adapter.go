package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/badge"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

type StatsRepositoryAdapter struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewStatsRepositoryAdapter(db *sqlx.DB) *StatsRepositoryAdapter {
	return &StatsRepositoryAdapter{db: db, now: time.Now}
}

type statsRow struct {
	UniqueHelped    int           `db:"unique_helped"`
	RequestsCreated int           `db:"requests_created"`
	HelpOffered     int           `db:"help_offered"`
	Testimonials    int           `db:"testimonials"`
	Karma           int           `db:"karma"`
	BestRank        sql.NullInt64 `db:"best_rank"`
	JoinedAt        time.Time     `db:"created_at"`
}

// Помощь засчитывается по завершённым запросам, где пользователь был принятым помощником.
const statsQuery = `SELECT
		(SELECT COUNT(DISTINCT r.owner_id) FROM requests r
			WHERE r.accepted_helper_id = u.id AND r.status = 'completed') AS unique_helped,
		(SELECT COUNT(*) FROM requests r WHERE r.owner_id = u.id) AS requests_created,
		(SELECT COUNT(*) FROM responses o WHERE o.helper_id = u.id) AS help_offered,
		(SELECT COUNT(*) FROM testimonials t WHERE t.receiver_id = u.id AND t.approved) AS testimonials,
		u.karma, u.best_rank, u.created_at
	FROM users u
	WHERE u.id = $1`

func (r *StatsRepositoryAdapter) Load(ctx context.Context, userID uuid.UUID) (badge.Stats, error) {
	var row statsRow
	if err := r.db.GetContext(ctx, &row, statsQuery, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return badge.Stats{}, apperror.ErrUserNotFound
		}
		return badge.Stats{}, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось собрать статистику")
	}

	stats := badge.Stats{
		UniqueHelped:    row.UniqueHelped,
		RequestsCreated: row.RequestsCreated,
		HelpOffered:     row.HelpOffered,
		Testimonials:    row.Testimonials,
		Karma:           row.Karma,
		JoinedAt:        row.JoinedAt,
		AsOf:            r.now(),
		Earned:          map[string]struct{}{},
	}
	if row.BestRank.Valid {
		stats.BestRank = int(row.BestRank.Int64)
	}

	var skills []struct {
		Name         string `db:"name"`
		Category     string `db:"category"`
		Endorsements int    `db:"endorsements"`
	}
	if err := r.db.SelectContext(ctx, &skills,
		`SELECT s.name, s.category, COUNT(e.endorser_id) AS endorsements
		FROM skills s
		LEFT JOIN skill_endorsements e ON e.user_id = s.user_id AND e.skill_name = s.name
		WHERE s.user_id = $1
		GROUP BY s.name, s.category`, userID); err != nil {
		return badge.Stats{}, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить навыки для статистики")
	}
	for _, s := range skills {
		stats.Skills = append(stats.Skills, badge.SkillStat{Name: s.Name, Category: s.Category, Endorsements: s.Endorsements})
	}

	var days []time.Time
	if err := r.db.SelectContext(ctx, &days,
		`SELECT DISTINCT (completed_at AT TIME ZONE 'UTC')::date
		FROM requests
		WHERE accepted_helper_id = $1 AND status = 'completed' AND completed_at IS NOT NULL`, userID); err != nil {
		return badge.Stats{}, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить дни помощи")
	}
	stats.HelpStreakDays = badge.LongestStreak(days)

	var earned []string
	if err := r.db.SelectContext(ctx, &earned, `SELECT badge_id FROM user_badges WHERE user_id = $1`, userID); err != nil {
		return badge.Stats{}, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить значки")
	}
	for _, id := range earned {
		stats.Earned[id] = struct{}{}
	}
	return stats, nil
}
