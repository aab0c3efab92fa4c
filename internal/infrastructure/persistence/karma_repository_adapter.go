package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/repository/common"
	"github.com/jmoiron/sqlx"
)

type KarmaRepositoryAdapter struct {
	db *sqlx.DB
}

func NewKarmaRepositoryAdapter(db *sqlx.DB) *KarmaRepositoryAdapter {
	return &KarmaRepositoryAdapter{db: db}
}

func (r *KarmaRepositoryAdapter) Award(ctx context.Context, userID, requestID uuid.UUID, delta int) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		return awardKarmaTx(ctx, tx, userID, requestID, delta)
	})
	return txError(err, "не удалось начислить карму")
}

// awardKarmaTx пишет строку журнала и увеличивает карму. Уникальный ключ
// (request_id, user_id) не даёт начислить дважды за один запрос.
func awardKarmaTx(ctx context.Context, tx *sqlx.Tx, userID, requestID uuid.UUID, delta int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO karma_ledger (id, user_id, request_id, delta) VALUES ($1, $2, $3, $4)`,
		uuid.New(), userID, requestID, delta)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return apperror.ErrKarmaAlreadyAwarded
		case isForeignKeyViolation(err):
			return apperror.ErrUserNotFound
		}
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET karma = karma + $2, updated_at = NOW() WHERE id = $1`, userID, delta)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrUserNotFound
	}
	return nil
}

func (r *KarmaRepositoryAdapter) GetKarma(ctx context.Context, userID uuid.UUID) (int, error) {
	var karma int
	if err := r.db.GetContext(ctx, &karma, `SELECT karma FROM users WHERE id = $1`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperror.ErrUserNotFound
		}
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить карму")
	}
	return karma, nil
}

// При равной карме выше тот, кто зарегистрировался раньше.
const (
	rankSelect = `SELECT id, display_name, photo_url, karma, created_at,
		ROW_NUMBER() OVER (ORDER BY karma DESC, created_at ASC, id) AS rank
	FROM users`
	rankOrder = `
	ORDER BY karma DESC, created_at ASC, id
	LIMIT $1`

	rankedUsers = rankSelect + rankOrder
	// Место в рейтинге зарабатывается: пользователи без кармы в снимок не попадают.
	rankedEarners = rankSelect + `
	WHERE karma > 0` + rankOrder
)

func (r *KarmaRepositoryAdapter) Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error) {
	var rows []struct {
		ID          uuid.UUID `db:"id"`
		DisplayName string    `db:"display_name"`
		PhotoURL    string    `db:"photo_url"`
		Karma       int       `db:"karma"`
		CreatedAt   time.Time `db:"created_at"`
		Rank        int       `db:"rank"`
	}
	if err := r.db.SelectContext(ctx, &rows, rankedUsers, limit); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить рейтинг")
	}
	result := make([]repository.LeaderboardEntry, len(rows))
	for i, row := range rows {
		result[i] = repository.LeaderboardEntry{
			Rank:        row.Rank,
			UserID:      row.ID,
			DisplayName: row.DisplayName,
			PhotoURL:    row.PhotoURL,
			Karma:       row.Karma,
			JoinedAt:    row.CreatedAt,
		}
	}
	return result, nil
}

func (r *KarmaRepositoryAdapter) UpdateBestRanks(ctx context.Context, limit int) ([]uuid.UUID, error) {
	var improved []uuid.UUID
	query := `WITH ranked AS (` + rankedEarners + `)
		UPDATE users u SET best_rank = ranked.rank
		FROM ranked
		WHERE u.id = ranked.id AND (u.best_rank IS NULL OR ranked.rank < u.best_rank)
		RETURNING u.id`
	if err := r.db.SelectContext(ctx, &improved, query, limit); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить лучшие места")
	}
	return improved, nil
}
