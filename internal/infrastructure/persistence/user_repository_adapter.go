package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/repository/common"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const userColumns = `id, external_id, email, display_name, photo_url, bio, karma, best_rank,
	links, notify_email, profile_public, created_at, updated_at`

type UserRepositoryAdapter struct {
	db *sqlx.DB
}

func NewUserRepositoryAdapter(db *sqlx.DB) *UserRepositoryAdapter {
	return &UserRepositoryAdapter{db: db}
}

func (r *UserRepositoryAdapter) Create(ctx context.Context, u *entity.User) error {
	links, err := json.Marshal(u.Links)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать ссылки")
	}
	query := `INSERT INTO users (id, external_id, email, display_name, photo_url, bio, links,
			notify_email, profile_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.db.ExecContext(ctx, query,
		u.ID, u.ExternalID, u.Email, u.DisplayName, u.PhotoURL, u.Bio, links,
		u.Preferences.NotifyEmail, u.Preferences.ProfilePublic, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.New(apperror.ErrCodeConflict, "пользователь уже существует")
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать пользователя")
	}
	return nil
}

// Update не трогает karma и best_rank: их меняют только атомарные операции кармы.
func (r *UserRepositoryAdapter) Update(ctx context.Context, u *entity.User) error {
	links, err := json.Marshal(u.Links)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать ссылки")
	}
	query := `UPDATE users SET email = $2, display_name = $3, photo_url = $4, bio = $5, links = $6,
			notify_email = $7, profile_public = $8, updated_at = $9
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		u.ID, u.Email, u.DisplayName, u.PhotoURL, u.Bio, links,
		u.Preferences.NotifyEmail, u.Preferences.ProfilePublic, u.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить пользователя")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepositoryAdapter) FindByExternalID(ctx context.Context, externalID string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE external_id = $1`, externalID)
}

func (r *UserRepositoryAdapter) findOne(ctx context.Context, query string, arg interface{}) (*entity.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить пользователя")
	}
	return row.toEntity(), nil
}

type userRow struct {
	ID            uuid.UUID     `db:"id"`
	ExternalID    string        `db:"external_id"`
	Email         string        `db:"email"`
	DisplayName   string        `db:"display_name"`
	PhotoURL      string        `db:"photo_url"`
	Bio           string        `db:"bio"`
	Karma         int           `db:"karma"`
	BestRank      sql.NullInt64 `db:"best_rank"`
	Links         []byte        `db:"links"`
	NotifyEmail   bool          `db:"notify_email"`
	ProfilePublic bool          `db:"profile_public"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

func (u *userRow) toEntity() *entity.User {
	user := &entity.User{
		ID:          u.ID,
		ExternalID:  u.ExternalID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Bio:         u.Bio,
		Karma:       u.Karma,
		Links:       []entity.Link{},
		Preferences: entity.Preferences{NotifyEmail: u.NotifyEmail, ProfilePublic: u.ProfilePublic},
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.BestRank.Valid {
		rank := int(u.BestRank.Int64)
		user.BestRank = &rank
	}
	_ = json.Unmarshal(u.Links, &user.Links)
	return user
}

type SkillRepositoryAdapter struct {
	db *sqlx.DB
}

func NewSkillRepositoryAdapter(db *sqlx.DB) *SkillRepositoryAdapter {
	return &SkillRepositoryAdapter{db: db}
}

func (r *SkillRepositoryAdapter) Add(ctx context.Context, s *entity.Skill) error {
	query := `INSERT INTO skills (user_id, name, category, proficiency, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, s.UserID, s.Name, string(s.Category), string(s.Proficiency), s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.New(apperror.ErrCodeConflict, "навык уже добавлен")
		}
		if isForeignKeyViolation(err) {
			return apperror.ErrUserNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось добавить навык")
	}
	return nil
}

func (r *SkillRepositoryAdapter) Remove(ctx context.Context, userID uuid.UUID, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE user_id = $1 AND name = $2`, userID, name)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить навык")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrSkillNotFound
	}
	return nil
}

const skillSelect = `SELECT s.user_id, s.name, s.category, s.proficiency, s.created_at,
		COALESCE(array_agg(e.endorser_id ORDER BY e.created_at) FILTER (WHERE e.endorser_id IS NOT NULL), '{}') AS endorsers
	FROM skills s
	LEFT JOIN skill_endorsements e ON e.user_id = s.user_id AND e.skill_name = s.name`

func (r *SkillRepositoryAdapter) Find(ctx context.Context, userID uuid.UUID, name string) (*entity.Skill, error) {
	var row skillRow
	query := skillSelect + ` WHERE s.user_id = $1 AND s.name = $2 GROUP BY s.user_id, s.name`
	if err := r.db.GetContext(ctx, &row, query, userID, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrSkillNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить навык")
	}
	return row.toEntity(), nil
}

func (r *SkillRepositoryAdapter) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Skill, error) {
	var rows []skillRow
	query := skillSelect + ` WHERE s.user_id = $1 GROUP BY s.user_id, s.name ORDER BY s.name`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить навыки")
	}
	result := make([]*entity.Skill, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

// AddEndorsement опирается на первичный ключ (user_id, skill_name, endorser_id):
// повторное подтверждение ничего не меняет.
func (r *SkillRepositoryAdapter) AddEndorsement(ctx context.Context, userID uuid.UUID, skillName string, endorserID uuid.UUID) (int, bool, error) {
	if userID == endorserID {
		return 0, false, apperror.ErrSelfEndorsement
	}
	var (
		count int
		added bool
	)
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM skills WHERE user_id = $1 AND name = $2)`, userID, skillName); err != nil {
			return err
		}
		if !exists {
			return apperror.ErrSkillNotFound
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO skill_endorsements (user_id, skill_name, endorser_id) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			userID, skillName, endorserID)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		added = n == 1
		return tx.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM skill_endorsements WHERE user_id = $1 AND skill_name = $2`, userID, skillName)
	})
	if err != nil {
		return 0, false, endorsementError(err, "не удалось подтвердить навык")
	}
	return count, added, nil
}

func (r *SkillRepositoryAdapter) RemoveEndorsement(ctx context.Context, userID uuid.UUID, skillName string, endorserID uuid.UUID) (int, bool, error) {
	var (
		count   int
		removed bool
	)
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM skills WHERE user_id = $1 AND name = $2)`, userID, skillName); err != nil {
			return err
		}
		if !exists {
			return apperror.ErrSkillNotFound
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM skill_endorsements WHERE user_id = $1 AND skill_name = $2 AND endorser_id = $3`,
			userID, skillName, endorserID)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		removed = n == 1
		return tx.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM skill_endorsements WHERE user_id = $1 AND skill_name = $2`, userID, skillName)
	})
	if err != nil {
		return 0, false, endorsementError(err, "не удалось отозвать подтверждение")
	}
	return count, removed, nil
}

func endorsementError(err error, msg string) error {
	switch {
	case isCheckViolation(err):
		return apperror.ErrSelfEndorsement
	case isForeignKeyViolation(err):
		return apperror.ErrSkillNotFound
	}
	return txError(err, msg)
}

type skillRow struct {
	UserID      uuid.UUID      `db:"user_id"`
	Name        string         `db:"name"`
	Category    string         `db:"category"`
	Proficiency string         `db:"proficiency"`
	CreatedAt   time.Time      `db:"created_at"`
	Endorsers   pq.StringArray `db:"endorsers"`
}

func (s *skillRow) toEntity() *entity.Skill {
	endorsers := make([]uuid.UUID, 0, len(s.Endorsers))
	for _, raw := range s.Endorsers {
		if id, err := uuid.Parse(raw); err == nil {
			endorsers = append(endorsers, id)
		}
	}
	return &entity.Skill{
		UserID:       s.UserID,
		Name:         s.Name,
		Category:     valueobject.SkillCategory(s.Category),
		Proficiency:  valueobject.Proficiency(s.Proficiency),
		Endorsements: endorsers,
		CreatedAt:    s.CreatedAt,
	}
}

type UserBadgeRepositoryAdapter struct {
	db *sqlx.DB
}

func NewUserBadgeRepositoryAdapter(db *sqlx.DB) *UserBadgeRepositoryAdapter {
	return &UserBadgeRepositoryAdapter{db: db}
}

func (r *UserBadgeRepositoryAdapter) Award(ctx context.Context, userID uuid.UUID, badgeID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO user_badges (user_id, badge_id) VALUES ($1, $2) ON CONFLICT (user_id, badge_id) DO NOTHING`,
		userID, badgeID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, apperror.ErrUserNotFound
		}
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось выдать значок")
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (r *UserBadgeRepositoryAdapter) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.UserBadge, error) {
	var rows []struct {
		UserID    uuid.UUID `db:"user_id"`
		BadgeID   string    `db:"badge_id"`
		AwardedAt time.Time `db:"awarded_at"`
	}
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT user_id, badge_id, awarded_at FROM user_badges WHERE user_id = $1 ORDER BY awarded_at`, userID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить значки")
	}
	result := make([]entity.UserBadge, len(rows))
	for i, row := range rows {
		result[i] = entity.UserBadge{UserID: row.UserID, BadgeID: row.BadgeID, AwardedAt: row.AwardedAt}
	}
	return result, nil
}
