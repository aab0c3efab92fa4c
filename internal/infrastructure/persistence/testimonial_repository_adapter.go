package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

const testimonialColumns = `id, sender_id, receiver_id, text, approved, created_at, approved_at`

type TestimonialRepositoryAdapter struct {
	db *sqlx.DB
}

func NewTestimonialRepositoryAdapter(db *sqlx.DB) *TestimonialRepositoryAdapter {
	return &TestimonialRepositoryAdapter{db: db}
}

func (r *TestimonialRepositoryAdapter) Create(ctx context.Context, t *entity.Testimonial) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO testimonials (id, sender_id, receiver_id, text, approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.SenderID, t.ReceiverID, t.Text, t.Approved, t.CreatedAt)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return apperror.ErrUserNotFound
		case isCheckViolation(err):
			return apperror.New(apperror.ErrCodeValidation, "нельзя оставить отзыв самому себе")
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить отзыв")
	}
	return nil
}

func (r *TestimonialRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Testimonial, error) {
	var row testimonialRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrTestimonialNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить отзыв")
	}
	return row.toEntity(), nil
}

// Approve - условный апдейт: одобрить можно только ещё не одобренный отзыв.
func (r *TestimonialRepositoryAdapter) Approve(ctx context.Context, t *entity.Testimonial) error {
	approvedAt := time.Now()
	if t.ApprovedAt != nil {
		approvedAt = *t.ApprovedAt
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE testimonials SET approved = TRUE, approved_at = $2 WHERE id = $1 AND NOT approved`, t.ID, approvedAt)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось одобрить отзыв")
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}
	if _, err := r.FindByID(ctx, t.ID); err != nil {
		return err
	}
	return apperror.New(apperror.ErrCodeConflict, "отзыв уже одобрен")
}

func (r *TestimonialRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить отзыв")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrTestimonialNotFound
	}
	return nil
}

func (r *TestimonialRepositoryAdapter) ListByReceiver(ctx context.Context, receiverID uuid.UUID, approvedOnly bool) ([]*entity.Testimonial, error) {
	var rows []testimonialRow
	query := `SELECT ` + testimonialColumns + ` FROM testimonials
		WHERE receiver_id = $1 AND (NOT $2 OR approved)
		ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, receiverID, approvedOnly); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить отзывы")
	}
	result := make([]*entity.Testimonial, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type testimonialRow struct {
	ID         uuid.UUID    `db:"id"`
	SenderID   uuid.UUID    `db:"sender_id"`
	ReceiverID uuid.UUID    `db:"receiver_id"`
	Text       string       `db:"text"`
	Approved   bool         `db:"approved"`
	CreatedAt  time.Time    `db:"created_at"`
	ApprovedAt sql.NullTime `db:"approved_at"`
}

func (t *testimonialRow) toEntity() *entity.Testimonial {
	return &entity.Testimonial{
		ID:         t.ID,
		SenderID:   t.SenderID,
		ReceiverID: t.ReceiverID,
		Text:       t.Text,
		Approved:   t.Approved,
		CreatedAt:  t.CreatedAt,
		ApprovedAt: nullTimePtr(t.ApprovedAt),
	}
}
