package fakes

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

type TestimonialRepository struct{ db *DB }

func (db *DB) Testimonials() *TestimonialRepository { return &TestimonialRepository{db: db} }

func (r *TestimonialRepository) Create(ctx context.Context, t *entity.Testimonial) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := *t
	r.db.testimonials[t.ID] = &c
	return nil
}

func (r *TestimonialRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Testimonial, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.testimonials[id]
	if !ok {
		return nil, apperror.ErrTestimonialNotFound
	}
	c := *t
	return &c, nil
}

func (r *TestimonialRepository) Approve(ctx context.Context, t *entity.Testimonial) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.testimonials[t.ID]
	if !ok {
		return apperror.ErrTestimonialNotFound
	}
	if stored.Approved {
		return apperror.New(apperror.ErrCodeConflict, "отзыв уже одобрен")
	}
	stored.Approved = true
	stored.ApprovedAt = t.ApprovedAt
	return nil
}

func (r *TestimonialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.testimonials[id]; !ok {
		return apperror.ErrTestimonialNotFound
	}
	delete(r.db.testimonials, id)
	return nil
}

func (r *TestimonialRepository) ListByReceiver(ctx context.Context, receiverID uuid.UUID, approvedOnly bool) ([]*entity.Testimonial, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var result []*entity.Testimonial
	for _, t := range r.db.testimonials {
		if t.ReceiverID != receiverID || (approvedOnly && !t.Approved) {
			continue
		}
		c := *t
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}
