package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/repository/common"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	requestColumns = `id, owner_id, title, description, offer_in_return, tags, urgency, estimated_time,
		status, accepted_helper_id, created_at, updated_at, completed_at`
	offerColumns = `id, request_id, helper_id, message, status, created_at, accepted_at, rejected_at, completed_at`
)

type RequestRepositoryAdapter struct {
	db *sqlx.DB
}

func NewRequestRepositoryAdapter(db *sqlx.DB) *RequestRepositoryAdapter {
	return &RequestRepositoryAdapter{db: db}
}

func (r *RequestRepositoryAdapter) Create(ctx context.Context, req *entity.Request) error {
	query := `
		INSERT INTO requests (id, owner_id, title, description, offer_in_return, tags, urgency,
			estimated_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.OwnerID,
		req.Title,
		req.Description,
		req.OfferInReturn,
		pq.Array(req.Tags),
		string(req.Urgency),
		req.EstimatedTime,
		string(req.Status),
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.ErrUserNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать запрос")
	}
	return nil
}

func (r *RequestRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Request, error) {
	var row requestRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrRequestNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить запрос")
	}
	return row.toEntity(), nil
}

func (r *RequestRepositoryAdapter) List(ctx context.Context, filter repository.RequestFilter) ([]*entity.Request, int, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conds = append(conds, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM requests`+where, args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать запросы")
	}

	query := `SELECT ` + requestColumns + ` FROM requests` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var rows []requestRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить запросы")
	}
	return requestsToEntities(rows), total, nil
}

func (r *RequestRepositoryAdapter) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Request, error) {
	var rows []requestRow
	query := `SELECT ` + requestColumns + ` FROM requests WHERE owner_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить запросы пользователя")
	}
	return requestsToEntities(rows), nil
}

func (r *RequestRepositoryAdapter) CreateOffer(ctx context.Context, offer *entity.Offer) error {
	query := `INSERT INTO responses (id, request_id, helper_id, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		offer.ID, offer.RequestID, offer.HelperID, offer.Message, string(offer.Status), offer.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return apperror.New(apperror.ErrCodeConflict, "вы уже откликнулись на этот запрос")
		case isForeignKeyViolation(err):
			return apperror.ErrRequestNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать отклик")
	}
	return nil
}

func (r *RequestRepositoryAdapter) FindOffer(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	var row offerRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+offerColumns+` FROM responses WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrOfferNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить отклик")
	}
	return row.toEntity(), nil
}

func (r *RequestRepositoryAdapter) ListOffers(ctx context.Context, requestID uuid.UUID) ([]*entity.Offer, error) {
	var rows []offerRow
	query := `SELECT ` + offerColumns + ` FROM responses WHERE request_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &rows, query, requestID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить отклики")
	}
	result := make([]*entity.Offer, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

// ListContributions отдаёт отклики пользователя, новые сверху, вместе с их запросами.
func (r *RequestRepositoryAdapter) ListContributions(ctx context.Context, helperID uuid.UUID) ([]repository.Contribution, error) {
	var offers []offerRow
	query := `SELECT ` + offerColumns + ` FROM responses WHERE helper_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &offers, query, helperID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить отклики пользователя")
	}
	if len(offers) == 0 {
		return []repository.Contribution{}, nil
	}

	ids := make([]string, len(offers))
	for i, o := range offers {
		ids[i] = o.RequestID.String()
	}
	var requests []requestRow
	if err := r.db.SelectContext(ctx, &requests,
		`SELECT `+requestColumns+` FROM requests WHERE id = ANY($1::uuid[])`, pq.Array(ids)); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить запросы откликов")
	}
	byID := make(map[uuid.UUID]*entity.Request, len(requests))
	for i := range requests {
		byID[requests[i].ID] = requests[i].toEntity()
	}

	result := make([]repository.Contribution, 0, len(offers))
	for i := range offers {
		req, ok := byID[offers[i].RequestID]
		if !ok {
			continue
		}
		result = append(result, repository.Contribution{Offer: offers[i].toEntity(), Request: req})
	}
	return result, nil
}

func (r *RequestRepositoryAdapter) RejectOffer(ctx context.Context, offerID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE responses SET status = 'rejected', rejected_at = NOW() WHERE id = $1 AND status = 'pending'`, offerID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отклонить отклик")
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}
	if _, err := r.FindOffer(ctx, offerID); err != nil {
		return err
	}
	return apperror.New(apperror.ErrCodeConflict, "можно отклонить только ожидающий отклик")
}

func (r *RequestRepositoryAdapter) AcceptOffer(ctx context.Context, requestID, offerID, helperID uuid.UUID) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := lockRequest(ctx, tx, requestID); err != nil {
			return err
		}

		var offerStatus string
		err := tx.GetContext(ctx, &offerStatus,
			`SELECT status FROM responses WHERE id = $1 AND request_id = $2 AND helper_id = $3 FOR UPDATE`,
			offerID, requestID, helperID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrOfferNotFound
		}
		if err != nil {
			return err
		}
		if valueobject.OfferStatus(offerStatus) != valueobject.OfferStatusPending {
			return apperror.New(apperror.ErrCodeConflict, "можно принять только ожидающий отклик")
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE requests SET status = 'in_progress', accepted_helper_id = $2, updated_at = NOW()
			WHERE id = $1 AND status = 'open' AND accepted_helper_id IS NULL`, requestID, helperID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperror.New(apperror.ErrCodeConflict, "помощник для запроса уже выбран")
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE responses SET status = 'accepted', accepted_at = NOW() WHERE id = $1 AND status = 'pending'`, offerID)
		return err
	})
	return txError(err, "не удалось принять отклик")
}

func (r *RequestRepositoryAdapter) CompleteWithKarma(ctx context.Context, requestID, helperID uuid.UUID, delta int) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		locked, err := lockRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}

		var awarded bool
		if err := tx.GetContext(ctx, &awarded,
			`SELECT EXISTS (SELECT 1 FROM karma_ledger WHERE request_id = $1 AND user_id = $2)`,
			requestID, helperID); err != nil {
			return err
		}
		if awarded || locked.Status == string(valueobject.RequestStatusCompleted) {
			return apperror.ErrKarmaAlreadyAwarded
		}
		if locked.Status != string(valueobject.RequestStatusInProgress) ||
			!locked.AcceptedHelperID.Valid || locked.AcceptedHelperID.UUID != helperID {
			return apperror.New(apperror.ErrCodeConflict, "запрос не находится в работе")
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE responses SET status = 'completed', completed_at = NOW()
			WHERE request_id = $1 AND helper_id = $2 AND status = 'accepted'`, requestID, helperID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperror.New(apperror.ErrCodeConflict, "принятый отклик не найден")
		}

		if err := awardKarmaTx(ctx, tx, helperID, requestID, delta); err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx, `
			UPDATE requests SET status = 'completed', completed_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = 'in_progress' AND accepted_helper_id = $2`, requestID, helperID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperror.ErrKarmaAlreadyAwarded
		}
		return nil
	})
	return txError(err, "не удалось завершить запрос")
}

type lockedRequest struct {
	Status           string        `db:"status"`
	AcceptedHelperID uuid.NullUUID `db:"accepted_helper_id"`
}

// lockRequest блокирует строку запроса до конца транзакции.
func lockRequest(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (lockedRequest, error) {
	var row lockedRequest
	err := tx.GetContext(ctx, &row, `SELECT status, accepted_helper_id FROM requests WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return row, apperror.ErrRequestNotFound
	}
	return row, err
}

type requestRow struct {
	ID               uuid.UUID      `db:"id"`
	OwnerID          uuid.UUID      `db:"owner_id"`
	Title            string         `db:"title"`
	Description      string         `db:"description"`
	OfferInReturn    string         `db:"offer_in_return"`
	Tags             pq.StringArray `db:"tags"`
	Urgency          string         `db:"urgency"`
	EstimatedTime    string         `db:"estimated_time"`
	Status           string         `db:"status"`
	AcceptedHelperID uuid.NullUUID  `db:"accepted_helper_id"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
	CompletedAt      sql.NullTime   `db:"completed_at"`
}

func (r *requestRow) toEntity() *entity.Request {
	req := &entity.Request{
		ID:            r.ID,
		OwnerID:       r.OwnerID,
		Title:         r.Title,
		Description:   r.Description,
		OfferInReturn: r.OfferInReturn,
		Tags:          []string(r.Tags),
		Urgency:       valueobject.Urgency(r.Urgency),
		EstimatedTime: r.EstimatedTime,
		Status:        valueobject.RequestStatus(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}
	if r.AcceptedHelperID.Valid {
		id := r.AcceptedHelperID.UUID
		req.AcceptedHelperID = &id
	}
	req.CompletedAt = nullTimePtr(r.CompletedAt)
	return req
}

func requestsToEntities(rows []requestRow) []*entity.Request {
	result := make([]*entity.Request, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result
}

type offerRow struct {
	ID          uuid.UUID    `db:"id"`
	RequestID   uuid.UUID    `db:"request_id"`
	HelperID    uuid.UUID    `db:"helper_id"`
	Message     string       `db:"message"`
	Status      string       `db:"status"`
	CreatedAt   time.Time    `db:"created_at"`
	AcceptedAt  sql.NullTime `db:"accepted_at"`
	RejectedAt  sql.NullTime `db:"rejected_at"`
	CompletedAt sql.NullTime `db:"completed_at"`
}

func (o *offerRow) toEntity() *entity.Offer {
	return &entity.Offer{
		ID:          o.ID,
		RequestID:   o.RequestID,
		HelperID:    o.HelperID,
		Message:     o.Message,
		Status:      valueobject.OfferStatus(o.Status),
		CreatedAt:   o.CreatedAt,
		AcceptedAt:  nullTimePtr(o.AcceptedAt),
		RejectedAt:  nullTimePtr(o.RejectedAt),
		CompletedAt: nullTimePtr(o.CompletedAt),
	}
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
