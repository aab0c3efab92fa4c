package persistence

import (
	"errors"

	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func pgCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool     { return pgCode(err) == pgUniqueViolation }
func isForeignKeyViolation(err error) bool { return pgCode(err) == pgForeignKeyViolation }
func isCheckViolation(err error) bool      { return pgCode(err) == pgCheckViolation }

// txError пропускает доменные ошибки как есть, остальное оборачивает в DATABASE_ERROR.
func txError(err error, msg string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, msg)
}
