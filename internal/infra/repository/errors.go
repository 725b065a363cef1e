package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
)

const (
	pgUniqueViolation   = "23505"
	pgNumericOutOfRange = "22003"
)

// isUniqueViolation cobre os dois caminhos: gorm com TranslateError ligado
// e o PgError cru do pgx.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isNumericOutOfRange(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgNumericOutOfRange
}

func translateWrite(err error, entity, key string) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return httperr.ErrConflict(entity, key, err)
	}
	if isNumericOutOfRange(err) {
		return httperr.ErrValidation("amount_out_of_range", "cost", "amount does not fit the stored column")
	}
	return fmt.Errorf("%s write: %w", entity, err)
}

func translateRead(err error, entity, key string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(entity, key)
	}
	return fmt.Errorf("%s read: %w", entity, err)
}
