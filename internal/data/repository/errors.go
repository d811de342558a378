package repository

import (
	"errors"
	"fmt"

	"catalog-api/pkg/utils"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgStringTooLong       = "22001"
)

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// mapPgError turns constraint violations into domain errors.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", utils.ErrConflict, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return fmt.Errorf("referenced row %w: %s", utils.ErrNotFound, pgErr.ConstraintName)
	case pgStringTooLong:
		field := pgErr.ColumnName
		if field == "" {
			field = "non_field_errors"
		}
		return utils.NewValidationError(field, "Value is too long")
	}
	return err
}
