package material

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository errors. The repository translates raw GORM/driver errors to
// these sentinels so callers never depend on driver internals.
var (
	// ErrNotFound is returned when no material exists for the given id.
	// It is reported to the caller and never retried.
	ErrNotFound = errors.New("material: not found")

	// ErrDuplicate is returned when creating a material whose id already exists.
	ErrDuplicate = errors.New("material: already exists")
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

// translateError normalizes GORM and PostgreSQL driver errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}

	return err
}
