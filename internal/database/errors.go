package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrConnect means the store could not be reached or the DSN is invalid.
	ErrConnect = errors.New("database connection failed")
	// ErrSchema means a table could not be created.
	ErrSchema = errors.New("schema creation failed")
	// ErrConstraint means an integrity constraint rejected a statement.
	ErrConstraint = errors.New("constraint violation")
)

// Classify wraps integrity violations reported by gorm or pgx with
// ErrConstraint. Other errors are returned unchanged.
func Classify(err error) error {
	if err == nil || errors.Is(err, ErrConstraint) {
		return err
	}

	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", ErrConstraint, err)
	}

	// SQLSTATE class 23: integrity constraint violation
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return fmt.Errorf("%w: %s: %w", ErrConstraint, pgErr.ConstraintName, err)
	}

	return err
}
