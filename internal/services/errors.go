package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/validation"
)

// ErrNotFound signals a lookup for a cliente, producto or factura id that
// does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError carries per-field violations gathered at the input boundary.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d violation(s)", len(e.Violations))
}

// IntegrityError is a store-level constraint violation surfaced during a
// write or delete: a foreign key blocking a delete-while-referenced, or a
// unique collision on the invoice number.
type IntegrityError struct {
	Constraint string // "foreign_key" or "unique"
	Err        error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation (%s): %v", e.Constraint, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// StorageError wraps connectivity/timeout/other store failures not classified
// as NotFound or IntegrityError.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// classifyWriteError maps a driver error to the taxonomy. Postgres errors are
// matched on SQLSTATE via pgconn; sqlite (tests, dev) only exposes constraint
// failures through its message text.
func classifyWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return &IntegrityError{Constraint: "foreign_key", Err: err}
		case "23505":
			return &IntegrityError{Constraint: "unique", Err: err}
		}
		return &StorageError{Op: op, Err: err}
	}
	msg := err.Error()
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return &IntegrityError{Constraint: "foreign_key", Err: err}
	}
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return &IntegrityError{Constraint: "unique", Err: err}
	}
	return &StorageError{Op: op, Err: err}
}
