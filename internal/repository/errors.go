package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Kind classifies repository failures so callers can react differently.
type Kind int

const (
	KindStorage Kind = iota
	KindNotFound
	KindConstraint
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindConstraint:
		return "CONSTRAINT_VIOLATION"
	case KindInvalid:
		return "INVALID_INPUT"
	default:
		return "STORAGE_ERROR"
	}
}

// ErrNotFound matches every not-found error returned by the repository.
var ErrNotFound = errors.New("not found")

var (
	errTaskNotFound    = fmt.Errorf("task %w", ErrNotFound)
	errSubtaskNotFound = fmt.Errorf("subtask %w", ErrNotFound)
)

// Error is returned by every TaskRepository operation.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a repository error, or KindStorage for any other error.
func KindOf(err error) Kind {
	var repoErr *Error
	if errors.As(err, &repoErr) {
		return repoErr.Kind
	}
	return KindStorage
}

func invalid(op string, err error) error {
	return &Error{Op: op, Kind: KindInvalid, Err: err}
}

// wrap tags a storage error. A missing row is reported as notFound so the
// message names the entity instead of gorm's generic text.
func wrap(op string, err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Op: op, Kind: KindNotFound, Err: notFound}
	}
	return &Error{Op: op, Kind: classify(err), Err: err}
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrCheckConstraintViolated):
		return KindConstraint
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return KindConstraint
	}
	// Class 23 is integrity constraint violation.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return KindConstraint
	}
	return KindStorage
}
