package sqlite

import (
	"errors"

	"github.com/ormkit/sqlite/logger"
)

var (
	// ErrRecordNotFound record not found error
	ErrRecordNotFound = logger.ErrRecordNotFound
	// ErrModelNotFound the requested model is not registered with the connector
	ErrModelNotFound = errors.New("model not found")
	// ErrInvalidTransaction invalid transaction when you are trying to `Commit` or `Rollback`
	ErrInvalidTransaction = errors.New("no valid transaction")
	// ErrDuplicateKey a uniqueness constraint rejected the statement
	ErrDuplicateKey = errors.New("duplicate value in unique index")
	// ErrInvalidNumericDefault the declared default does not parse as a number
	ErrInvalidNumericDefault = errors.New("Invalid numeric default")
	// ErrInvalidBooleanDefault the declared default is not a canonical boolean literal
	ErrInvalidBooleanDefault = errors.New("Invalid boolean default")
	// ErrInvalidDateDefault the declared default does not parse as a calendar date
	ErrInvalidDateDefault = errors.New("Invalid date default")
	// ErrUnsupportedDefault DEFAULT clauses are not generated for composite types
	ErrUnsupportedDefault = errors.New("default value not supported for composite types")
)
