package common

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrEditConflict   = errors.New("unable to update the record due to an edit conflict, please try again")
	ErrForbidden      = errors.New("you do not have permission to perform this action")
)

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

// ForeignKeyError reports whether err is a foreign key violation on the named constraint.
func ForeignKeyError(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqForeignKeyViolation && pqErr.Constraint == constraint
	}

	return false
}

// UniqueViolation reports whether err is a unique constraint violation on the named constraint.
func UniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation && pqErr.Constraint == constraint
	}

	return false
}
