// Package repository holds the raw-SQL data access layer. Sentinel errors
// defined here let handlers and services distinguish failure scenarios
// without inspecting driver error strings: ErrNotFound maps to HTTP 404 and
// ErrDuplicate to HTTP 409 at the API boundary.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a row addressed by id/slug does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint,
// e.g. an already-taken username or a second bookmark on the same article.
// Uniqueness is enforced by the store, not pre-checked, so concurrent
// registrations race safely into exactly one success.
var ErrDuplicate = errors.New("duplicate entry")

// isDuplicateKey reports whether err is a MySQL duplicate-key violation
// (error 1062).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// isFKViolation reports whether err is a MySQL foreign-key failure on
// insert (error 1452), meaning a referenced row does not exist.
func isFKViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1452
}
