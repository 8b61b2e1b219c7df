//go:build cgo

package db

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// isCgoSqliteUniqueViolation inspects errors from the cgo sqlite3 driver.
// matched reports whether err was a sqlite3.Error at all.
func isCgoSqliteUniqueViolation(err error) (ok, matched bool) {
	var cgoErr sqlite3.Error
	if errors.As(err, &cgoErr) {
		return cgoErr.ExtendedCode == sqlite3.ErrConstraintUnique || cgoErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey, true
	}
	return false, false
}
