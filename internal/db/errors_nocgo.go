//go:build !cgo

package db

// isCgoSqliteUniqueViolation is a no-op without cgo: the mattn/go-sqlite3
// driver cannot produce sqlite3.Error values when built with CGO_ENABLED=0.
func isCgoSqliteUniqueViolation(err error) (ok, matched bool) {
	return false, false
}
