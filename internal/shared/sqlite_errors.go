// Package shared provides common utilities used across the codebase.
//
//nolint:revive // "shared" is an intentional package name for cross-cutting helpers.
package shared

import "strings"

// SQLiteErrorKind classifies driver errors by their message, since the
// modernc driver does not export typed result codes through database/sql.
type SQLiteErrorKind int

const (
	SQLiteErrOther SQLiteErrorKind = iota
	SQLiteErrBusy
	SQLiteErrLocked
	SQLiteErrConstraint
)

// ClassifySQLiteError returns the kind of a SQLite error. nil is SQLiteErrOther.
func ClassifySQLiteError(err error) SQLiteErrorKind {
	if err == nil {
		return SQLiteErrOther
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "SQLITE_BUSY"):
		return SQLiteErrBusy
	case strings.Contains(msg, "database is locked"):
		return SQLiteErrLocked
	case strings.Contains(msg, "constraint failed"):
		return SQLiteErrConstraint
	default:
		return SQLiteErrOther
	}
}

// IsSQLiteConflictError reports a busy or locked database. These are the
// only SQLite errors worth retrying.
func IsSQLiteConflictError(err error) bool {
	kind := ClassifySQLiteError(err)
	return kind == SQLiteErrBusy || kind == SQLiteErrLocked
}

// IsSQLiteConstraintError reports a UNIQUE, NOT NULL or CHECK violation.
func IsSQLiteConstraintError(err error) bool {
	return ClassifySQLiteError(err) == SQLiteErrConstraint
}
