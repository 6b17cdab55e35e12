package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrDuplicateDisplayName = errors.New("display name already exists")
	ErrDuplicateLike        = errors.New("like already exists")
	ErrMissingReference     = errors.New("referenced record does not exist")
	ErrStillReferenced      = errors.New("record is still referenced")
)

const (
	mysqlDuplicateEntry   = 1062
	mysqlNoReferencedRow  = 1452
	mysqlRowIsReferenced  = 1451
	sqliteUniqueMarker    = "UNIQUE constraint failed: "
	sqliteForeignKeyError = "FOREIGN KEY constraint failed"
)

// isDuplicateEntryError reports whether err is a unique-constraint
// violation on either backend.
func isDuplicateEntryError(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return strings.Contains(err.Error(), sqliteUniqueMarker)
}

// isForeignKeyError reports whether err is a foreign-key violation, either a
// missing parent row or a parent that is still referenced.
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoReferencedRow || myErr.Number == mysqlRowIsReferenced
	}
	return strings.Contains(err.Error(), sqliteForeignKeyError)
}

// violatedKey extracts the constraint (MySQL) or column list (SQLite) named
// in a unique-constraint error message.
func violatedKey(err error) string {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if i := strings.LastIndex(myErr.Message, "for key "); i >= 0 {
			return myErr.Message[i+len("for key "):]
		}
		return ""
	}
	msg := err.Error()
	if i := strings.Index(msg, sqliteUniqueMarker); i >= 0 {
		return msg[i+len(sqliteUniqueMarker):]
	}
	return ""
}
