package db

import (
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	mysqlDuplicateEntry        = 1062
	mysqlNoReferencedRow       = 1452
	mysqlRowIsReferenced       = 1451
	mysqlNoReferencedRowLegacy = 1216
)

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}

	// SQLite (error code 2067)
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func IsForeignKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlNoReferencedRow, mysqlRowIsReferenced, mysqlNoReferencedRowLegacy:
			return true
		}
		return false
	}

	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// ErrorCode returns a short, low-cardinality code for a store error.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case IsDuplicateKeyErr(err):
		return "duplicate_key"
	case IsForeignKeyErr(err):
		return "foreign_key"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "record_not_found"
	default:
		return "store_error"
	}
}
