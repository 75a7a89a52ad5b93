package pgdb

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Коды ошибок PostgreSQL
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func postgresDuplicate(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

// postgresForeignKey - ссылка на несуществующую (или удалённую параллельно) запись.
func postgresForeignKey(err error) bool {
	return pgErrorCode(err) == pgForeignKeyViolation
}

func postgresCheck(err error) bool {
	return pgErrorCode(err) == pgCheckViolation
}

// postgresOutOfRange - число не помещается в тип колонки (bigint, NUMERIC(p,s)).
func postgresOutOfRange(err error) bool {
	return pgErrorCode(err) == pgNumericOutOfRange
}

func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
