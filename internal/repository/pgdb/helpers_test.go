package pgdb

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorClassification(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("query: %w", &pgconn.PgError{Code: code})
	}

	assert.True(t, postgresDuplicate(wrap(pgUniqueViolation)))
	assert.True(t, postgresForeignKey(wrap(pgForeignKeyViolation)))
	assert.True(t, postgresCheck(wrap(pgCheckViolation)))
	assert.True(t, postgresOutOfRange(wrap(pgNumericOutOfRange)))
	assert.False(t, postgresOutOfRange(wrap(pgCheckViolation)))

	assert.False(t, postgresDuplicate(wrap(pgCheckViolation)))
	assert.False(t, postgresForeignKey(fmt.Errorf("plain error")))
	assert.Empty(t, pgErrorCode(nil))

	assert.True(t, noRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.False(t, noRows(wrap(pgUniqueViolation)))
}
