package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	for _, name := range []string{"postgres", "PostgreSQL", "pgx"} {
		d, err := ParseDialect(name)
		require.NoError(t, err, name)
		assert.Equal(t, DialectPostgres, d)
	}

	d, err := ParseDialect("MySQL")
	require.NoError(t, err)
	assert.Equal(t, DialectMySQL, d)

	_, err = ParseDialect("memory")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	query := "UPDATE items SET quantity = quantity + ? WHERE id = ? AND quantity + ? >= 0"

	assert.Equal(t, query, DialectMySQL.Rebind(query))
	assert.Equal(t,
		"UPDATE items SET quantity = quantity + $1 WHERE id = $2 AND quantity + $3 >= 0",
		DialectPostgres.Rebind(query),
	)
	assert.Equal(t, "SELECT 1", DialectPostgres.Rebind("SELECT 1"))
}

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"mysql duplicate entry", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'KB-1'"}, true},
		{"mysql other error", &mysql.MySQLError{Number: 1146}, false},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"postgres check violation", &pgconn.PgError{Code: "23514"}, false},
		{"wrapped postgres", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDuplicateKey(tt.err))
		})
	}
}

func TestClassifyWriteErr(t *testing.T) {
	err := classifyWriteErr("create item", &mysql.MySQLError{Number: 1062})
	assert.ErrorIs(t, err, ErrDuplicateSKU)

	cause := errors.New("connection reset")
	err = classifyWriteErr("create item", cause)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrDuplicateSKU)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%laptop%", likePattern("laptop"))
	assert.Equal(t, `%50\%%`, likePattern("50%"))
	assert.Equal(t, `%usb\_c%`, likePattern("usb_c"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestSchemaHasConstraints(t *testing.T) {
	for _, d := range []Dialect{DialectMySQL, DialectPostgres} {
		ddl := d.schema()
		assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS items", d)
		assert.Contains(t, ddl, "quantity >= 0", d)
		assert.Contains(t, ddl, "price >= 0", d)
	}
}
