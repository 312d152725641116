package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// Dialect selects placeholder style, insert-id strategy and DDL.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect maps a configured driver name onto a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "mysql":
		return DialectMySQL, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("unsupported sql dialect %q", name)
}

// Rebind rewrites '?' placeholders into the dialect's form.
// Queries in this package never contain a literal '?'.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) schema() string {
	if d == DialectPostgres {
		return `
		CREATE TABLE IF NOT EXISTS items (
			id          BIGSERIAL PRIMARY KEY,
			name        TEXT NOT NULL,
			sku         TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			price       NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
			quantity    INTEGER NOT NULL CHECK (quantity >= 0),
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
	}
	return `
		CREATE TABLE IF NOT EXISTS items (
			id          BIGINT AUTO_INCREMENT PRIMARY KEY,
			name        VARCHAR(255) NOT NULL,
			sku         VARCHAR(191) NOT NULL,
			description TEXT NOT NULL,
			price       DECIMAL(12,2) NOT NULL DEFAULT 0,
			quantity    INT NOT NULL,
			created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_items_sku (sku),
			CONSTRAINT chk_items_price CHECK (price >= 0),
			CONSTRAINT chk_items_quantity CHECK (quantity >= 0)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
}

// isDuplicateKey recognises unique violations from either driver.
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// likePattern wraps text for a substring LIKE match, escaping wildcards so
// user input is matched literally. Both dialects default to '\' as escape.
func likePattern(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(text) + "%"
}
