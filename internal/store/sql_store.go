package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/01moynul/inventory-tracker/internal/models"
)

const selectItemColumns = `
		SELECT id, name, sku, description, price, quantity, created_at
		FROM items`

// SQLStore implements ItemStore on top of a database/sql pool.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore wraps an open pool. The caller keeps ownership of db.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// EnsureSchema creates the items table when it does not exist yet.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schema()); err != nil {
		return fmt.Errorf("create items table: %w", err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	if err := row.Scan(
		&item.ID, &item.Name, &item.SKU, &item.Description,
		&item.Price, &item.Quantity, &item.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// queryer is the part of *sql.DB and *sql.Tx the read helpers need.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLStore) getItem(ctx context.Context, q queryer, id int64, lock bool) (*models.Item, error) {
	query := selectItemColumns + " WHERE id = ?"
	if lock {
		query += " FOR UPDATE"
	}
	return scanItem(q.QueryRowContext(ctx, s.dialect.Rebind(query), id))
}

func (s *SQLStore) ListItems(ctx context.Context, q models.ItemQuery) ([]*models.Item, error) {
	// 1. --- Build Query ---
	query := selectItemColumns
	var args []any
	if q.Text != "" {
		like := likePattern(q.Text)
		query += " WHERE LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(description) LIKE ?"
		args = append(args, like, like, like)
	}
	query += " ORDER BY id DESC"

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	// 2. --- Scan Rows ---
	items := make([]*models.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *SQLStore) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.getItem(ctx, s.db, id, false)
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, nil
}

func (s *SQLStore) CreateItem(ctx context.Context, in models.NewItem) (*models.Item, error) {
	query := `
		INSERT INTO items (name, sku, description, price, quantity)
		VALUES (?, ?, ?, ?, ?)`
	args := []any{in.Name, in.SKU, in.Description, in.Price, in.Quantity}

	var id int64
	if s.dialect == DialectPostgres {
		// PostgreSQL drivers do not implement LastInsertId.
		err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query+" RETURNING id"), args...).Scan(&id)
		if err != nil {
			return nil, classifyWriteErr("create item", err)
		}
	} else {
		result, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, classifyWriteErr("create item", err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return nil, fmt.Errorf("create item: last insert id: %w", err)
		}
	}

	return s.GetItem(ctx, id)
}

// AdjustQuantity applies delta with a single guarded UPDATE so two concurrent
// adjustments can never both pass the range check against a stale read.
func (s *SQLStore) AdjustQuantity(ctx context.Context, id int64, delta int) (*models.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("adjust item %d: begin: %w", id, err)
	}
	defer tx.Rollback()

	// 1. --- Conditional Update ---
	var affected int64
	if lo, hi, ok := adjustBounds(delta); ok {
		result, err := tx.ExecContext(ctx, s.dialect.Rebind(`
			UPDATE items
			SET quantity = quantity + ?
			WHERE id = ? AND quantity >= ? AND quantity <= ?`),
			delta, id, lo, hi,
		)
		if err != nil {
			return nil, fmt.Errorf("adjust item %d: %w", id, err)
		}
		if affected, err = result.RowsAffected(); err != nil {
			return nil, fmt.Errorf("adjust item %d: rows affected: %w", id, err)
		}
	}

	// 2. --- Explain a Miss ---
	if affected == 0 {
		var qty int
		err := tx.QueryRowContext(ctx, s.dialect.Rebind("SELECT quantity FROM items WHERE id = ?"), id).Scan(&qty)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("adjust item %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("adjust item %d: %w", id, err)
		}
		if qty+delta < 0 {
			return nil, fmt.Errorf("adjust item %d by %d from %d: %w", id, delta, qty, ErrNegativeQuantity)
		}
		return nil, fmt.Errorf("adjust item %d by %d from %d: %w", id, delta, qty, ErrQuantityTooLarge)
	}

	// 3. --- Read Back & Commit ---
	item, err := s.getItem(ctx, tx, id, false)
	if err != nil {
		return nil, fmt.Errorf("adjust item %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("adjust item %d: commit: %w", id, err)
	}
	return item, nil
}

// adjustBounds returns the stored quantities q for which q+delta stays within
// [0, models.MaxQuantity]. Both bounds fit a 32-bit column, so the WHERE clause
// never does arithmetic that could overflow it. ok is false when no quantity
// qualifies.
func adjustBounds(delta int) (lo, hi int, ok bool) {
	if delta > models.MaxQuantity || delta < -models.MaxQuantity {
		return 0, 0, false
	}
	lo = max(-delta, 0)
	hi = min(models.MaxQuantity-delta, models.MaxQuantity)
	return lo, hi, true
}

func (s *SQLStore) UpdateItem(ctx context.Context, id int64, patch models.ItemPatch) (*models.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update item %d: begin: %w", id, err)
	}
	defer tx.Rollback()

	// 1. --- Lock Current Row ---
	current, err := s.getItem(ctx, tx, id, true)
	if err != nil {
		return nil, fmt.Errorf("update item %d: %w", id, err)
	}
	if patch.IsEmpty() {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("update item %d: commit: %w", id, err)
		}
		return current, nil
	}

	// 2. --- Dynamically Build UPDATE Query ---
	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.SKU != nil {
		sets = append(sets, "sku = ?")
		args = append(args, *patch.SKU)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *patch.Price)
	}
	if patch.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *patch.Quantity)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE items SET %s WHERE id = ?", strings.Join(sets, ", "))

	if _, err := tx.ExecContext(ctx, s.dialect.Rebind(query), args...); err != nil {
		return nil, classifyWriteErr(fmt.Sprintf("update item %d", id), err)
	}

	// 3. --- Read Back & Commit ---
	item, err := s.getItem(ctx, tx, id, false)
	if err != nil {
		return nil, fmt.Errorf("update item %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update item %d: commit: %w", id, err)
	}
	return item, nil
}

func (s *SQLStore) DeleteItem(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, s.dialect.Rebind("DELETE FROM items WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item %d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete item %d: %w", id, ErrNotFound)
	}
	return nil
}

func classifyWriteErr(op string, err error) error {
	if isDuplicateKey(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicateSKU)
	}
	return fmt.Errorf("%s: %w", op, err)
}
