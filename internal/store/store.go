// Package store persists inventory items.
//
// Handlers depend only on ItemStore; SQLStore backs it with MySQL or
// PostgreSQL and MemoryStore keeps everything in process.
package store

import (
	"context"
	"errors"

	"github.com/01moynul/inventory-tracker/internal/models"
)

var (
	// ErrNotFound is returned when no item has the requested id.
	ErrNotFound = errors.New("item not found")

	// ErrDuplicateSKU is returned when an insert or update collides with an existing sku.
	ErrDuplicateSKU = errors.New("duplicate sku")

	// ErrNegativeQuantity is returned when an adjustment would take quantity below zero.
	// The stored item is left untouched.
	ErrNegativeQuantity = errors.New("quantity cannot go below 0")

	// ErrQuantityTooLarge is returned when an adjustment would push quantity
	// past models.MaxQuantity.
	ErrQuantityTooLarge = errors.New("quantity cannot exceed 2147483647")
)

// ItemStore is the storage contract shared by every backend.
type ItemStore interface {
	// ListItems returns matching items, newest (highest id) first.
	ListItems(ctx context.Context, q models.ItemQuery) ([]*models.Item, error)
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	CreateItem(ctx context.Context, in models.NewItem) (*models.Item, error)
	// AdjustQuantity adds delta to the stored quantity as one atomic step.
	AdjustQuantity(ctx context.Context, id int64, delta int) (*models.Item, error)
	UpdateItem(ctx context.Context, id int64, patch models.ItemPatch) (*models.Item, error)
	DeleteItem(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
