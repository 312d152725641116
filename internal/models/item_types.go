package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Column limits shared by every backend. MySQL sizes name and sku as
// VARCHAR(255) and VARCHAR(191) and description as TEXT (bytes).
const (
	MaxNameLength       = 255
	MaxSKULength        = 191
	MaxDescriptionBytes = 65535
	MaxQuantity         = math.MaxInt32
)

// Item is the model for the 'items' table
type Item struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	SKU         string `json:"sku" db:"sku"`
	Description string `json:"description" db:"description"`

	// --- Pricing & Stock ---
	Price    decimal.Decimal `json:"price" db:"price"`
	Quantity int             `json:"quantity" db:"quantity"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// NewItem is a fully validated create command. Handlers build it, stores persist it.
type NewItem struct {
	Name        string
	SKU         string
	Description string
	Price       decimal.Decimal
	Quantity    int
}

// ItemPatch is a partial update. A nil field keeps the stored value.
type ItemPatch struct {
	Name        *string
	SKU         *string
	Description *string
	Price       *decimal.Decimal
	Quantity    *int
}

// IsEmpty reports whether the patch would change nothing.
func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.SKU == nil && p.Description == nil && p.Price == nil && p.Quantity == nil
}

// Apply returns a copy of item with the patch fields written over it.
func (p ItemPatch) Apply(item Item) Item {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.SKU != nil {
		item.SKU = *p.SKU
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	return item
}

// ItemQuery filters the item listing. Text is already trimmed and lower-cased;
// an empty Text matches every item.
type ItemQuery struct {
	Text string
}
