package handlers

import (
	"time"

	"github.com/01moynul/inventory-tracker/internal/store"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Items store.ItemStore  // Item persistence (SQL or in-memory)
	Now   func() time.Time // Clock for generated SKUs; defaults to time.Now
}

// New wires handlers to an item store.
func New(items store.ItemStore) *Handlers {
	return &Handlers{Items: items, Now: time.Now}
}
