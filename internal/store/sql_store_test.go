package store

import (
	"math"
	"testing"

	"github.com/01moynul/inventory-tracker/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAdjustBounds(t *testing.T) {
	tests := []struct {
		delta  int
		lo, hi int
		ok     bool
	}{
		{delta: 5, lo: 0, hi: models.MaxQuantity - 5, ok: true},
		{delta: -5, lo: 5, hi: models.MaxQuantity, ok: true},
		{delta: models.MaxQuantity, lo: 0, hi: 0, ok: true},
		{delta: -models.MaxQuantity, lo: models.MaxQuantity, hi: models.MaxQuantity, ok: true},
		{delta: math.MinInt32, ok: false},
		{delta: models.MaxQuantity + 1, ok: false},
	}
	for _, tt := range tests {
		lo, hi, ok := adjustBounds(tt.delta)
		assert.Equal(t, tt.ok, ok, "delta %d", tt.delta)
		if !tt.ok {
			continue
		}
		assert.Equal(t, tt.lo, lo, "delta %d", tt.delta)
		assert.Equal(t, tt.hi, hi, "delta %d", tt.delta)
		assert.LessOrEqual(t, hi, math.MaxInt32)
	}
}
