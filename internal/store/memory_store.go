package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/01moynul/inventory-tracker/internal/models"
)

// MemoryStore keeps items in process. Every method holds the mutex for its
// whole read-check-write sequence, which gives AdjustQuantity the same
// atomicity the SQL store gets from its conditional UPDATE.
type MemoryStore struct {
	mu     sync.Mutex
	items  map[int64]models.Item
	skus   map[string]int64
	nextID int64
	now    func() time.Time
}

// NewMemoryStore returns an empty store whose first item gets id 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[int64]models.Item),
		skus:  make(map[string]int64),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) ListItems(ctx context.Context, q models.ItemQuery) ([]*models.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]*models.Item, 0, len(s.items))
	for _, item := range s.items {
		if q.Text != "" && !matchesText(item, q.Text) {
			continue
		}
		item := item
		items = append(items, &item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func matchesText(item models.Item, text string) bool {
	return strings.Contains(strings.ToLower(item.Name), text) ||
		strings.Contains(strings.ToLower(item.SKU), text) ||
		strings.Contains(strings.ToLower(item.Description), text)
}

func (s *MemoryStore) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("get item %d: %w", id, ErrNotFound)
	}
	return &item, nil
}

func (s *MemoryStore) CreateItem(ctx context.Context, in models.NewItem) (*models.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.skus[in.SKU]; taken {
		return nil, fmt.Errorf("create item: %w", ErrDuplicateSKU)
	}

	s.nextID++
	item := models.Item{
		ID:          s.nextID,
		Name:        in.Name,
		SKU:         in.SKU,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		CreatedAt:   s.now(),
	}
	s.items[item.ID] = item
	s.skus[item.SKU] = item.ID
	return &item, nil
}

func (s *MemoryStore) AdjustQuantity(ctx context.Context, id int64, delta int) (*models.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("adjust item %d: %w", id, ErrNotFound)
	}
	if item.Quantity+delta < 0 {
		return nil, fmt.Errorf("adjust item %d by %d from %d: %w", id, delta, item.Quantity, ErrNegativeQuantity)
	}
	if item.Quantity+delta > models.MaxQuantity {
		return nil, fmt.Errorf("adjust item %d by %d from %d: %w", id, delta, item.Quantity, ErrQuantityTooLarge)
	}
	item.Quantity += delta
	s.items[id] = item
	return &item, nil
}

func (s *MemoryStore) UpdateItem(ctx context.Context, id int64, patch models.ItemPatch) (*models.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("update item %d: %w", id, ErrNotFound)
	}
	if patch.SKU != nil && *patch.SKU != current.SKU {
		if _, taken := s.skus[*patch.SKU]; taken {
			return nil, fmt.Errorf("update item %d: %w", id, ErrDuplicateSKU)
		}
	}

	updated := patch.Apply(current)
	if updated.SKU != current.SKU {
		delete(s.skus, current.SKU)
		s.skus[updated.SKU] = id
	}
	s.items[id] = updated
	return &updated, nil
}

func (s *MemoryStore) DeleteItem(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return fmt.Errorf("delete item %d: %w", id, ErrNotFound)
	}
	delete(s.skus, item.SKU)
	delete(s.items, id)
	return nil
}
