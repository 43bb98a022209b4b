package catalog

import (
	"sync"

	"github.com/dmitrijs2005/butcherdesk/internal/common"
	"github.com/google/uuid"
)

// Collection is an insertion-ordered, mutex-guarded set of T keyed by id.
type Collection[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
	id    func(*T) *string
}

// NewCollection takes an accessor for the id field of T.
func NewCollection[T any](id func(*T) *string) *Collection[T] {
	return &Collection[T]{items: map[string]T{}, id: id}
}

// List returns the items accepted by match (all items when match is nil).
func (c *Collection[T]) List(match func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		item := c.items[id]
		if match == nil || match(item) {
			out = append(out, item)
		}
	}
	return out
}

func (c *Collection[T]) Get(id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, common.ErrorNotFound
	}
	return item, nil
}

// Create stores item under a fresh uuid and returns the stored copy.
func (c *Collection[T]) Create(item T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.NewString()
	*c.id(&item) = id
	c.items[id] = item
	c.order = append(c.order, id)
	return item
}

// Replace overwrites the item with the given id.
func (c *Collection[T]) Replace(id string, item T) (T, error) {
	return c.Update(id, func(cur *T) error {
		*cur = item
		return nil
	})
}

// Update applies fn to the stored item under the write lock. The id cannot
// be changed by fn.
func (c *Collection[T]) Update(id string, fn func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, common.ErrorNotFound
	}
	if err := fn(&item); err != nil {
		var zero T
		return zero, err
	}
	*c.id(&item) = id
	c.items[id] = item
	return item, nil
}

func (c *Collection[T]) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
