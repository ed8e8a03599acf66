// Package resourcetest provides an in-memory resource.Repository and a
// fault-injecting media store for service and handler tests.
package resourcetest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/navidved/storefront/internal/resource"
)

// Hooks adapt Memory to a concrete record type.
type Hooks[T resource.Record] struct {
	// Clone returns a deep copy so callers cannot mutate stored state.
	Clone func(T) T
	// Assign sets repository-owned fields on create.
	Assign func(rec T, id string, now time.Time)
	// Touch refreshes the modification time on update.
	Touch func(rec T, now time.Time)
	// Category returns the listing category of rec.
	Category func(T) string
	// UpdatedAt returns the last modification time of rec.
	UpdatedAt func(T) time.Time
}

// Memory is a goroutine-safe Repository. Insertion order stands in for recency.
type Memory[T resource.Record] struct {
	hooks Hooks[T]

	mu    sync.Mutex
	items map[string]T
	order []string
	clock time.Time

	// CreateErr and UpdateErr, when set, make the matching call fail.
	CreateErr error
	UpdateErr error
	// BlockWrites makes Create and Update wait for their context to end.
	BlockWrites bool
}

// NewMemory returns an empty repository.
func NewMemory[T resource.Record](hooks Hooks[T]) *Memory[T] {
	return &Memory[T]{
		hooks: hooks,
		items: make(map[string]T),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Len returns the number of stored records.
func (m *Memory[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Memory[T]) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *Memory[T]) write(ctx context.Context, failWith error) error {
	if m.BlockWrites {
		<-ctx.Done()
		return ctx.Err()
	}
	return failWith
}

func (m *Memory[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := m.write(ctx, m.CreateErr); err != nil {
		return zero, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.hooks.Clone(rec)
	id := uuid.NewString()
	m.hooks.Assign(stored, id, m.tick())
	m.items[id] = stored
	m.order = append(m.order, id)
	return m.hooks.Clone(stored), nil
}

func (m *Memory[T]) GetByID(_ context.Context, id string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.items[id]
	if !ok {
		var zero T
		return zero, resource.ErrNotFound
	}
	return m.hooks.Clone(rec), nil
}

func (m *Memory[T]) Update(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := m.write(ctx, m.UpdateErr); err != nil {
		return zero, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[rec.GetID()]; !ok {
		return zero, resource.ErrNotFound
	}
	stored := m.hooks.Clone(rec)
	m.hooks.Touch(stored, m.tick())
	m.items[rec.GetID()] = stored
	return m.hooks.Clone(stored), nil
}

func (m *Memory[T]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return resource.ErrNotFound
	}
	delete(m.items, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory[T]) List(_ context.Context, f resource.Filter, offset, limit int) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []T
	skipped := 0
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		rec := m.items[m.order[i]]
		if f.Category != "" && m.hooks.Category(rec) != f.Category {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, m.hooks.Clone(rec))
	}
	return out, nil
}

func (m *Memory[T]) Count(_ context.Context, f resource.Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, rec := range m.items {
		if f.Category == "" || m.hooks.Category(rec) == f.Category {
			n++
		}
	}
	return n, nil
}

func (m *Memory[T]) Stamps(_ context.Context) ([]resource.Stamp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]resource.Stamp, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, resource.Stamp{ID: id, UpdatedAt: m.hooks.UpdatedAt(m.items[id])})
	}
	return out, nil
}
