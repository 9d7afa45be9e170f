// Package memory implementa los puertos de persistencia en memoria.
// Reproduce las reglas de unicidad de Postgres y se usa en tests de casos de uso y handlers.
package memory

import (
	"sync"

	"github.com/samber/lo"

	"github.com/jhoicas/bizdesk-api/internal/domain"
)

// table filas por ID en orden de inserción. Guarda y devuelve copias.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] { return &table[T]{rows: map[string]T{}} }

func (t *table[T]) insert(id string, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	return v, ok
}

// update reemplaza una fila existente; domain.ErrNotFound si no existe.
func (t *table[T]) update(id string, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return domain.ErrNotFound
	}
	t.rows[id] = v
	return nil
}

func (t *table[T]) delete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(t.rows, id)
	for i, k := range t.order {
		if k == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// filter filas que cumplen keep, en orden de inserción.
func (t *table[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		if v := t.rows[id]; keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T]) find(match func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, id := range t.order {
		if v := t.rows[id]; match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// newestFirst invierte el orden de inserción (equivale a ORDER BY created_at DESC).
func newestFirst[T any](rows []T) []T { return lo.Reverse(rows) }

func ptr[T any](v T) *T { return &v }

func ptrs[T any](rows []T) []*T {
	out := make([]*T, 0, len(rows))
	for _, r := range rows {
		out = append(out, ptr(r))
	}
	return out
}
