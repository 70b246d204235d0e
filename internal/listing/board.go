package listing

import (
	"context"
	"errors"
)

var ErrNoPendingDelete = errors.New("no delete pending")

// DeleteFunc removes a record on the backend.
type DeleteFunc func(ctx context.Context, id uint) error

// Board is a list view: its rows and the map layers drawn for them.
type Board[T any] struct {
	rows    []T
	id      func(T) uint
	layers  map[uint]struct{}
	pending *uint
}

func NewBoard[T any](rows []T, id func(T) uint, withLayer func(T) bool) *Board[T] {
	b := &Board[T]{
		rows:   append([]T(nil), rows...),
		id:     id,
		layers: make(map[uint]struct{}),
	}
	for _, r := range rows {
		if withLayer == nil || withLayer(r) {
			b.layers[id(r)] = struct{}{}
		}
	}
	return b
}

func (b *Board[T]) Rows() []T {
	return append([]T(nil), b.rows...)
}

func (b *Board[T]) HasLayer(id uint) bool {
	_, ok := b.layers[id]
	return ok
}

// RequestDelete opens the confirmation for id.
func (b *Board[T]) RequestDelete(id uint) bool {
	for _, r := range b.rows {
		if b.id(r) == id {
			b.pending = &id
			return true
		}
	}
	return false
}

func (b *Board[T]) Pending() (uint, bool) {
	if b.pending == nil {
		return 0, false
	}
	return *b.pending, true
}

// Cancel closes the confirmation without touching rows or layers.
func (b *Board[T]) Cancel() {
	b.pending = nil
}

// Confirm deletes the pending record. The row and its layer are removed
// only after del succeeds.
func (b *Board[T]) Confirm(ctx context.Context, del DeleteFunc) error {
	if b.pending == nil {
		return ErrNoPendingDelete
	}
	id := *b.pending
	b.pending = nil

	if err := del(ctx, id); err != nil {
		return err
	}

	kept := b.rows[:0]
	for _, r := range b.rows {
		if b.id(r) != id {
			kept = append(kept, r)
		}
	}
	b.rows = kept
	delete(b.layers, id)
	return nil
}
