package storage

import (
	"context"
)

type Writer struct {
	unit Unit
	Reader
}

func NewWriter(unit Unit) *Writer {
	return &Writer{
		unit:   unit,
		Reader: *NewReader(unit),
	}
}

// Lock serializes access to key for the remainder of the writer's unit.
func (w *Writer) Lock(ctx context.Context, kind Kind, key string) error {
	return w.unit.Lock(ctx, kind, key)
}

func (w *Writer) Commit() error {
	return w.unit.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.unit.Rollback(context.Background())
}
