package storage

import (
	"context"
	"fmt"

	"github.com/carson-networks/finance-server/internal/apperr"
)

// Storage is the entry point to whichever backend is configured.
type Storage struct {
	backend Backend
}

func NewStorage(backend Backend) *Storage {
	return &Storage{backend: backend}
}

// Write opens a read-write unit of work for session.
func (s *Storage) Write(ctx context.Context, session Session) (*Writer, error) {
	unit, err := s.begin(ctx, session, false)
	if err != nil {
		return nil, err
	}
	return NewWriter(unit), nil
}

// Read runs fn against a read-only view of the session's data.
func (s *Storage) Read(ctx context.Context, session Session, fn func(*Reader) error) error {
	unit, err := s.begin(ctx, session, true)
	if err != nil {
		return err
	}
	defer func() { _ = unit.Rollback(ctx) }()

	return fn(NewReader(unit))
}

func (s *Storage) Close() error {
	return s.backend.Close()
}

func (s *Storage) begin(ctx context.Context, session Session, readOnly bool) (Unit, error) {
	if session.UserID == "" {
		return nil, fmt.Errorf("storage: no active session: %w", apperr.ErrUnauthenticated)
	}
	return s.backend.Begin(ctx, session, readOnly)
}
