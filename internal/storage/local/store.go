// Package local is the device-local storage backend: all data lives in memory
// and, when a path is configured, is snapshotted to a JSON file on every commit.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/storage"
)

// maxReaders is the semaphore weight. Readers take 1, a writer takes all of it.
const maxReaders = 1 << 16

type userData struct {
	Accounts     map[uuid.UUID]model.Account     `json:"accounts"`
	Transactions map[uuid.UUID]model.Transaction `json:"transactions"`
	Holdings     map[string]model.StockHolding   `json:"stocks"`
	Trades       map[uuid.UUID]model.StockTrade  `json:"trades"`
}

func newUserData() *userData {
	return &userData{
		Accounts:     make(map[uuid.UUID]model.Account),
		Transactions: make(map[uuid.UUID]model.Transaction),
		Holdings:     make(map[string]model.StockHolding),
		Trades:       make(map[uuid.UUID]model.StockTrade),
	}
}

func (d *userData) clone() *userData {
	c := newUserData()
	for k, v := range d.Accounts {
		c.Accounts[k] = v
	}
	for k, v := range d.Transactions {
		c.Transactions[k] = v
	}
	for k, v := range d.Holdings {
		c.Holdings[k] = v
	}
	for k, v := range d.Trades {
		c.Trades[k] = v
	}
	return c
}

type snapshot struct {
	Users map[string]*userData `json:"users"`
}

// Store is the local backend. Writers hold the whole store exclusively for the
// life of their unit, which serializes every read-modify-write per key.
type Store struct {
	path  string
	sem   *semaphore.Weighted
	users map[string]*userData
	now   func() time.Time
}

var _ storage.Backend = (*Store)(nil)

// NewMemoryStore returns a store that is never written to disk.
func NewMemoryStore() *Store {
	return &Store{
		sem:   semaphore.NewWeighted(maxReaders),
		users: make(map[string]*userData),
		now:   time.Now,
	}
}

// Open loads the store at path, starting empty when the file does not exist yet.
func Open(path string) (*Store, error) {
	s := NewMemoryStore()
	s.path = path
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.WithField("path", path).Info("local.Open.new store")
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("local: read %s: %w", path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("local: decode %s: %w", path, err)
	}
	for id, data := range snap.Users {
		if data == nil {
			continue
		}
		// Fill any collection missing from older files.
		merged := newUserData()
		for k, v := range data.Accounts {
			merged.Accounts[k] = v
		}
		for k, v := range data.Transactions {
			merged.Transactions[k] = v
		}
		for k, v := range data.Holdings {
			merged.Holdings[k] = v
		}
		for k, v := range data.Trades {
			merged.Trades[k] = v
		}
		s.users[id] = merged
	}
	return s, nil
}

// Begin implements storage.Backend.
func (s *Store) Begin(ctx context.Context, session storage.Session, readOnly bool) (storage.Unit, error) {
	weight := int64(maxReaders)
	if readOnly {
		weight = 1
	}
	if err := s.sem.Acquire(ctx, weight); err != nil {
		return nil, fmt.Errorf("local: begin: %w", err)
	}

	data, ok := s.users[session.UserID]
	if !ok {
		data = newUserData()
	}
	if !readOnly {
		data = data.clone()
	}

	return &unit{
		store:    s,
		userID:   session.UserID,
		data:     data,
		readOnly: readOnly,
		weight:   weight,
	}, nil
}

func (s *Store) Close() error {
	return nil
}

// persist writes users with next swapped in for userID. Called with the
// writer's exclusive hold on the semaphore.
func (s *Store) persist(userID string, next *userData) error {
	if s.path == "" {
		return nil
	}

	snap := snapshot{Users: make(map[string]*userData, len(s.users)+1)}
	for id, data := range s.users {
		snap.Users[id] = data
	}
	snap.Users[userID] = next

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("local: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("local: mkdir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("local: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("local: rename %s: %w", tmp, err)
	}
	return nil
}
