// Package postgres is the remote storage backend. Every unit of work is one
// database transaction; per-key serialization uses transaction-scoped
// advisory locks.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"

	"github.com/carson-networks/finance-server/internal/storage"
)

// Store is the postgres backend.
type Store struct {
	db *sql.DB
}

var _ storage.Backend = (*Store)(nil)

// Open connects to connStr. The schema is not touched; call Migrate for that.
func Open(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	return New(db), nil
}

// New wraps an existing connection pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying pool, mainly for migrations.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Begin implements storage.Backend.
func (s *Store) Begin(ctx context.Context, session storage.Session, readOnly bool) (storage.Unit, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("postgres: begin: %w", err)
	}
	return &unit{
		tx:     tx,
		exec:   bob.NewTx(tx),
		userID: session.UserID,
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type unit struct {
	tx     *sql.Tx
	exec   bob.Executor
	userID string
}

var _ storage.Unit = (*unit)(nil)

func (u *unit) Accounts() storage.IAccountTable         { return &accountTable{exec: u.exec, userID: u.userID} }
func (u *unit) Transactions() storage.ITransactionTable { return &transactionTable{exec: u.exec, userID: u.userID} }
func (u *unit) Holdings() storage.IHoldingTable         { return &holdingTable{exec: u.exec, userID: u.userID} }
func (u *unit) Trades() storage.ITradeTable             { return &tradeTable{exec: u.exec, userID: u.userID} }

// Lock takes a transaction-scoped advisory lock on (user, kind, key). It is
// released by Commit or Rollback.
func (u *unit) Lock(ctx context.Context, kind storage.Kind, key string) error {
	lockKey := u.userID + "/" + string(kind) + "/" + key
	_, err := bob.Exec(ctx, u.exec, psql.RawQuery("SELECT pg_advisory_xact_lock(hashtext(?))", lockKey))
	if err != nil {
		return fmt.Errorf("postgres: lock %s: %w", lockKey, err)
	}
	return nil
}

func (u *unit) Commit(_ context.Context) error {
	return u.tx.Commit()
}

func (u *unit) Rollback(_ context.Context) error {
	err := u.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
