package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/code-payments/fee-router/pkg/data/ledger"
	pgutil "github.com/code-payments/fee-router/pkg/database/postgres"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres ledger.Store
func New(db *sql.DB) ledger.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements ledger.Store.Put
func (s *store) Put(ctx context.Context, record *ledger.Record) error {
	m, err := toModel(record)
	if err != nil {
		return err
	}

	if err := m.dbPut(ctx, s.db); err != nil {
		return err
	}

	fromModel(m).CopyTo(record)
	return nil
}

// Get implements ledger.Store.Get
func (s *store) Get(ctx context.Context, address string) (*ledger.Record, error) {
	m, err := dbGet(ctx, s.db, address)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}

// TransferNative implements ledger.Store.TransferNative
func (s *store) TransferNative(ctx context.Context, from, to string, amount uint64) error {
	return s.retryable(ctx, func() error {
		return dbTransferNative(ctx, s.db, from, to, amount)
	})
}

// TransferToken implements ledger.Store.TransferToken
func (s *store) TransferToken(ctx context.Context, mint, from, to string, amount uint64, decimals uint8, authority string) error {
	return s.retryable(ctx, func() error {
		return dbTransferToken(ctx, s.db, mint, from, to, amount, decimals, authority)
	})
}

// ExecuteInTx implements ledger.Store.ExecuteInTx
func (s *store) ExecuteInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if pgutil.IsInTx(ctx) {
		return fn(ctx)
	}
	return pgutil.ExecuteTxWithinCtx(ctx, s.db, sql.LevelDefault, fn)
}

// retryable retries deadlocked transfers, unless they run within an outer
// transaction that has already been aborted
func (s *store) retryable(ctx context.Context, fn func() error) error {
	if pgutil.IsInTx(ctx) {
		return fn()
	}
	return pgutil.ExecuteRetryable(ctx, fn)
}
