package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/code-payments/fee-router/pkg/data/marker"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres marker.Store
func New(db *sql.DB) marker.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Mark implements marker.Store.Mark
func (s *store) Mark(ctx context.Context, address string) (*marker.Record, bool, error) {
	if err := (&marker.Record{Address: address}).Validate(); err != nil {
		return nil, false, err
	}

	m, created, err := dbMark(ctx, s.db, address)
	if err != nil {
		return nil, false, err
	}
	return fromModel(m), created, nil
}

// Get implements marker.Store.Get
func (s *store) Get(ctx context.Context, address string) (*marker.Record, error) {
	m, err := dbGet(ctx, s.db, address)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}
