package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/code-payments/fee-router/pkg/data/ledger"
	pgutil "github.com/code-payments/fee-router/pkg/database/postgres"
)

const (
	tableName = "feerouter__core_ledgeraccount"

	allColumns = `id, address, kind, mint, owner, delegate, decimals, balance, is_frozen, last_updated_at, created_at`
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Address string `db:"address"`
	Kind    uint8  `db:"kind"`

	Mint     sql.NullString `db:"mint"`
	Owner    sql.NullString `db:"owner"`
	Delegate sql.NullString `db:"delegate"`

	Decimals uint8 `db:"decimals"`

	Balance  int64 `db:"balance"`
	IsFrozen bool  `db:"is_frozen"`

	LastUpdatedAt time.Time `db:"last_updated_at"`
	CreatedAt     time.Time `db:"created_at"`
}

func toModel(obj *ledger.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Address: obj.Address,
		Kind:    uint8(obj.Kind),

		Mint:     toNullString(obj.Mint),
		Owner:    toNullString(obj.Owner),
		Delegate: toNullString(obj.Delegate),

		Decimals: obj.Decimals,

		Balance:  int64(obj.Balance),
		IsFrozen: obj.IsFrozen,

		LastUpdatedAt: obj.LastUpdatedAt,
		CreatedAt:     obj.CreatedAt,
	}, nil
}

func fromModel(obj *model) *ledger.Record {
	return &ledger.Record{
		Id: uint64(obj.Id.Int64),

		Address: obj.Address,
		Kind:    ledger.Kind(obj.Kind),

		Mint:     obj.Mint.String,
		Owner:    obj.Owner.String,
		Delegate: obj.Delegate.String,

		Decimals: obj.Decimals,

		Balance:  uint64(obj.Balance),
		IsFrozen: obj.IsFrozen,

		LastUpdatedAt: obj.LastUpdatedAt,
		CreatedAt:     obj.CreatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		now := time.Now()
		m.LastUpdatedAt = now
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}

		query := `INSERT INTO ` + tableName + `
			(address, kind, mint, owner, delegate, decimals, balance, is_frozen, last_updated_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)

			ON CONFLICT (address)
			DO UPDATE
				SET kind = $2, mint = $3, owner = $4, delegate = $5, decimals = $6, balance = $7, is_frozen = $8, last_updated_at = $9
				WHERE ` + tableName + `.address = $1

			RETURNING ` + allColumns

		return tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.Kind,
			m.Mint,
			m.Owner,
			m.Delegate,
			m.Decimals,
			m.Balance,
			m.IsFrozen,
			m.LastUpdatedAt,
			m.CreatedAt,
		).StructScan(m)
	})
}

func dbGet(ctx context.Context, db *sqlx.DB, address string) (*model, error) {
	res := &model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE address = $1
		LIMIT 1`

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, res, query, address)
	})
	if err != nil {
		return nil, pgutil.CheckNoRows(err, ledger.ErrAccountNotFound)
	}
	return res, nil
}

// dbGetForUpdate locks the rows for the provided addresses in a consistent
// order and returns them keyed by address
func dbGetForUpdate(ctx context.Context, tx *sqlx.Tx, addresses ...string) (map[string]*model, error) {
	query, args, err := sqlx.In(`SELECT `+allColumns+` FROM `+tableName+`
		WHERE address IN (?)
		ORDER BY address
		FOR UPDATE`, addresses)
	if err != nil {
		return nil, err
	}

	var models []*model
	err = tx.SelectContext(ctx, &models, tx.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	res := make(map[string]*model)
	for _, m := range models {
		res[m.Address] = m
	}

	for _, address := range addresses {
		if _, ok := res[address]; !ok {
			return nil, ledger.ErrAccountNotFound
		}
	}

	return res, nil
}

func dbUpdateBalances(ctx context.Context, tx *sqlx.Tx, from, to string, amount uint64) error {
	if from == to {
		return nil
	}

	now := time.Now()

	query := `UPDATE ` + tableName + `
		SET balance = balance - $2, last_updated_at = $3
		WHERE address = $1`
	if _, err := tx.ExecContext(ctx, query, from, int64(amount), now); err != nil {
		return err
	}

	query = `UPDATE ` + tableName + `
		SET balance = balance + $2, last_updated_at = $3
		WHERE address = $1`
	_, err := tx.ExecContext(ctx, query, to, int64(amount), now)
	return err
}

func dbTransferNative(ctx context.Context, db *sqlx.DB, from, to string, amount uint64) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		models, err := dbGetForUpdate(ctx, tx, from, to)
		if err != nil {
			return err
		}

		err = ledger.ValidateNativeTransfer(fromModel(models[from]), fromModel(models[to]), amount)
		if err != nil {
			return err
		}

		return dbUpdateBalances(ctx, tx, from, to, amount)
	})
}

func dbTransferToken(ctx context.Context, db *sqlx.DB, mint, from, to string, amount uint64, decimals uint8, authority string) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		models, err := dbGetForUpdate(ctx, tx, mint, from, to)
		if err != nil {
			return err
		}

		err = ledger.ValidateTokenTransfer(
			fromModel(models[mint]),
			fromModel(models[from]),
			fromModel(models[to]),
			amount,
			decimals,
			authority,
		)
		if err != nil {
			return err
		}

		return dbUpdateBalances(ctx, tx, from, to, amount)
	})
}

func toNullString(value string) sql.NullString {
	return sql.NullString{
		String: value,
		Valid:  len(value) > 0,
	}
}
