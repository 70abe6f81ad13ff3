package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/code-payments/fee-router/pkg/data/marker"
	pgutil "github.com/code-payments/fee-router/pkg/database/postgres"
)

const (
	tableName = "feerouter__core_initmarker"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Address string `db:"address"`

	InitializedAt time.Time `db:"initialized_at"`
}

func fromModel(obj *model) *marker.Record {
	return &marker.Record{
		Id: uint64(obj.Id.Int64),

		Address: obj.Address,

		InitializedAt: obj.InitializedAt,
	}
}

// dbMark inserts the marker, leaving any existing one untouched. The returned
// bool is whether this call created it.
func dbMark(ctx context.Context, db *sqlx.DB, address string) (*model, bool, error) {
	res := &model{
		Address:       address,
		InitializedAt: time.Now(),
	}

	var created bool
	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(address, initialized_at)
			VALUES ($1, $2)

			ON CONFLICT (address) DO NOTHING

			RETURNING id, address, initialized_at`

		err := tx.QueryRowxContext(ctx, query, res.Address, res.InitializedAt).StructScan(res)
		if err == nil {
			created = true
			return nil
		} else if !pgutil.IsNoRows(err) {
			return err
		}

		query = `SELECT id, address, initialized_at FROM ` + tableName + `
			WHERE address = $1
			LIMIT 1`

		return tx.GetContext(ctx, res, query, address)
	})
	if err != nil {
		return nil, false, err
	}

	return res, created, nil
}

func dbGet(ctx context.Context, db *sqlx.DB, address string) (*model, error) {
	res := &model{}

	query := `SELECT id, address, initialized_at FROM ` + tableName + `
		WHERE address = $1
		LIMIT 1`

	err := db.GetContext(ctx, res, query, address)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, marker.ErrMarkerNotFound)
	}
	return res, nil
}
