package pg

import (
	"context"
	"database/sql"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var (
	ErrAlreadyInTx = errors.New("already executing in existing db tx")
	ErrNotInTx     = errors.New("not executing in existing db tx")
)

const (
	maxSerializationRetries = 5
	serializationRetryDelay = 10 * time.Millisecond
	maxSerializationBackoff = 250 * time.Millisecond
)

type txContextKey struct{}

// txContext is the transaction started by ExecuteTxWithinCtx
type txContext struct {
	tx        *sqlx.Tx
	isolation sql.IsolationLevel
}

// ExecuteRetryable runs fn again, with backoff, while it fails on a
// serialization conflict with a concurrent transaction. Any other error is
// returned as is.
func ExecuteRetryable(ctx context.Context, fn func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = serializationRetryDelay
	policy.MaxInterval = maxSerializationBackoff

	return backoff.Retry(func() error {
		err := fn()
		if err != nil && !IsSerializationFailure(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, maxSerializationRetries), ctx))
}

// IsInTx returns whether ctx carries a transaction started by
// ExecuteTxWithinCtx
func IsInTx(ctx context.Context) bool {
	_, ok := ctx.Value(txContextKey{}).(*txContext)
	return ok
}

// ExecuteTxWithinCtx starts a transaction that's passed to fn through the
// context, and commits it if fn succeeds. Nesting is not supported.
func ExecuteTxWithinCtx(ctx context.Context, db *sqlx.DB, isolation sql.IsolationLevel, fn func(context.Context) error) error {
	if IsInTx(ctx) {
		return ErrAlreadyInTx
	}

	isolation = withDefaultIsolation(isolation)

	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: isolation})
	if err != nil {
		return err
	}

	err = fn(context.WithValue(ctx, txContextKey{}, &txContext{
		tx:        tx,
		isolation: isolation,
	}))
	return finish(tx, err)
}

// ExecuteInTx runs fn within the transaction carried by ctx, if any. Otherwise
// fn runs in a new transaction that's committed or rolled back here.
func ExecuteInTx(ctx context.Context, db *sqlx.DB, isolation sql.IsolationLevel, fn func(tx *sqlx.Tx) error) error {
	isolation = withDefaultIsolation(isolation)

	tx, err := getTxFromCtx(ctx, isolation)
	if err == nil {
		return fn(tx)
	} else if err != ErrNotInTx {
		return err
	}

	tx, err = db.BeginTxx(ctx, &sql.TxOptions{Isolation: isolation})
	if err != nil {
		return err
	}
	return finish(tx, fn(tx))
}

// finish commits tx when err is nil, and rolls it back otherwise. A rollback
// is always needed for sql.DB to release the connection.
func finish(tx *sqlx.Tx, err error) error {
	if err == nil {
		return tx.Commit()
	}

	if rollbackErr := tx.Rollback(); rollbackErr != nil {
		return errors.Wrap(rollbackErr, "failed to rollback transaction")
	}
	return err
}

func getTxFromCtx(ctx context.Context, desiredIsolation sql.IsolationLevel) (*sqlx.Tx, error) {
	txCtx, ok := ctx.Value(txContextKey{}).(*txContext)
	if !ok {
		return nil, ErrNotInTx
	}

	if txCtx.isolation < desiredIsolation {
		return nil, errors.Errorf("current tx isolation %s is below %s", txCtx.isolation, desiredIsolation)
	}
	return txCtx.tx, nil
}

func withDefaultIsolation(isolation sql.IsolationLevel) sql.IsolationLevel {
	if isolation == sql.LevelDefault {
		return sql.LevelReadCommitted
	}
	return isolation
}
