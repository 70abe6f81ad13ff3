package pg

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestExecuteRetryable(t *testing.T) {
	deadlock := &pgconn.PgError{Code: pgerrcode.DeadlockDetected}

	var calls int
	err := ExecuteRetryable(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.Wrap(deadlock, "transfer")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = ExecuteRetryable(context.Background(), func() error {
		calls++
		return deadlock
	})
	assert.Equal(t, deadlock, err)
	assert.Equal(t, maxSerializationRetries+1, calls)

	// Other failures aren't retried
	calls = 0
	err = ExecuteRetryable(context.Background(), func() error {
		calls++
		return sql.ErrNoRows
	})
	assert.Equal(t, sql.ErrNoRows, err)
	assert.Equal(t, 1, calls)
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsSerializationFailure(&pgconn.PgError{Code: pgerrcode.SerializationFailure}))
	assert.True(t, IsSerializationFailure(errors.Wrap(&pgconn.PgError{Code: pgerrcode.DeadlockDetected}, "wrapped")))
	assert.False(t, IsSerializationFailure(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.True(t, IsSerializationFailure(errors.Wrap(pgx.PgError{Code: pgerrcode.SerializationFailure}, "nrpgx")))
	assert.False(t, IsSerializationFailure(errors.New("other")))
	assert.False(t, IsSerializationFailure(nil))

	notFound := errors.New("not found")
	assert.Equal(t, notFound, CheckNoRows(errors.Wrap(sql.ErrNoRows, "query"), notFound))
	assert.Nil(t, CheckNoRows(nil, notFound))

	other := errors.New("other")
	assert.Equal(t, other, CheckNoRows(other, notFound))
}

func TestIsInTx(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsInTx(ctx))

	_, err := getTxFromCtx(ctx, sql.LevelReadCommitted)
	assert.Equal(t, ErrNotInTx, err)

	ctx = context.WithValue(ctx, txContextKey{}, &txContext{isolation: sql.LevelReadCommitted})
	assert.True(t, IsInTx(ctx))

	_, err = getTxFromCtx(ctx, sql.LevelReadCommitted)
	assert.NoError(t, err)

	_, err = getTxFromCtx(ctx, sql.LevelSerializable)
	assert.Error(t, err)
}
