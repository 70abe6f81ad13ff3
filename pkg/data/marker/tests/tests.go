package tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fee-router/pkg/data/marker"
)

// ExecuteInTxFunc runs fn within the transaction the store under test takes
// part in
type ExecuteInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

func RunTests(t *testing.T, s marker.Store, executeInTx ExecuteInTxFunc, teardown func()) {
	for _, tf := range []func(t *testing.T, s marker.Store){
		testHappyPath,
		testConcurrentMark,
	} {
		tf(t, s)
		teardown()
	}

	testMarkRolledBack(t, s, executeInTx)
	teardown()
}

func testHappyPath(t *testing.T, s marker.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		ctx := context.Background()

		start := time.Now()
		time.Sleep(time.Millisecond)

		_, err := s.Get(ctx, "router_state")
		assert.Equal(t, marker.ErrMarkerNotFound, err)

		_, _, err = s.Mark(ctx, "")
		assert.Error(t, err)

		first, created, err := s.Mark(ctx, "router_state")
		require.NoError(t, err)
		require.NoError(t, first.Validate())
		assert.True(t, created)
		assert.True(t, first.Id > 0)
		assert.Equal(t, "router_state", first.Address)
		assert.True(t, first.InitializedAt.After(start))

		time.Sleep(time.Millisecond)

		for i := 0; i < 3; i++ {
			second, created, err := s.Mark(ctx, "router_state")
			require.NoError(t, err)
			assert.False(t, created)
			assert.Equal(t, first.Id, second.Id)
			assert.Equal(t, first.Address, second.Address)
			assert.Equal(t, first.InitializedAt.Unix(), second.InitializedAt.Unix())
		}

		actual, err := s.Get(ctx, "router_state")
		require.NoError(t, err)
		assert.Equal(t, first.Id, actual.Id)
		assert.Equal(t, first.InitializedAt.Unix(), actual.InitializedAt.Unix())

		_, err = s.Get(ctx, "other")
		assert.Equal(t, marker.ErrMarkerNotFound, err)
	})
}

func testConcurrentMark(t *testing.T, s marker.Store) {
	t.Run("testConcurrentMark", func(t *testing.T) {
		ctx := context.Background()

		var wg sync.WaitGroup
		var mu sync.Mutex
		var createdCount int
		ids := make(map[uint64]struct{})

		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				record, created, err := s.Mark(ctx, "router_state")
				if !assert.NoError(t, err) {
					return
				}

				mu.Lock()
				defer mu.Unlock()

				if created {
					createdCount++
				}
				ids[record.Id] = struct{}{}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, createdCount)
		assert.Len(t, ids, 1)
	})
}

func testMarkRolledBack(t *testing.T, s marker.Store, executeInTx ExecuteInTxFunc) {
	t.Run("testMarkRolledBack", func(t *testing.T) {
		ctx := context.Background()
		errAborted := errors.New("aborted")

		err := executeInTx(ctx, func(ctx context.Context) error {
			_, created, err := s.Mark(ctx, "router_state")
			require.NoError(t, err)
			assert.True(t, created)
			return errAborted
		})
		assert.Equal(t, errAborted, err)

		_, err = s.Get(ctx, "router_state")
		assert.Equal(t, marker.ErrMarkerNotFound, err)

		first, created, err := s.Mark(ctx, "router_state")
		require.NoError(t, err)
		assert.True(t, created)

		err = executeInTx(ctx, func(ctx context.Context) error {
			_, created, err := s.Mark(ctx, "router_state")
			require.NoError(t, err)
			assert.False(t, created)
			return errAborted
		})
		assert.Equal(t, errAborted, err)

		actual, err := s.Get(ctx, "router_state")
		require.NoError(t, err)
		assert.Equal(t, first.Id, actual.Id)
	})
}
