package tests

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fee-router/pkg/data/ledger"
)

func RunTests(t *testing.T, s ledger.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s ledger.Store){
		testPutAndGet,
		testNativeTransfer,
		testTokenTransfer,
		testTransactionRollback,
		testNestedTransaction,
	} {
		tf(t, s)
		teardown()
	}
}

func testPutAndGet(t *testing.T, s ledger.Store) {
	t.Run("testPutAndGet", func(t *testing.T) {
		ctx := context.Background()

		start := time.Now()
		time.Sleep(time.Millisecond)

		_, err := s.Get(ctx, "native1")
		assert.Equal(t, ledger.ErrAccountNotFound, err)

		assert.Error(t, s.Put(ctx, &ledger.Record{Address: "invalid", Kind: ledger.KindUnknown}))
		assert.Error(t, s.Put(ctx, &ledger.Record{Address: "invalid", Kind: ledger.KindToken, Mint: "mint"}))
		assert.Error(t, s.Put(ctx, &ledger.Record{Address: "invalid", Kind: ledger.KindNative, Balance: ledger.MaxBalance + 1}))

		expected := &ledger.Record{
			Address: "native1",
			Kind:    ledger.KindNative,
			Balance: 100,
		}
		require.NoError(t, s.Put(ctx, expected))
		assert.True(t, expected.Id > 0)
		assert.True(t, expected.CreatedAt.After(start))

		actual, err := s.Get(ctx, "native1")
		require.NoError(t, err)
		require.NoError(t, actual.Validate())
		assert.Equal(t, expected.Id, actual.Id)
		assert.Equal(t, "native1", actual.Address)
		assert.Equal(t, ledger.KindNative, actual.Kind)
		assert.EqualValues(t, 100, actual.Balance)
		assert.False(t, actual.IsFrozen)
		assert.True(t, actual.LastUpdatedAt.After(start))
		assert.True(t, actual.CreatedAt.After(start))

		start = time.Now()
		time.Sleep(time.Millisecond)

		expected.Balance = 250
		expected.IsFrozen = true
		require.NoError(t, s.Put(ctx, expected))

		actual, err = s.Get(ctx, "native1")
		require.NoError(t, err)
		assert.Equal(t, expected.Id, actual.Id)
		assert.EqualValues(t, 250, actual.Balance)
		assert.True(t, actual.IsFrozen)
		assert.True(t, actual.LastUpdatedAt.After(start))
		assert.True(t, actual.CreatedAt.Before(start))

		token := &ledger.Record{
			Address:  "token1",
			Kind:     ledger.KindToken,
			Mint:     "mint1",
			Owner:    "owner1",
			Delegate: "delegate1",
			Decimals: 6,
			Balance:  1,
		}
		require.NoError(t, s.Put(ctx, token))

		actual, err = s.Get(ctx, "token1")
		require.NoError(t, err)
		assert.Equal(t, ledger.KindToken, actual.Kind)
		assert.Equal(t, "mint1", actual.Mint)
		assert.Equal(t, "owner1", actual.Owner)
		assert.Equal(t, "delegate1", actual.Delegate)
		assert.EqualValues(t, 6, actual.Decimals)
		assert.EqualValues(t, 1, actual.Balance)
		assert.True(t, actual.IsAuthority("owner1"))
		assert.True(t, actual.IsAuthority("delegate1"))
		assert.False(t, actual.IsAuthority("other"))
		assert.False(t, actual.IsAuthority(""))
	})
}

func testNativeTransfer(t *testing.T, s ledger.Store) {
	t.Run("testNativeTransfer", func(t *testing.T) {
		ctx := context.Background()

		putNative(t, s, "source", 10000)
		putNative(t, s, "user", 0)
		putNative(t, s, "platform", ledger.MaxBalance-100)
		putMint(t, s, "mint", 6)

		assert.Equal(t, ledger.ErrAccountNotFound, s.TransferNative(ctx, "missing", "user", 1))
		assert.Equal(t, ledger.ErrAccountNotFound, s.TransferNative(ctx, "source", "missing", 1))
		assert.Equal(t, ledger.ErrInvalidAccountKind, s.TransferNative(ctx, "source", "mint", 1))
		assert.Equal(t, ledger.ErrInsufficientFunds, s.TransferNative(ctx, "source", "user", 10001))
		assert.Equal(t, ledger.ErrBalanceOverflow, s.TransferNative(ctx, "source", "platform", 101))
		assertBalance(t, s, "source", 10000)
		assertBalance(t, s, "user", 0)

		require.NoError(t, s.TransferNative(ctx, "source", "user", 9800))
		require.NoError(t, s.TransferNative(ctx, "source", "platform", 100))
		require.NoError(t, s.TransferNative(ctx, "source", "source", 50))
		require.NoError(t, s.TransferNative(ctx, "source", "user", 0))

		assertBalance(t, s, "source", 100)
		assertBalance(t, s, "user", 9800)
		assertBalance(t, s, "platform", ledger.MaxBalance)

		frozen, err := s.Get(ctx, "user")
		require.NoError(t, err)
		frozen.IsFrozen = true
		require.NoError(t, s.Put(ctx, frozen))

		assert.Equal(t, ledger.ErrAccountFrozen, s.TransferNative(ctx, "source", "user", 1))
		assert.Equal(t, ledger.ErrAccountFrozen, s.TransferNative(ctx, "user", "source", 1))
		assertBalance(t, s, "source", 100)
		assertBalance(t, s, "user", 9800)
	})
}

func testTokenTransfer(t *testing.T, s ledger.Store) {
	t.Run("testTokenTransfer", func(t *testing.T) {
		ctx := context.Background()

		putMint(t, s, "mint", 6)
		putMint(t, s, "other_mint", 6)
		putNative(t, s, "native", 100)
		putToken(t, s, "source", "mint", "source_owner", "source_delegate", 10000)
		putToken(t, s, "user", "mint", "user_owner", "", 0)
		putToken(t, s, "platform", "mint", "platform_owner", "", 0)
		putToken(t, s, "other", "other_mint", "user_owner", "", 0)

		for _, tc := range []struct {
			mint, from, to, authority string
			amount                    uint64
			decimals                  uint8
			expected                  error
		}{
			{"missing", "source", "user", "source_owner", 1, 6, ledger.ErrAccountNotFound},
			{"mint", "missing", "user", "source_owner", 1, 6, ledger.ErrAccountNotFound},
			{"mint", "source", "missing", "source_owner", 1, 6, ledger.ErrAccountNotFound},
			{"native", "source", "user", "source_owner", 1, 6, ledger.ErrInvalidAccountKind},
			{"mint", "native", "user", "source_owner", 1, 6, ledger.ErrInvalidAccountKind},
			{"mint", "source", "user", "source_owner", 10001, 6, ledger.ErrInsufficientFunds},
			{"mint", "source", "other", "source_owner", 1, 6, ledger.ErrMintMismatch},
			{"other_mint", "source", "user", "source_owner", 1, 6, ledger.ErrMintMismatch},
			{"mint", "source", "user", "source_owner", 1, 9, ledger.ErrDecimalsMismatch},
			{"mint", "source", "user", "user_owner", 1, 6, ledger.ErrOwnerMismatch},
			{"mint", "source", "user", "", 1, 6, ledger.ErrOwnerMismatch},
		} {
			assert.Equal(t, tc.expected, s.TransferToken(ctx, tc.mint, tc.from, tc.to, tc.amount, tc.decimals, tc.authority))
		}
		assertBalance(t, s, "source", 10000)
		assertBalance(t, s, "user", 0)

		require.NoError(t, s.TransferToken(ctx, "mint", "source", "user", 9800, 6, "source_owner"))
		require.NoError(t, s.TransferToken(ctx, "mint", "source", "platform", 150, 6, "source_delegate"))
		require.NoError(t, s.TransferToken(ctx, "mint", "source", "platform", 50, 6, "source_owner"))

		assertBalance(t, s, "source", 0)
		assertBalance(t, s, "user", 9800)
		assertBalance(t, s, "platform", 200)

		frozen, err := s.Get(ctx, "platform")
		require.NoError(t, err)
		frozen.IsFrozen = true
		require.NoError(t, s.Put(ctx, frozen))

		assert.Equal(t, ledger.ErrAccountFrozen, s.TransferToken(ctx, "mint", "user", "platform", 1, 6, "user_owner"))
		assertBalance(t, s, "user", 9800)
	})
}

func testTransactionRollback(t *testing.T, s ledger.Store) {
	t.Run("testTransactionRollback", func(t *testing.T) {
		ctx := context.Background()

		putNative(t, s, "source", 10000)
		putNative(t, s, "user", 0)
		putNative(t, s, "platform", 0)

		err := s.ExecuteInTx(ctx, func(ctx context.Context) error {
			require.NoError(t, s.TransferNative(ctx, "source", "user", 9800))

			actual, err := s.Get(ctx, "source")
			require.NoError(t, err)
			assert.EqualValues(t, 200, actual.Balance)

			return s.TransferNative(ctx, "source", "platform", 300)
		})
		assert.Equal(t, ledger.ErrInsufficientFunds, err)

		assertBalance(t, s, "source", 10000)
		assertBalance(t, s, "user", 0)
		assertBalance(t, s, "platform", 0)

		errFailed := errors.New("failed")
		err = s.ExecuteInTx(ctx, func(ctx context.Context) error {
			require.NoError(t, s.Put(ctx, &ledger.Record{Address: "created", Kind: ledger.KindNative}))
			return errFailed
		})
		assert.Equal(t, errFailed, err)

		_, err = s.Get(ctx, "created")
		assert.Equal(t, ledger.ErrAccountNotFound, err)

		err = s.ExecuteInTx(ctx, func(ctx context.Context) error {
			if err := s.TransferNative(ctx, "source", "user", 9800); err != nil {
				return err
			}
			return s.TransferNative(ctx, "source", "platform", 200)
		})
		require.NoError(t, err)

		assertBalance(t, s, "source", 0)
		assertBalance(t, s, "user", 9800)
		assertBalance(t, s, "platform", 200)
	})
}

func testNestedTransaction(t *testing.T, s ledger.Store) {
	t.Run("testNestedTransaction", func(t *testing.T) {
		ctx := context.Background()

		putNative(t, s, "source", 100)
		putNative(t, s, "destination", 0)

		errFailed := errors.New("failed")
		err := s.ExecuteInTx(ctx, func(ctx context.Context) error {
			err := s.ExecuteInTx(ctx, func(ctx context.Context) error {
				return s.TransferNative(ctx, "source", "destination", 60)
			})
			require.NoError(t, err)

			assertBalance(t, s, "destination", 60, ctx)

			return errFailed
		})
		assert.Equal(t, errFailed, err)

		assertBalance(t, s, "source", 100)
		assertBalance(t, s, "destination", 0)
	})
}

func putNative(t *testing.T, s ledger.Store, address string, balance uint64) {
	require.NoError(t, s.Put(context.Background(), &ledger.Record{
		Address: address,
		Kind:    ledger.KindNative,
		Balance: balance,
	}))
}

func putMint(t *testing.T, s ledger.Store, address string, decimals uint8) {
	require.NoError(t, s.Put(context.Background(), &ledger.Record{
		Address:  address,
		Kind:     ledger.KindMint,
		Decimals: decimals,
	}))
}

func putToken(t *testing.T, s ledger.Store, address, mint, owner, delegate string, balance uint64) {
	require.NoError(t, s.Put(context.Background(), &ledger.Record{
		Address:  address,
		Kind:     ledger.KindToken,
		Mint:     mint,
		Owner:    owner,
		Delegate: delegate,
		Balance:  balance,
	}))
}

func assertBalance(t *testing.T, s ledger.Store, address string, expected uint64, ctx ...context.Context) {
	readCtx := context.Background()
	if len(ctx) > 0 {
		readCtx = ctx[0]
	}

	actual, err := s.Get(readCtx, address)
	require.NoError(t, err)
	assert.Equal(t, expected, actual.Balance)
}
