package memory

import (
	"context"
	"sync"
	"time"

	"github.com/code-payments/fee-router/pkg/data/ledger"
	memutil "github.com/code-payments/fee-router/pkg/database/memory"
)

type txContextKey struct {
	s *store
}

type store struct {
	// txMu serializes transactions. Operations outside of a transaction also
	// take it, so a rollback never discards changes it did not make.
	txMu sync.Mutex

	mu      sync.Mutex
	records []*ledger.Record
	last    uint64
}

// New returns a new in memory ledger.Store
func New() ledger.Store {
	return &store{}
}

// Put implements ledger.Store.Put
func (s *store) Put(ctx context.Context, data *ledger.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	defer s.enter(ctx)()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	if item := s.find(data.Address); item != nil {
		item.Kind = data.Kind
		item.Mint = data.Mint
		item.Owner = data.Owner
		item.Delegate = data.Delegate
		item.Decimals = data.Decimals
		item.Balance = data.Balance
		item.IsFrozen = data.IsFrozen
		item.LastUpdatedAt = now

		item.CopyTo(data)
		return nil
	}

	s.last++
	data.Id = s.last
	data.LastUpdatedAt = now
	if data.CreatedAt.IsZero() {
		data.CreatedAt = now
	}

	cloned := data.Clone()
	s.records = append(s.records, &cloned)

	return nil
}

// Get implements ledger.Store.Get
func (s *store) Get(ctx context.Context, address string) (*ledger.Record, error) {
	defer s.enter(ctx)()

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.find(address)
	if item == nil {
		return nil, ledger.ErrAccountNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// TransferNative implements ledger.Store.TransferNative
func (s *store) TransferNative(ctx context.Context, from, to string, amount uint64) error {
	defer s.enter(ctx)()

	s.mu.Lock()
	defer s.mu.Unlock()

	source, destination, err := s.findPair(from, to)
	if err != nil {
		return err
	}

	if err := ledger.ValidateNativeTransfer(source, destination, amount); err != nil {
		return err
	}

	s.move(source, destination, amount)
	return nil
}

// TransferToken implements ledger.Store.TransferToken
func (s *store) TransferToken(ctx context.Context, mint, from, to string, amount uint64, decimals uint8, authority string) error {
	defer s.enter(ctx)()

	s.mu.Lock()
	defer s.mu.Unlock()

	mintRecord := s.find(mint)
	if mintRecord == nil {
		return ledger.ErrAccountNotFound
	}

	source, destination, err := s.findPair(from, to)
	if err != nil {
		return err
	}

	if err := ledger.ValidateTokenTransfer(mintRecord, source, destination, amount, decimals, authority); err != nil {
		return err
	}

	s.move(source, destination, amount)
	return nil
}

// ExecuteInTx implements ledger.Store.ExecuteInTx. Other in memory stores
// written to through the provided ctx are rolled back along with the ledger.
func (s *store) ExecuteInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	return memutil.ExecuteInTx(ctx, func(ctx context.Context) error {
		snapshot := s.snapshot()
		memutil.OnRollback(ctx, func() {
			s.restore(snapshot)
		})

		return fn(context.WithValue(ctx, txContextKey{s}, true))
	})
}

// enter acquires the transaction lock unless ctx already holds it, and returns
// the matching release func
func (s *store) enter(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}

	s.txMu.Lock()
	return s.txMu.Unlock
}

func (s *store) inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txContextKey{s}).(bool)
	return ok
}

func (s *store) move(source, destination *ledger.Record, amount uint64) {
	now := time.Now()

	source.Balance -= amount
	destination.Balance += amount

	source.LastUpdatedAt = now
	destination.LastUpdatedAt = now
}

func (s *store) find(address string) *ledger.Record {
	for _, item := range s.records {
		if item.Address == address {
			return item
		}
	}
	return nil
}

func (s *store) findPair(from, to string) (*ledger.Record, *ledger.Record, error) {
	source := s.find(from)
	if source == nil {
		return nil, nil, ledger.ErrAccountNotFound
	}

	destination := s.find(to)
	if destination == nil {
		return nil, nil, ledger.ErrAccountNotFound
	}

	return source, destination, nil
}

type snapshot struct {
	records []ledger.Record
	last    uint64
}

func (s *store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := snapshot{
		records: make([]ledger.Record, len(s.records)),
		last:    s.last,
	}
	for i, item := range s.records {
		res.records[i] = item.Clone()
	}
	return res
}

func (s *store) restore(snapshot snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]*ledger.Record, len(snapshot.records))
	for i := range snapshot.records {
		s.records[i] = &snapshot.records[i]
	}
	s.last = snapshot.last
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.last = 0
}
