package memory

import (
	"context"
	"sync"
	"time"

	"github.com/code-payments/fee-router/pkg/data/marker"
	memutil "github.com/code-payments/fee-router/pkg/database/memory"
)

type store struct {
	mu      sync.Mutex
	records []*marker.Record
	last    uint64
}

// New returns a new in memory marker.Store
func New() marker.Store {
	return &store{}
}

// Mark implements marker.Store.Mark. A marker created within a transaction
// carried by ctx is removed if that transaction fails.
func (s *store) Mark(ctx context.Context, address string) (*marker.Record, bool, error) {
	record := &marker.Record{
		Address:       address,
		InitializedAt: time.Now(),
	}
	if err := record.Validate(); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.find(address); item != nil {
		cloned := item.Clone()
		return &cloned, false, nil
	}

	s.last++
	record.Id = s.last

	cloned := record.Clone()
	s.records = append(s.records, &cloned)

	memutil.OnRollback(ctx, func() {
		s.remove(record.Id)
	})

	return record, true, nil
}

// Get implements marker.Store.Get
func (s *store) Get(_ context.Context, address string) (*marker.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.find(address)
	if item == nil {
		return nil, marker.ErrMarkerNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

func (s *store) find(address string) *marker.Record {
	for _, item := range s.records {
		if item.Address == address {
			return item
		}
	}
	return nil
}

func (s *store) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.records {
		if item.Id == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return
		}
	}
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.last = 0
}
