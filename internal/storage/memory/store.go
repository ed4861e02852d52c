// Package memory implements the process-local order store. It backs
// deployments without a writable filesystem, serves as the degradation
// target for the file store, and gives tests a deterministic backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/angiandrew/enhancedchem-sub000/internal/domain/order"
)

// counterBaseline is the value the counter starts from; the first allocated
// order number is therefore #1000. A cold start resets to this baseline,
// which can collide with numbers issued by earlier processes. That is a
// known limitation of the in-memory path, not something this store hides.
const counterBaseline = 999

var _ order.Store = (*Store)(nil)

// Store keeps the counter and order list in process memory. All state is
// lost on restart. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	counter int64
	orders  []order.Order
	now     func() time.Time
}

// New returns an empty Store with the counter seeded at the baseline.
func New() *Store {
	return &Store{
		counter: counterBaseline,
		now:     time.Now,
	}
}

// NextNumber increments the counter and returns the new value as "#<N>".
func (s *Store) NextNumber(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	return fmt.Sprintf("#%d", s.counter), nil
}

// Save stamps the order with the current time and pending status, appends
// it, and returns a copy of the stored record.
func (s *Store) Save(_ context.Context, o *order.Order) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *o
	stored.CreatedAt = s.now().UTC()
	stored.Status = order.StatusPending
	s.orders = append(s.orders, stored)

	out := stored
	return &out, nil
}

// All returns a copy of every stored order, newest first.
func (s *Store) All(_ context.Context) ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]order.Order, len(s.orders))
	copy(out, s.orders)
	sortNewestFirst(out)
	return out, nil
}

// UpdateStatus overwrites the status of the matching order. The status value
// is not validated here; the service layer owns the enum check.
func (s *Store) UpdateStatus(_ context.Context, number string, status order.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].Number == number {
			s.orders[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

// ByNumber returns a copy of the matching order, or nil when absent.
func (s *Store) ByNumber(_ context.Context, number string) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].Number == number {
			out := s.orders[i]
			return &out, nil
		}
	}
	return nil, nil
}

// sortNewestFirst orders records by creation time descending. The sort is
// stable so orders stamped within the same instant keep insertion order.
func sortNewestFirst(orders []order.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
