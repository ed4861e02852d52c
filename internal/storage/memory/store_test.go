package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angiandrew/enhancedchem-sub000/internal/domain/order"
)

func TestNextNumber_StartsAt1000(t *testing.T) {
	s := New()

	n, err := s.NextNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "#1000", n)
}

func TestNextNumber_StrictlyIncreasing(t *testing.T) {
	s := New()
	ctx := context.Background()

	prev := 0
	for i := 0; i < 50; i++ {
		n, err := s.NextNumber(ctx)
		require.NoError(t, err)

		value, err := strconv.Atoi(n[1:])
		require.NoError(t, err)
		require.Equal(t, "#", n[:1])
		assert.Greater(t, value, prev)
		prev = value
	}
}

func TestNextNumber_ConcurrentCallsUnique(t *testing.T) {
	s := New()
	ctx := context.Background()

	const calls = 200
	results := make(chan string, calls)

	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := s.NextNumber(ctx)
			assert.NoError(t, err)
			results <- n
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, calls)
	for n := range results {
		require.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}
	assert.Len(t, seen, calls)
}

func TestSave_StampsPendingAndTimestamp(t *testing.T) {
	s := New()

	before := time.Now().UTC()
	saved, err := s.Save(context.Background(), &order.Order{
		Number:        "#1000",
		Email:         "lab@example.com",
		PaymentMethod: order.PayZelle,
		Total:         decimal.RequireFromString("100.00"),
		Items:         []order.LineItem{{Name: "widget", Quantity: 1, UnitPrice: decimal.RequireFromString("100.00")}},
	})
	after := time.Now().UTC()

	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, saved.Status)
	assert.False(t, saved.CreatedAt.Before(before))
	assert.False(t, saved.CreatedAt.After(after))

	all, err := s.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "#1000", all[0].Number)
	assert.Equal(t, order.StatusPending, all[0].Status)
}

func TestAll_NewestFirst(t *testing.T) {
	s := New()
	// Control the clock so ordering is deterministic.
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.Save(ctx, &order.Order{Number: fmt.Sprintf("#%d", 1000+i)})
		require.NoError(t, err)
	}

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "#1002", all[0].Number)
	assert.Equal(t, "#1001", all[1].Number)
	assert.Equal(t, "#1000", all[2].Number)
}

func TestUpdateStatus(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Save(ctx, &order.Order{Number: "#1000"})
	require.NoError(t, err)

	found, err := s.UpdateStatus(ctx, "#1000", order.StatusShipped)
	require.NoError(t, err)
	assert.True(t, found)

	got, err := s.ByNumber(ctx, "#1000")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, order.StatusShipped, got.Status)
}

func TestUpdateStatus_NotFoundLeavesStoreUnchanged(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Save(ctx, &order.Order{Number: "#1000"})
	require.NoError(t, err)

	found, err := s.UpdateStatus(ctx, "#9999", order.StatusPaid)
	require.NoError(t, err)
	assert.False(t, found)

	got, err := s.ByNumber(ctx, "#1000")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, order.StatusPending, got.Status)
}

func TestByNumber_Absent(t *testing.T) {
	s := New()

	got, err := s.ByNumber(context.Background(), "#404")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSave_ReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	saved, err := s.Save(ctx, &order.Order{Number: "#1000"})
	require.NoError(t, err)

	// Mutating the returned record must not leak into the store.
	saved.Status = order.StatusCompleted

	got, err := s.ByNumber(ctx, "#1000")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, got.Status)
}
