package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/classbooking/internal/clock"
	"github.com/Domenick1991/classbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedClass(t *testing.T, store *MemoryStore, name string, startsAt time.Time, slots int) domain.Class {
	t.Helper()
	c := domain.Class{Name: name, StartsAt: startsAt, Instructor: "Alice", TotalSlots: slots, AvailableSlots: slots}
	require.NoError(t, store.Classes().Create(context.Background(), &c))
	return c
}

func TestMemoryClasses_ListUpcoming(t *testing.T) {
	store := NewMemoryStore(nil)
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

	seedClass(t, store, "Later", now.Add(48*time.Hour), 5)
	seedClass(t, store, "Past", now.Add(-time.Hour), 5)
	seedClass(t, store, "Now", now, 5)
	seedClass(t, store, "Soon", now.Add(time.Hour), 5)

	classes, err := store.Classes().ListUpcoming(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "Soon", classes[0].Name)
	assert.Equal(t, "Later", classes[1].Name)
}

func TestMemoryClasses_GetByID(t *testing.T) {
	store := NewMemoryStore(nil)
	c := seedClass(t, store, "Yoga", time.Now().Add(time.Hour), 3)

	got, err := store.Classes().GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yoga", got.Name)

	_, err = store.Classes().GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrClassNotFound)

	byID, err := store.Classes().GetByIDs(context.Background(), []int64{c.ID, 999})
	require.NoError(t, err)
	assert.Len(t, byID, 1)
	assert.Contains(t, byID, c.ID)
}

func TestMemoryBookings_CreateAndDecrementSlot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	c := seedClass(t, store, "Zumba", time.Now().Add(time.Hour), 1)

	b := &domain.Booking{Reference: "ref-1", ClassID: c.ID, ClientName: "Ann", ClientEmail: "ann@example.com"}
	require.NoError(t, store.Bookings().CreateAndDecrementSlot(ctx, b))
	assert.NotZero(t, b.ID)
	assert.False(t, b.CreatedAt.IsZero())

	got, err := store.Classes().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AvailableSlots)

	err = store.Bookings().CreateAndDecrementSlot(ctx, &domain.Booking{Reference: "ref-2", ClassID: c.ID, ClientEmail: "bob@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	found, err := store.Bookings().FindByClassAndEmail(ctx, c.ID, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "ref-1", found.Reference)

	missing, err := store.Bookings().FindByClassAndEmail(ctx, c.ID, "bob@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryStore_StampsWithClock(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	store := NewMemoryStore(clock.NewFixed(at))
	c := seedClass(t, store, "Spin", at.Add(time.Hour), 2)
	assert.True(t, c.CreatedAt.Equal(at))

	b := &domain.Booking{Reference: "ref-1", ClassID: c.ID, ClientName: "Ann", ClientEmail: "ann@example.com"}
	require.NoError(t, store.Bookings().CreateAndDecrementSlot(ctx, b))
	assert.True(t, b.CreatedAt.Equal(at))

	list, err := store.Bookings().ListByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].CreatedAt.Equal(at))
}

func TestMemoryBookings_DuplicateIsConflict(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	c := seedClass(t, store, "HIIT", time.Now().Add(time.Hour), 5)

	require.NoError(t, store.Bookings().CreateAndDecrementSlot(ctx, &domain.Booking{Reference: "a", ClassID: c.ID, ClientEmail: "x@example.com"}))
	err := store.Bookings().CreateAndDecrementSlot(ctx, &domain.Booking{Reference: "b", ClassID: c.ID, ClientEmail: "x@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := store.Classes().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.AvailableSlots)
}

func TestMemoryStore_WithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	c := seedClass(t, store, "Yoga", time.Now().Add(time.Hour), 2)
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(ctx context.Context) error {
		if err := store.Bookings().CreateAndDecrementSlot(ctx, &domain.Booking{Reference: "r", ClassID: c.ID, ClientEmail: "a@example.com"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Classes().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AvailableSlots)

	bookings, err := store.Bookings().ListByClass(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestMemoryBookings_ConcurrentCapacity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	const slots, clients = 5, 40
	c := seedClass(t, store, "Spin", time.Now().Add(time.Hour), slots)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := &domain.Booking{Reference: fmt.Sprintf("ref-%d", i), ClassID: c.ID, ClientEmail: fmt.Sprintf("c%d@example.com", i)}
			if err := store.Bookings().CreateAndDecrementSlot(ctx, b); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, slots, succeeded)
	got, err := store.Classes().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AvailableSlots)

	bookings, err := store.Bookings().ListByClass(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, bookings, slots)
}

func TestMemoryBookings_ListByEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	a := seedClass(t, store, "A", time.Now().Add(time.Hour), 5)
	b := seedClass(t, store, "B", time.Now().Add(2*time.Hour), 5)

	require.NoError(t, store.Bookings().CreateAndDecrementSlot(ctx, &domain.Booking{Reference: "1", ClassID: a.ID, ClientEmail: "me@example.com"}))
	require.NoError(t, store.Bookings().CreateAndDecrementSlot(ctx, &domain.Booking{Reference: "2", ClassID: b.ID, ClientEmail: "me@example.com"}))
	require.NoError(t, store.Bookings().CreateAndDecrementSlot(ctx, &domain.Booking{Reference: "3", ClassID: b.ID, ClientEmail: "you@example.com"}))

	mine, err := store.Bookings().ListByEmail(ctx, "me@example.com")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := store.Bookings().ListByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
