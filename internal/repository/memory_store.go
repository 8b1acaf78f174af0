package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/classbooking/internal/clock"
	"github.com/Domenick1991/classbooking/internal/domain"
)

// MemoryStore keeps classes and bookings in process. A transaction holds the
// write lock until it returns, so transactions never interleave; writes made by
// a failed transaction are discarded.
type MemoryStore struct {
	mu            sync.RWMutex
	classes       map[int64]domain.Class
	bookings      []domain.Booking
	nextClassID   int64
	nextBookingID int64
	clock         clock.Clock
}

type memoryTxKey struct{}

// NewMemoryStore creates an empty store stamping rows with clk; nil means the system clock.
func NewMemoryStore(clk clock.Clock) *MemoryStore {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &MemoryStore{
		classes: make(map[int64]domain.Class),
		clock:   clk,
	}
}

func (s *MemoryStore) Classes() ClassRepository {
	return &memoryClasses{s: s}
}

func (s *MemoryStore) Bookings() BookingRepository {
	return &memoryBookings{s: s}
}

func (s *MemoryStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	classes := make(map[int64]domain.Class, len(s.classes))
	for id, c := range s.classes {
		classes[id] = c
	}
	bookings := append([]domain.Booking(nil), s.bookings...)
	nextClassID, nextBookingID := s.nextClassID, s.nextBookingID

	if err := fn(context.WithValue(ctx, memoryTxKey{}, s)); err != nil {
		s.classes, s.bookings = classes, bookings
		s.nextClassID, s.nextBookingID = nextClassID, nextBookingID
		return err
	}
	return nil
}

func (s *MemoryStore) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(memoryTxKey{}).(*MemoryStore)
	return owner == s
}

func (s *MemoryStore) read(ctx context.Context, fn func()) {
	if !s.inTx(ctx) {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn()
}

func (s *MemoryStore) write(ctx context.Context, fn func() error) error {
	return s.WithTx(ctx, func(context.Context) error { return fn() })
}

type memoryClasses struct {
	s *MemoryStore
}

func (r *memoryClasses) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.s.WithTx(ctx, fn)
}

func (r *memoryClasses) ListUpcoming(ctx context.Context, now time.Time) ([]domain.Class, error) {
	classes := make([]domain.Class, 0)
	r.s.read(ctx, func() {
		for _, c := range r.s.classes {
			if c.StartsAt.After(now) {
				classes = append(classes, c)
			}
		}
	})
	sort.Slice(classes, func(i, j int) bool {
		if classes[i].StartsAt.Equal(classes[j].StartsAt) {
			return classes[i].ID < classes[j].ID
		}
		return classes[i].StartsAt.Before(classes[j].StartsAt)
	})
	return classes, nil
}

func (r *memoryClasses) GetByID(ctx context.Context, id int64) (*domain.Class, error) {
	var (
		c  domain.Class
		ok bool
	)
	r.s.read(ctx, func() { c, ok = r.s.classes[id] })
	if !ok {
		return nil, domain.ErrClassNotFound
	}
	return &c, nil
}

func (r *memoryClasses) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Class, error) {
	classes := make(map[int64]domain.Class, len(ids))
	r.s.read(ctx, func() {
		for _, id := range ids {
			if c, ok := r.s.classes[id]; ok {
				classes[id] = c
			}
		}
	})
	return classes, nil
}

// GetForUpdate relies on the transaction lock; outside a transaction it is a plain read.
func (r *memoryClasses) GetForUpdate(ctx context.Context, id int64) (*domain.Class, error) {
	return r.GetByID(ctx, id)
}

// LockCatalog is a no-op: a memory transaction already holds the write lock.
func (r *memoryClasses) LockCatalog(context.Context) error {
	return nil
}

func (r *memoryClasses) Count(ctx context.Context) (int, error) {
	var n int
	r.s.read(ctx, func() { n = len(r.s.classes) })
	return n, nil
}

func (r *memoryClasses) Create(ctx context.Context, class *domain.Class) error {
	return r.s.write(ctx, func() error {
		r.s.nextClassID++
		now := r.s.clock.Now()
		class.ID = r.s.nextClassID
		class.StartsAt = class.StartsAt.UTC()
		class.CreatedAt, class.UpdatedAt = now, now
		r.s.classes[class.ID] = *class
		return nil
	})
}

type memoryBookings struct {
	s *MemoryStore
}

func (r *memoryBookings) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.s.WithTx(ctx, fn)
}

func (r *memoryBookings) FindByClassAndEmail(ctx context.Context, classID int64, email string) (*domain.Booking, error) {
	var found *domain.Booking
	r.s.read(ctx, func() {
		for _, b := range r.s.bookings {
			if b.ClassID == classID && b.ClientEmail == email {
				found = &b
				return
			}
		}
	})
	return found, nil
}

func (r *memoryBookings) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return r.filter(ctx, func(b domain.Booking) bool { return b.ClientEmail == email }), nil
}

func (r *memoryBookings) ListByClass(ctx context.Context, classID int64) ([]domain.Booking, error) {
	return r.filter(ctx, func(b domain.Booking) bool { return b.ClassID == classID }), nil
}

func (r *memoryBookings) CreateAndDecrementSlot(ctx context.Context, booking *domain.Booking) error {
	return r.s.write(ctx, func() error {
		class, ok := r.s.classes[booking.ClassID]
		if !ok {
			return domain.ErrClassNotFound
		}
		if class.AvailableSlots <= 0 {
			return domain.ErrConflict
		}
		for _, b := range r.s.bookings {
			if b.ClassID == booking.ClassID && b.ClientEmail == booking.ClientEmail {
				return domain.ErrConflict
			}
		}

		now := r.s.clock.Now()
		class.AvailableSlots--
		class.UpdatedAt = now
		r.s.classes[class.ID] = class

		r.s.nextBookingID++
		booking.ID = r.s.nextBookingID
		booking.CreatedAt = now
		r.s.bookings = append(r.s.bookings, *booking)
		return nil
	})
}

func (r *memoryBookings) filter(ctx context.Context, keep func(domain.Booking) bool) []domain.Booking {
	bookings := make([]domain.Booking, 0)
	r.s.read(ctx, func() {
		for _, b := range r.s.bookings {
			if keep(b) {
				bookings = append(bookings, b)
			}
		}
	})
	return bookings
}

var (
	_ ClassRepository   = (*memoryClasses)(nil)
	_ BookingRepository = (*memoryBookings)(nil)
)
