package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/classbooking/internal/domain"
)

// Transactor runs fn inside a single store transaction. Repositories called with
// the context passed to fn take part in that transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ClassRepository interface {
	Transactor
	ListUpcoming(ctx context.Context, now time.Time) ([]domain.Class, error)
	GetByID(ctx context.Context, id int64) (*domain.Class, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Class, error)
	// GetForUpdate reads a class and locks it until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*domain.Class, error)
	// LockCatalog serializes catalog-wide writers until the surrounding transaction ends.
	LockCatalog(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, class *domain.Class) error
}

type BookingRepository interface {
	Transactor
	FindByClassAndEmail(ctx context.Context, classID int64, email string) (*domain.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	ListByClass(ctx context.Context, classID int64) ([]domain.Booking, error)
	// CreateAndDecrementSlot inserts the booking and takes one slot from its class
	// atomically. It returns domain.ErrConflict when either effect would break
	// the capacity or uniqueness invariant.
	CreateAndDecrementSlot(ctx context.Context, booking *domain.Booking) error
}
