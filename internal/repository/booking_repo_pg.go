package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/classbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, reference, class_id, client_name, client_email, created_at`

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

func (r *PGBookingRepository) FindByClassAndEmail(ctx context.Context, classID int64, email string) (*domain.Booking, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE class_id = $1 AND client_email = $2`, classID, email)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return &b, nil
}

func (r *PGBookingRepository) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE client_email = $1 ORDER BY created_at, id`, email)
}

func (r *PGBookingRepository) ListByClass(ctx context.Context, classID int64) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE class_id = $1 ORDER BY created_at, id`, classID)
}

// CreateAndDecrementSlot takes the slot first so the class row stays locked
// for the rest of the transaction even when called without GetForUpdate.
func (r *PGBookingRepository) CreateAndDecrementSlot(ctx context.Context, booking *domain.Booking) error {
	return withTx(ctx, r.db, func(ctx context.Context) error {
		q := conn(ctx, r.db)

		tag, err := q.Exec(ctx, `
UPDATE classes
SET available_slots = available_slots - 1, updated_at = now()
WHERE id = $1 AND available_slots > 0`, booking.ClassID)
		if err != nil {
			if isConflict(err) {
				return domain.ErrConflict
			}
			return fmt.Errorf("decrement slot: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrConflict
		}

		err = q.QueryRow(ctx, `
INSERT INTO bookings (reference, class_id, client_name, client_email)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`,
			booking.Reference, booking.ClassID, booking.ClientName, booking.ClientEmail,
		).Scan(&booking.ID, &booking.CreatedAt)
		if err != nil {
			if isConflict(err) {
				return domain.ErrConflict
			}
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
}

func (r *PGBookingRepository) list(ctx context.Context, sql string, args ...any) ([]domain.Booking, error) {
	rows, err := conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.Reference, &b.ClassID, &b.ClientName, &b.ClientEmail, &b.CreatedAt)
	return b, err
}

var _ BookingRepository = (*PGBookingRepository)(nil)
