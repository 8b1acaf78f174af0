package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/classbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// catalogLockID guards catalog-wide writers such as seeding.
const catalogLockID int64 = 703118243

const classColumns = `id, name, starts_at, instructor, total_slots, available_slots, created_at, updated_at`

type PGClassRepository struct {
	db *pgxpool.Pool
}

func NewClassRepository(db *pgxpool.Pool) ClassRepository {
	return &PGClassRepository{db: db}
}

func (r *PGClassRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

func (r *PGClassRepository) ListUpcoming(ctx context.Context, now time.Time) ([]domain.Class, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+classColumns+` FROM classes WHERE starts_at > $1 ORDER BY starts_at, id`, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("list upcoming classes: %w", err)
	}
	defer rows.Close()

	classes := make([]domain.Class, 0)
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (r *PGClassRepository) GetByID(ctx context.Context, id int64) (*domain.Class, error) {
	c, err := scanClass(conn(ctx, r.db).QueryRow(ctx, `SELECT `+classColumns+` FROM classes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClassNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	return &c, nil
}

func (r *PGClassRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Class, error) {
	classes := make(map[int64]domain.Class, len(ids))
	if len(ids) == 0 {
		return classes, nil
	}

	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+classColumns+` FROM classes WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get classes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes[c.ID] = c
	}
	return classes, rows.Err()
}

func (r *PGClassRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Class, error) {
	c, err := scanClass(conn(ctx, r.db).QueryRow(ctx, `SELECT `+classColumns+` FROM classes WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClassNotFound
		}
		return nil, fmt.Errorf("lock class: %w", err)
	}
	return &c, nil
}

// LockCatalog takes a transaction-scoped advisory lock. Outside WithTx the lock
// is released as soon as the statement finishes.
func (r *PGClassRepository) LockCatalog(ctx context.Context) error {
	if _, err := conn(ctx, r.db).Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, catalogLockID); err != nil {
		return fmt.Errorf("lock catalog: %w", err)
	}
	return nil
}

func (r *PGClassRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM classes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count classes: %w", err)
	}
	return n, nil
}

func (r *PGClassRepository) Create(ctx context.Context, class *domain.Class) error {
	err := conn(ctx, r.db).QueryRow(ctx, `
INSERT INTO classes (name, starts_at, instructor, total_slots, available_slots)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at`,
		class.Name, class.StartsAt.UTC(), class.Instructor, class.TotalSlots, class.AvailableSlots,
	).Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

func scanClass(row pgx.Row) (domain.Class, error) {
	var c domain.Class
	err := row.Scan(&c.ID, &c.Name, &c.StartsAt, &c.Instructor, &c.TotalSlots, &c.AvailableSlots, &c.CreatedAt, &c.UpdatedAt)
	c.StartsAt = c.StartsAt.UTC()
	return c, err
}

var _ ClassRepository = (*PGClassRepository)(nil)
