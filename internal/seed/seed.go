package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/classbooking/internal/domain"
	"github.com/Domenick1991/classbooking/internal/repository"
	"go.uber.org/zap"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

// DefaultClasses is the sample catalog installed on an empty store.
func DefaultClasses() []domain.Class {
	return []domain.Class{
		newClass("Yoga", "Alice", time.Date(2025, 6, 7, 10, 0, 0, 0, ist), 10),
		newClass("Zumba", "Bob", time.Date(2025, 6, 8, 14, 0, 0, 0, ist), 15),
		newClass("HIIT", "Charlie", time.Date(2025, 6, 9, 9, 0, 0, 0, ist), 20),
	}
}

func newClass(name, instructor string, startsAt time.Time, slots int) domain.Class {
	return domain.Class{
		Name:           name,
		Instructor:     instructor,
		StartsAt:       startsAt.UTC(),
		TotalSlots:     slots,
		AvailableSlots: slots,
	}
}

// Run inserts classes in one transaction unless the catalog already has rows.
// It reports how many classes were inserted.
func Run(ctx context.Context, repo repository.ClassRepository, classes []domain.Class, logger *zap.Logger) (int, error) {
	inserted := 0
	err := repo.WithTx(ctx, func(ctx context.Context) error {
		// параллельные запуски seed выполняются по очереди
		if err := repo.LockCatalog(ctx); err != nil {
			return err
		}
		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		for i := range classes {
			c := classes[i]
			if c.AvailableSlots == 0 {
				c.AvailableSlots = c.TotalSlots
			}
			if err := repo.Create(ctx, &c); err != nil {
				return fmt.Errorf("seed class %q: %w", c.Name, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if inserted > 0 {
		logger.Info("seeded class catalog", zap.Int("classes", inserted))
	} else {
		logger.Debug("class catalog already populated, skipping seed")
	}
	return inserted, nil
}
