package classes

import (
	"context"
	"strings"
	"time"

	"github.com/Domenick1991/classbooking/internal/clock"
	"github.com/Domenick1991/classbooking/internal/domain"
	"github.com/Domenick1991/classbooking/internal/repository"
	"github.com/Domenick1991/classbooking/internal/timezone"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ClassUseCase interface {
	ListUpcoming(ctx context.Context, zone string) ([]domain.ClassView, error)
}

type ClassCache interface {
	GetClasses(ctx context.Context) ([]domain.Class, error)
	SetClasses(ctx context.Context, classes []domain.Class) error
}

type ClassService struct {
	repo            repository.ClassRepository
	converter       *timezone.Converter
	clock           clock.Clock
	cache           ClassCache
	defaultTimezone string
	logger          *zap.Logger
	tracer          trace.Tracer
}

type ClassServiceOption func(*ClassService)

func WithCache(cache ClassCache) ClassServiceOption {
	return func(s *ClassService) {
		s.cache = cache
	}
}

func WithClock(c clock.Clock) ClassServiceOption {
	return func(s *ClassService) {
		s.clock = c
	}
}

func WithLogger(logger *zap.Logger) ClassServiceOption {
	return func(s *ClassService) {
		s.logger = logger
	}
}

func WithDefaultTimezone(zone string) ClassServiceOption {
	return func(s *ClassService) {
		s.defaultTimezone = zone
	}
}

func NewClassService(repo repository.ClassRepository, converter *timezone.Converter, opts ...ClassServiceOption) *ClassService {
	s := &ClassService{
		repo:            repo,
		converter:       converter,
		clock:           clock.NewSystem(),
		defaultTimezone: "Asia/Kolkata",
		logger:          zap.NewNop(),
		tracer:          otel.Tracer("github.com/Domenick1991/classbooking/internal/service/classes"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListUpcoming returns classes starting after now, earliest first, with
// start times expressed in zone. The zone is resolved before the store is read.
func (s *ClassService) ListUpcoming(ctx context.Context, zone string) ([]domain.ClassView, error) {
	if strings.TrimSpace(zone) == "" {
		zone = s.defaultTimezone
	}
	ctx, span := s.tracer.Start(ctx, "ClassService.ListUpcoming", trace.WithAttributes(attribute.String("timezone", zone)))
	defer span.End()

	loc, err := s.converter.Location(zone)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	classes, err := s.upcoming(ctx, now)
	if err != nil {
		return nil, err
	}

	views := make([]domain.ClassView, 0, len(classes))
	for _, c := range classes {
		// Cached entries may have started since they were stored.
		if c.HasStarted(now) {
			continue
		}
		views = append(views, domain.ClassView{
			ID:             c.ID,
			Name:           c.Name,
			StartsAt:       c.StartsAt.In(loc),
			Instructor:     c.Instructor,
			AvailableSlots: c.AvailableSlots,
		})
	}
	return views, nil
}

func (s *ClassService) upcoming(ctx context.Context, now time.Time) ([]domain.Class, error) {
	if s.cache != nil {
		cached, err := s.cache.GetClasses(ctx)
		if err != nil {
			s.logger.Warn("class cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	classes, err := s.repo.ListUpcoming(ctx, now)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetClasses(ctx, classes); err != nil {
			s.logger.Warn("class cache write failed", zap.Error(err))
		}
	}
	return classes, nil
}

var _ ClassUseCase = (*ClassService)(nil)
