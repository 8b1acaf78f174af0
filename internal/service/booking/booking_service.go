package booking

import (
	"context"
	"strings"

	"github.com/Domenick1991/classbooking/internal/clock"
	"github.com/Domenick1991/classbooking/internal/domain"
	"github.com/Domenick1991/classbooking/internal/repository"
	"github.com/Domenick1991/classbooking/internal/timezone"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/Domenick1991/classbooking/internal/service/booking"

type BookingUseCase interface {
	Reserve(ctx context.Context, input ReserveInput) (*domain.BookingConfirmation, error)
	ListByEmail(ctx context.Context, email, zone string) ([]domain.BookingView, error)
}

// Cache is invalidated after every successful reservation so listings show current slot counts.
type Cache interface {
	InvalidateClasses(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings        repository.BookingRepository
	classes         repository.ClassRepository
	converter       *timezone.Converter
	clock           clock.Clock
	cache           Cache
	producer        Producer
	bookingTopic    string
	defaultTimezone string
	logger          *zap.Logger
	tracer          trace.Tracer
}

type ReserveInput struct {
	ClassID     int64
	ClientName  string
	ClientEmail string
}

type BookingServiceOption func(*BookingService)

func WithCache(cache Cache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

// WithProducer publishes a booking_created event to topic after each reservation.
func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = topic
	}
}

func WithClock(c clock.Clock) BookingServiceOption {
	return func(s *BookingService) {
		s.clock = c
	}
}

func WithLogger(logger *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = logger
	}
}

func WithDefaultTimezone(zone string) BookingServiceOption {
	return func(s *BookingService) {
		s.defaultTimezone = zone
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	classes repository.ClassRepository,
	converter *timezone.Converter,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:        bookings,
		classes:         classes,
		converter:       converter,
		clock:           clock.NewSystem(),
		defaultTimezone: "Asia/Kolkata",
		logger:          zap.NewNop(),
		tracer:          otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Reserve books one seat. The checks run in a fixed order inside a single
// transaction that holds the class row lock, so the first failing check wins
// and a failed reservation leaves no trace in the store.
func (s *BookingService) Reserve(ctx context.Context, input ReserveInput) (*domain.BookingConfirmation, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Reserve", trace.WithAttributes(attribute.Int64("class.id", input.ClassID)))
	defer span.End()

	email := normalizeEmail(input.ClientEmail)
	booking := &domain.Booking{
		Reference:   uuid.NewString(),
		ClassID:     input.ClassID,
		ClientName:  strings.TrimSpace(input.ClientName),
		ClientEmail: email,
	}

	var class *domain.Class
	err := s.bookings.WithTx(ctx, func(ctx context.Context) error {
		var err error
		class, err = s.classes.GetForUpdate(ctx, input.ClassID)
		if err != nil {
			return err
		}
		if class.HasStarted(s.clock.Now()) {
			return domain.ErrClassAlreadyStarted
		}
		if class.IsFull() {
			return domain.ErrClassFull
		}

		existing, err := s.bookings.FindByClassAndEmail(ctx, input.ClassID, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateBooking
		}

		return s.bookings.CreateAndDecrementSlot(ctx, booking)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.Code(err))
		s.logger.Info("reservation rejected",
			zap.Int64("class_id", input.ClassID),
			zap.String("code", domain.Code(err)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("reservation created",
		zap.String("reference", booking.Reference),
		zap.Int64("class_id", booking.ClassID),
	)

	if s.cache != nil {
		if err := s.cache.InvalidateClasses(ctx); err != nil {
			s.logger.Warn("failed to invalidate class cache", zap.Error(err))
		}
	}
	if err := s.publish(ctx, class, booking); err != nil {
		s.logger.Warn("failed to publish booking event", zap.String("reference", booking.Reference), zap.Error(err))
	}

	return &domain.BookingConfirmation{
		Message:     domain.BookingSuccessMessage,
		Reference:   booking.Reference,
		ClassID:     booking.ClassID,
		ClassName:   class.Name,
		ClientName:  booking.ClientName,
		ClientEmail: booking.ClientEmail,
		BookedAt:    booking.CreatedAt,
	}, nil
}

// ListByEmail returns the client's bookings with class times shown in zone.
// An empty zone selects the default; an empty email yields no bookings.
func (s *BookingService) ListByEmail(ctx context.Context, email, zone string) ([]domain.BookingView, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.ListByEmail")
	defer span.End()

	if strings.TrimSpace(zone) == "" {
		zone = s.defaultTimezone
	}
	loc, err := s.converter.Location(zone)
	if err != nil {
		return nil, err
	}

	views := make([]domain.BookingView, 0)
	email = normalizeEmail(email)
	if email == "" {
		return views, nil
	}

	bookings, err := s.bookings.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return views, nil
	}

	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ClassID)
	}
	classes, err := s.classes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, b := range bookings {
		class, ok := classes[b.ClassID]
		if !ok {
			s.logger.Warn("booking references a missing class", zap.String("reference", b.Reference), zap.Int64("class_id", b.ClassID))
			continue
		}
		views = append(views, domain.BookingView{
			ClassID:     class.ID,
			ClassName:   class.Name,
			StartsAt:    class.StartsAt.In(loc),
			Instructor:  class.Instructor,
			ClientName:  b.ClientName,
			ClientEmail: b.ClientEmail,
		})
	}
	return views, nil
}

func (s *BookingService) publish(ctx context.Context, class *domain.Class, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := domain.BookingEvent{
		Type:        domain.EventBookingCreated,
		Reference:   booking.Reference,
		ClassID:     booking.ClassID,
		ClassName:   class.Name,
		ClientName:  booking.ClientName,
		ClientEmail: booking.ClientEmail,
		StartsAt:    class.StartsAt,
		CreatedAt:   booking.CreatedAt,
	}
	return s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ BookingUseCase = (*BookingService)(nil)
