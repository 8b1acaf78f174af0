package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/classbooking/api"
	"github.com/Domenick1991/classbooking/config"
	"github.com/Domenick1991/classbooking/internal/bootstrap"
	"github.com/Domenick1991/classbooking/internal/cache"
	"github.com/Domenick1991/classbooking/internal/clock"
	"github.com/Domenick1991/classbooking/internal/domain"
	"github.com/Domenick1991/classbooking/internal/kafka"
	"github.com/Domenick1991/classbooking/internal/logger"
	"github.com/Domenick1991/classbooking/internal/migrations"
	"github.com/Domenick1991/classbooking/internal/rabbitmq"
	"github.com/Domenick1991/classbooking/internal/repository"
	"github.com/Domenick1991/classbooking/internal/seed"
	"github.com/Domenick1991/classbooking/internal/service/booking"
	"github.com/Domenick1991/classbooking/internal/service/classes"
	"github.com/Domenick1991/classbooking/internal/telemetry"
	"github.com/Domenick1991/classbooking/internal/timezone"
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// @title        Class Booking API
// @version      1.0
// @description  Browse upcoming classes and reserve seats.
// @BasePath     /
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = config.DefaultPath
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zlog); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zlog *zap.Logger) error {
	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	health := map[string]api.Pinger{}

	var (
		classRepo   repository.ClassRepository
		bookingRepo repository.BookingRepository
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := repository.NewMemoryStore(nil)
		classRepo, bookingRepo = store.Classes(), store.Bookings()
		zlog.Warn("using in-memory store, data is lost on restart")
	default:
		pool, err := openPool(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := migrations.Apply(ctx, pool); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		classRepo, bookingRepo = repository.NewClassRepository(pool), repository.NewBookingRepository(pool)
		health["database"] = pool
	}

	if cfg.Seed.Enabled {
		if _, err := seed.Run(ctx, classRepo, seedClasses(cfg), zlog); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}

	converter := timezone.NewConverter()
	systemClock := clock.NewSystem()

	classOpts := []classes.ClassServiceOption{
		classes.WithClock(systemClock),
		classes.WithLogger(zlog),
		classes.WithDefaultTimezone(cfg.Booking.DefaultTimezone),
	}
	bookingOpts := []booking.BookingServiceOption{
		booking.WithClock(systemClock),
		booking.WithLogger(zlog),
		booking.WithDefaultTimezone(cfg.Booking.DefaultTimezone),
	}

	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis, cfg.Telemetry.Enabled)
		if err != nil {
			return err
		}
		defer redisCache.Close()

		classOpts = append(classOpts, classes.WithCache(redisCache))
		bookingOpts = append(bookingOpts, booking.WithCache(redisCache))
		health["redis"] = redisCache
	}

	switch cfg.Events.Driver {
	case config.EventsDriverKafka:
		producer := kafka.NewProducer(cfg.Kafka.Brokers, zlog)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			zlog.Warn("kafka is not reachable yet, booking events may be dropped", zap.Error(err))
		}
		bookingOpts = append(bookingOpts, booking.WithProducer(producer, cfg.Kafka.BookingTopic))
	case config.EventsDriverRabbitMQ:
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, zlog)
		if err != nil {
			return err
		}
		defer publisher.Close()
		bookingOpts = append(bookingOpts, booking.WithProducer(publisher, cfg.RabbitMQ.RoutingKey))
	}

	svc := bootstrap.Services{
		Classes:  classes.NewClassService(classRepo, converter, classOpts...),
		Bookings: booking.NewBookingService(bookingRepo, classRepo, converter, bookingOpts...),
		Health:   health,
	}
	return bootstrap.Run(ctx, cfg, svc, zlog)
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolCfg.MaxConns = cfg.Database.MaxConns
	if cfg.Telemetry.Enabled {
		poolCfg.ConnConfig.Tracer = otelpgx.NewTracer(otelpgx.WithIncludeQueryParameters())
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func seedClasses(cfg *config.Config) []domain.Class {
	list := seed.DefaultClasses()
	for _, sc := range cfg.Seed.Classes {
		list = append(list, domain.Class{
			Name:           sc.Name,
			Instructor:     sc.Instructor,
			StartsAt:       sc.StartsAt.UTC(),
			TotalSlots:     sc.Slots,
			AvailableSlots: sc.Slots,
		})
	}
	return list
}
