package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/Domenick1991/classbooking/api"
	"github.com/Domenick1991/classbooking/config"
	_ "github.com/Domenick1991/classbooking/docs"
	classbookingapi "github.com/Domenick1991/classbooking/internal/api/classbooking_service_api"
	"github.com/Domenick1991/classbooking/internal/service/booking"
	"github.com/Domenick1991/classbooking/internal/service/classes"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Services struct {
	Classes  classes.ClassUseCase
	Bookings booking.BookingUseCase
	// Health lists the dependencies reported by GET /health.
	Health map[string]api.Pinger
}

type Servers struct {
	grpcServer  *grpc.Server
	grpcHealth  *health.Server
	httpServer  *http.Server
	gatewayConn *grpc.ClientConn
}

// Run starts the gRPC and HTTP servers and blocks until ctx is canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services, logger *zap.Logger) error {
	s, err := newServers(cfg, svc, logger)
	if err != nil {
		return err
	}
	defer s.gatewayConn.Close()

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("grpc server listening", zap.String("address", cfg.GRPC.Address))
		errCh <- s.grpcServer.Serve(lis)
	}()
	go func() {
		logger.Info("http server listening", zap.String("address", cfg.HTTP.Address))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.grpcServer.Stop()
		_ = s.httpServer.Close()
		return err
	case <-ctx.Done():
		logger.Info("shutting down servers")
		s.grpcHealth.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout())
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServers(cfg *config.Config, svc Services, logger *zap.Logger) (*Servers, error) {
	grpcSrv, healthSrv := NewGRPCServer(svc, logger)

	// REST gateway в /v1 ходит в наш же gRPC сервер
	conn, err := grpc.NewClient(cfg.GRPC.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial gRPC for gateway: %w", err)
	}
	gateway, err := classbookingapi.NewGatewayMux(classbookingapi.NewClient(conn))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("register gateway: %w", err)
	}

	return &Servers{
		grpcServer: grpcSrv,
		grpcHealth: healthSrv,
		httpServer: &http.Server{
			Addr:    cfg.HTTP.Address,
			Handler: NewRouter(cfg, svc, logger, gateway),
		},
		gatewayConn: conn,
	}, nil
}

func NewGRPCServer(svc Services, logger *zap.Logger) (*grpc.Server, *health.Server) {
	grpcSrv := grpc.NewServer(grpc.ChainUnaryInterceptor(classbookingapi.LoggingInterceptor(logger)))
	classbookingapi.RegisterClassBookingServiceServer(grpcSrv, classbookingapi.NewServer(svc.Classes, svc.Bookings))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(classbookingapi.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)

	return grpcSrv, healthSrv
}

// NewRouter wires the gin handlers. A non-nil gateway is mounted under
// classbookingapi.GatewayPrefix.
func NewRouter(cfg *config.Config, svc Services, logger *zap.Logger, gateway http.Handler) *gin.Engine {
	router := gin.New()
	if cfg.Telemetry.Enabled {
		router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	router.Use(api.RequestLogger(logger), api.Recovery(logger))

	root := router.Group("/")
	api.NewClassHandler(svc.Classes).Register(root)
	api.NewBookingHandler(svc.Bookings).Register(root)
	api.NewHealthHandler(svc.Health).Register(root)

	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))
	if gateway != nil {
		router.Any(classbookingapi.GatewayPrefix+"/*path", gin.WrapH(gateway))
	}
	return router
}
