package bootstrap

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/classbooking/api"
	"github.com/Domenick1991/classbooking/config"
	classbookingapi "github.com/Domenick1991/classbooking/internal/api/classbooking_service_api"
	"github.com/Domenick1991/classbooking/internal/domain"
	"github.com/Domenick1991/classbooking/internal/repository"
	"github.com/Domenick1991/classbooking/internal/service/booking"
	"github.com/Domenick1991/classbooking/internal/service/classes"
	"github.com/Domenick1991/classbooking/internal/timezone"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func newServices(t *testing.T) Services {
	t.Helper()
	store := repository.NewMemoryStore(nil)
	class := domain.Class{Name: "Yoga", Instructor: "Alice", StartsAt: time.Now().Add(24 * time.Hour), TotalSlots: 2, AvailableSlots: 2}
	require.NoError(t, store.Classes().Create(context.Background(), &class))

	converter := timezone.NewConverter()
	return Services{
		Classes:  classes.NewClassService(store.Classes(), converter),
		Bookings: booking.NewBookingService(store.Bookings(), store.Classes(), converter),
		Health:   map[string]api.Pinger{},
	}
}

func TestNewRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	router := NewRouter(cfg, newServices(t), zap.NewNop(), nil)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/classes", http.StatusOK},
		{http.MethodGet, "/classes?timezone=Bogus/Zone", http.StatusBadRequest},
		{http.MethodGet, "/bookings?email=nobody@example.com", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/swagger/doc.json", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.status, w.Code, tt.path)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Contains(t, w.Body.String(), "Class Booking API")
}

func TestNewGRPCServer_Health(t *testing.T) {
	srv, _ := NewGRPCServer(newServices(t), zap.NewNop())
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: classbookingapi.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	classesResp, err := classbookingapi.NewClient(conn).ListClasses(context.Background(), &classbookingapi.ListClassesRequest{Timezone: "UTC"})
	require.NoError(t, err)
	assert.Len(t, classesResp.Classes, 1)
}

func TestNewRouter_Gateway(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newServices(t)

	srv, _ := NewGRPCServer(svc, zap.NewNop())
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	gateway, err := classbookingapi.NewGatewayMux(classbookingapi.NewClient(conn))
	require.NoError(t, err)
	router := NewRouter(&config.Config{}, svc, zap.NewNop(), gateway)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/classes?timezone=UTC", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Yoga")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/classes?timezone=Bogus/Zone", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/classes", nil))
	assert.Equal(t, http.StatusOK, w.Code, "gin routes stay in place")
}
