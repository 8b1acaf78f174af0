package classbooking_service_api

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/Domenick1991/classbooking/internal/clock"
	"github.com/Domenick1991/classbooking/internal/domain"
	"github.com/Domenick1991/classbooking/internal/repository"
	"github.com/Domenick1991/classbooking/internal/service/booking"
	"github.com/Domenick1991/classbooking/internal/service/classes"
	"github.com/Domenick1991/classbooking/internal/timezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

var now = time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T) (*Client, domain.Class) {
	t.Helper()

	store := repository.NewMemoryStore(clock.NewFixed(now))
	class := domain.Class{Name: "Yoga", Instructor: "Alice", StartsAt: time.Date(2030, 6, 7, 4, 30, 0, 0, time.UTC), TotalSlots: 1, AvailableSlots: 1}
	require.NoError(t, store.Classes().Create(context.Background(), &class))

	converter := timezone.NewConverter()
	fixed := clock.NewFixed(now)
	classSvc := classes.NewClassService(store.Classes(), converter, classes.WithClock(fixed))
	bookingSvc := booking.NewBookingService(store.Bookings(), store.Classes(), converter, booking.WithClock(fixed))

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(zap.NewNop())))
	RegisterClassBookingServiceServer(srv, NewServer(classSvc, bookingSvc))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn), class
}

func TestServer_ListClasses(t *testing.T) {
	client, _ := newTestClient(t)

	resp, err := client.ListClasses(context.Background(), &ListClassesRequest{Timezone: "Asia/Kolkata"})

	require.NoError(t, err)
	require.Len(t, resp.Classes, 1)
	assert.Equal(t, "Yoga", resp.Classes[0].Name)
	assert.Equal(t, 10, resp.Classes[0].StartsAt.Hour())
}

func TestServer_ListClasses_UnknownZone(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.ListClasses(context.Background(), &ListClassesRequest{Timezone: "Nowhere/Land"})

	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_BookClassAndListBookings(t *testing.T) {
	client, class := newTestClient(t)
	ctx := context.Background()

	resp, err := client.BookClass(ctx, &BookClassRequest{ClassID: class.ID, ClientName: "Ann", ClientEmail: "ann@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingSuccessMessage, resp.Confirmation.Message)
	assert.NotEmpty(t, resp.Confirmation.Reference)

	_, err = client.BookClass(ctx, &BookClassRequest{ClassID: class.ID, ClientName: "Ann", ClientEmail: "ann@example.com"})
	assert.Equal(t, codes.ResourceExhausted, status.Code(err), "class is full before the duplicate check runs")

	list, err := client.ListBookings(ctx, &ListBookingsRequest{Email: "ann@example.com", Timezone: "UTC"})
	require.NoError(t, err)
	require.Len(t, list.Bookings, 1)
	assert.Equal(t, "Yoga", list.Bookings[0].ClassName)

	empty, err := client.ListBookings(ctx, &ListBookingsRequest{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.Empty(t, empty.Bookings)
}

func TestServer_BookClass_Errors(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.BookClass(ctx, &BookClassRequest{ClassID: 999, ClientName: "Ann", ClientEmail: "ann@example.com"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.BookClass(ctx, &BookClassRequest{ClassID: 1, ClientName: "Ann", ClientEmail: "bad"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.BookClass(ctx, &BookClassRequest{ClassID: 1, ClientName: "  ", ClientEmail: "ann@example.com"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{domain.ErrClassNotFound, codes.NotFound},
		{domain.ErrClassAlreadyStarted, codes.InvalidArgument},
		{domain.ErrUnknownTimezone, codes.InvalidArgument},
		{domain.ErrClassFull, codes.ResourceExhausted},
		{domain.ErrDuplicateBooking, codes.AlreadyExists},
		{domain.ErrConflict, codes.Aborted},
		{assert.AnError, codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status.Code(toStatus(tt.err)), tt.err.Error())
	}
}
