package classbooking_service_api

import (
	"context"
	"strings"
	"time"

	"github.com/Domenick1991/classbooking/internal/domain"
	"github.com/Domenick1991/classbooking/internal/service/booking"
	"github.com/Domenick1991/classbooking/internal/service/classes"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server implements ClassBookingServiceServer on top of the use cases.
type Server struct {
	classes  classes.ClassUseCase
	bookings booking.BookingUseCase
	validate *validator.Validate
}

func NewServer(classes classes.ClassUseCase, bookings booking.BookingUseCase) *Server {
	return &Server{classes: classes, bookings: bookings, validate: validator.New()}
}

func (s *Server) ListClasses(ctx context.Context, req *ListClassesRequest) (*ListClassesResponse, error) {
	views, err := s.classes.ListUpcoming(ctx, req.Timezone)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListClassesResponse{Classes: views}, nil
}

func (s *Server) BookClass(ctx context.Context, req *BookClassRequest) (*BookClassResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if strings.TrimSpace(req.ClientName) == "" {
		return nil, status.Error(codes.InvalidArgument, "client_name must not be blank")
	}

	confirmation, err := s.bookings.Reserve(ctx, booking.ReserveInput{
		ClassID:     req.ClassID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &BookClassResponse{Confirmation: confirmation}, nil
}

func (s *Server) ListBookings(ctx context.Context, req *ListBookingsRequest) (*ListBookingsResponse, error) {
	views, err := s.bookings.ListByEmail(ctx, req.Email, req.Timezone)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListBookingsResponse{Bookings: views}, nil
}

func toStatus(err error) error {
	var code codes.Code
	switch domain.Code(err) {
	case domain.CodeNotFound:
		code = codes.NotFound
	case domain.CodeInvalidRequest:
		code = codes.InvalidArgument
	case domain.CodeCapacityExceeded:
		code = codes.ResourceExhausted
	case domain.CodeDuplicateBooking:
		code = codes.AlreadyExists
	case domain.CodeConflict:
		code = codes.Aborted
	default:
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}

// LoggingInterceptor logs each unary call with its status code and duration.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("latency", time.Since(start)),
		}
		if code == codes.Internal || code == codes.Unknown {
			logger.Error("grpc", append(fields, zap.Error(err))...)
		} else {
			logger.Info("grpc", fields...)
		}
		return resp, err
	}
}

var _ ClassBookingServiceServer = (*Server)(nil)
