package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/classbooking/internal/domain"
	"github.com/Domenick1991/classbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Reserve(ctx context.Context, input booking.ReserveInput) (*domain.BookingConfirmation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingConfirmation), args.Error(1)
}

func (m *MockBookingUseCase) ListByEmail(ctx context.Context, email, zone string) ([]domain.BookingView, error) {
	args := m.Called(ctx, email, zone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingView), args.Error(1)
}

func newPostContext(t *testing.T, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	c.Request = httptest.NewRequest(http.MethodPost, "/book", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newPostContext(t, map[string]any{
		"class_id":     1,
		"client_name":  "Ann",
		"client_email": "ann@example.com",
	})

	input := booking.ReserveInput{ClassID: 1, ClientName: "Ann", ClientEmail: "ann@example.com"}
	mockService.On("Reserve", c.Request.Context(), input).Return(&domain.BookingConfirmation{
		Message:     domain.BookingSuccessMessage,
		Reference:   "ref-1",
		ClassID:     1,
		ClassName:   "Yoga",
		ClientName:  "Ann",
		ClientEmail: "ann@example.com",
	}, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response domain.BookingConfirmation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Booking successful", response.Message)
	assert.Equal(t, "ref-1", response.Reference)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing class", body: map[string]any{"client_name": "Ann", "client_email": "ann@example.com"}},
		{name: "bad email", body: map[string]any{"class_id": 1, "client_name": "Ann", "client_email": "not-an-email"}},
		{name: "empty name", body: map[string]any{"class_id": 1, "client_name": "", "client_email": "ann@example.com"}},
		{name: "blank name", body: map[string]any{"class_id": 1, "client_name": "   ", "client_email": "ann@example.com"}},
		{name: "negative class", body: map[string]any{"class_id": -3, "client_name": "Ann", "client_email": "ann@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewBookingHandler(mockService)
			c, w := newPostContext(t, tt.body)

			handler.create(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var response errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, domain.CodeInvalidRequest, response.Code)
			mockService.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
		})
	}
}

func TestBookingHandler_create_DomainErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrClassNotFound, http.StatusNotFound, domain.CodeNotFound},
		{domain.ErrClassAlreadyStarted, http.StatusBadRequest, domain.CodeInvalidRequest},
		{domain.ErrClassFull, http.StatusConflict, domain.CodeCapacityExceeded},
		{domain.ErrDuplicateBooking, http.StatusConflict, domain.CodeDuplicateBooking},
		{domain.ErrConflict, http.StatusConflict, domain.CodeConflict},
		{assert.AnError, http.StatusInternalServerError, domain.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewBookingHandler(mockService)
			c, w := newPostContext(t, map[string]any{"class_id": 5, "client_name": "Ann", "client_email": "ann@example.com"})

			mockService.On("Reserve", mock.Anything, mock.Anything).Return(nil, tt.err)

			handler.create(c)

			assert.Equal(t, tt.status, w.Code)
			var response errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.code, response.Code)
			if tt.code == domain.CodeInternal {
				assert.Equal(t, "internal server error", response.Error)
			}
		})
	}
}

func TestBookingHandler_list(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/bookings?email=ann@example.com&timezone=UTC", nil)

	startsAt := time.Date(2030, 6, 7, 4, 30, 0, 0, time.UTC)
	mockService.On("ListByEmail", c.Request.Context(), "ann@example.com", "UTC").Return([]domain.BookingView{
		{ClassID: 1, ClassName: "Yoga", StartsAt: startsAt, Instructor: "Alice", ClientName: "Ann", ClientEmail: "ann@example.com"},
	}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, "Yoga", response[0]["class_name"])
	assert.Equal(t, "2030-06-07T04:30:00Z", response[0]["datetime"])

	mockService.AssertExpectations(t)
}

func TestBookingHandler_list_Empty(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/bookings", nil)

	mockService.On("ListByEmail", c.Request.Context(), "", "").Return([]domain.BookingView{}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
