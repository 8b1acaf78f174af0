package classbooking_service_api

import "github.com/Domenick1991/classbooking/internal/domain"

type ListClassesRequest struct {
	Timezone string `json:"timezone,omitempty"`
}

type ListClassesResponse struct {
	Classes []domain.ClassView `json:"classes"`
}

type BookClassRequest struct {
	ClassID     int64  `json:"class_id" validate:"required,gt=0"`
	ClientName  string `json:"client_name" validate:"required,max=255"`
	ClientEmail string `json:"client_email" validate:"required,email,max=255"`
}

type BookClassResponse struct {
	Confirmation *domain.BookingConfirmation `json:"confirmation"`
}

type ListBookingsRequest struct {
	Email    string `json:"email,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

type ListBookingsResponse struct {
	Bookings []domain.BookingView `json:"bookings"`
}
