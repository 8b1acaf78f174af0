package domain

import "time"

const EventBookingCreated = "booking_created"

// BookingEvent is published after a reservation commits.
type BookingEvent struct {
	Type        string    `json:"type"`
	Reference   string    `json:"reference"`
	ClassID     int64     `json:"class_id"`
	ClassName   string    `json:"class_name"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	StartsAt    time.Time `json:"starts_at"`
	CreatedAt   time.Time `json:"created_at"`
}
