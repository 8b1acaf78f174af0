package domain

import "time"

type Booking struct {
	ID          int64
	Reference   string
	ClassID     int64
	ClientName  string
	ClientEmail string
	CreatedAt   time.Time
}

// BookingView joins a booking with the class it references.
type BookingView struct {
	ClassID     int64     `json:"class_id"`
	ClassName   string    `json:"class_name"`
	StartsAt    time.Time `json:"datetime"`
	Instructor  string    `json:"instructor"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
}

// BookingConfirmation is returned after a seat has been reserved.
type BookingConfirmation struct {
	Message     string    `json:"message"`
	Reference   string    `json:"reference"`
	ClassID     int64     `json:"class_id"`
	ClassName   string    `json:"class_name"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	BookedAt    time.Time `json:"booked_at"`
}

const BookingSuccessMessage = "Booking successful"
