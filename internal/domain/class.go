package domain

import "time"

// Class is a scheduled session with a fixed number of seats.
type Class struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	StartsAt       time.Time `json:"starts_at"`
	Instructor     string    `json:"instructor"`
	TotalSlots     int       `json:"total_slots"`
	AvailableSlots int       `json:"available_slots"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HasStarted reports whether the class begins at or before now.
func (c *Class) HasStarted(now time.Time) bool {
	return !c.StartsAt.After(now)
}

func (c *Class) IsFull() bool {
	return c.AvailableSlots <= 0
}

// ClassView is a class as presented to a client in a particular time zone.
type ClassView struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	StartsAt       time.Time `json:"datetime"`
	Instructor     string    `json:"instructor"`
	AvailableSlots int       `json:"available_slots"`
}
