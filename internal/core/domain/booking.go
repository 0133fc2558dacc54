package domain

import (
	"errors"
	"time"
)

var ErrBookingNotFound = errors.New("booking not found")
var ErrBookingConflict = errors.New("booking overlaps an existing booking")
var ErrInvalidDateRange = errors.New("end_date must not be before start_date")
var ErrForbidden = errors.New("access forbidden")

// Booking is a reserved date range for one party. The house is shared, so
// bookings must never overlap, regardless of which party holds them.
type Booking struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PartyID   int       `json:"party_id" gorm:"not null;index"`
	StartDate Date      `json:"start_date" gorm:"type:date;not null;index"`
	EndDate   Date      `json:"end_date" gorm:"type:date;not null;index"`
	Note      string    `json:"note,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

func (Booking) TableName() string { return "bookings" }

// Overlaps reports whether the booking shares at least one calendar day with
// the [start, end] range. Intervals are closed on both ends: a booking that
// ends the day another starts still overlaps, because there is no same-day
// handover of the house. Only a true gap separates two bookings.
func (b Booking) Overlaps(start, end Date) bool {
	return !b.StartDate.After(end) && !b.EndDate.Before(start)
}
