package ports

import (
	"context"
	"time"

	"github.com/ferienhaus/kalender-api/internal/core/domain"
)

// BookingInput carries the mutable booking fields from the transport layer.
// The same shape is used for create and for update (full replace).
type BookingInput struct {
	PartyID   int
	StartDate domain.Date
	EndDate   domain.Date
	Note      string
}

// BookingView is a booking enriched with its party's display name and color,
// as rendered to clients.
type BookingView struct {
	ID         int64
	PartyID    int
	PartyName  string
	PartyColor string
	StartDate  domain.Date
	EndDate    domain.Date
	Note       string
	CreatedAt  time.Time
}

// BookingService defines the use-case operations on bookings. All mutations
// run validation, authorization and overlap checking in that fixed order,
// short-circuiting on the first failure.
type BookingService interface {
	ListBookings(ctx context.Context) ([]BookingView, error)
	CreateBooking(ctx context.Context, identity domain.Identity, in BookingInput) (*BookingView, error)
	UpdateBooking(ctx context.Context, identity domain.Identity, id int64, in BookingInput) (*BookingView, error)
	DeleteBooking(ctx context.Context, identity domain.Identity, id int64) error
}
