package ports

import (
	"context"

	"github.com/ferienhaus/kalender-api/internal/core/domain"
)

// BookingRepository defines persistence operations for bookings.
//
// The conflict-checking mutations are atomic: the overlap query and the write
// happen inside one storage transaction, so no concurrent mutation can slip a
// conflicting booking in between check and persist.
type BookingRepository interface {
	// List returns all bookings ordered by start date ascending, ties broken
	// by id ascending.
	List(ctx context.Context) ([]domain.Booking, error)

	// FindByID returns the booking with the given id, or
	// domain.ErrBookingNotFound.
	FindByID(ctx context.Context, id int64) (*domain.Booking, error)

	// CreateConflictFree persists b with a fresh id and creation timestamp,
	// or returns domain.ErrBookingConflict when any existing booking overlaps
	// b's closed date interval.
	CreateConflictFree(ctx context.Context, b *domain.Booking) error

	// UpdateConflictFree replaces party, dates and note of the booking with
	// b.ID. The overlap check excludes the booking itself. Returns
	// domain.ErrBookingNotFound or domain.ErrBookingConflict on failure.
	UpdateConflictFree(ctx context.Context, b *domain.Booking) error

	// Delete removes the booking permanently, or returns
	// domain.ErrBookingNotFound.
	Delete(ctx context.Context, id int64) error
}
