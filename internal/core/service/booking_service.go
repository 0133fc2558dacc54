package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ferienhaus/kalender-api/internal/core/domain"
	"github.com/ferienhaus/kalender-api/internal/core/ports"
	"github.com/ferienhaus/kalender-api/internal/metrics"
)

// Fallbacks rendered when a stored booking references a party the registry no
// longer knows. Should not happen while the registry is authoritative.
const (
	unknownPartyName  = "Unbekannt"
	unknownPartyColor = "#888888"
)

// BookingService orchestrates every booking mutation. For create and update
// the checks run in a fixed order, short-circuiting on the first failure:
// structural validation, then authorization, then the overlap check. The
// ordering matters: an unauthorized caller gets the authorization failure
// even when the booking would also conflict, so conflict information never
// leaks to callers who may not mutate the target party.
type BookingService struct {
	repo     ports.BookingRepository
	registry *domain.Registry
	logger   zerolog.Logger
}

func NewBookingService(repo ports.BookingRepository, registry *domain.Registry, logger zerolog.Logger) *BookingService {
	return &BookingService{repo: repo, registry: registry, logger: logger}
}

// ListBookings returns all bookings, start date ascending, enriched with
// party name and color. Any valid identity may list; there is no per-party
// read restriction.
func (s *BookingService) ListBookings(ctx context.Context) ([]ports.BookingView, error) {
	bookings, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ports.BookingView, 0, len(bookings))
	for i := range bookings {
		views = append(views, *s.view(&bookings[i]))
	}
	return views, nil
}

// CreateBooking validates, authorizes and persists a new booking.
func (s *BookingService) CreateBooking(ctx context.Context, identity domain.Identity, in ports.BookingInput) (*ports.BookingView, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	if !identity.CanModify(in.PartyID) {
		return nil, domain.ErrForbidden
	}

	booking := &domain.Booking{
		PartyID:   in.PartyID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Note:      in.Note,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateConflictFree(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrBookingConflict) {
			metrics.BookingConflictsTotal.WithLabelValues("create").Inc()
		}
		return nil, err
	}

	view := s.view(booking)
	metrics.BookingsCreatedTotal.WithLabelValues(view.PartyName).Inc()
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int("party_id", booking.PartyID).
		Str("start_date", booking.StartDate.String()).
		Str("end_date", booking.EndDate.String()).
		Msg("booking created")
	return view, nil
}

// UpdateBooking replaces party, dates and note of an existing booking. The
// id and creation timestamp are immutable. When the update moves the booking
// to another party, the caller must be authorized for the new party as well.
func (s *BookingService) UpdateBooking(ctx context.Context, identity domain.Identity, id int64, in ports.BookingInput) (*ports.BookingView, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}
	if !identity.CanModify(existing.PartyID) {
		return nil, domain.ErrForbidden
	}
	if in.PartyID != existing.PartyID && !identity.CanModify(in.PartyID) {
		return nil, domain.ErrForbidden
	}

	updated := *existing
	updated.PartyID = in.PartyID
	updated.StartDate = in.StartDate
	updated.EndDate = in.EndDate
	updated.Note = in.Note
	if err := s.repo.UpdateConflictFree(ctx, &updated); err != nil {
		if errors.Is(err, domain.ErrBookingConflict) {
			metrics.BookingConflictsTotal.WithLabelValues("update").Inc()
		}
		return nil, err
	}

	s.logger.Info().Int64("booking_id", id).Int("party_id", updated.PartyID).Msg("booking updated")
	return s.view(&updated), nil
}

// DeleteBooking removes a booking permanently. No history is retained.
func (s *BookingService) DeleteBooking(ctx context.Context, identity domain.Identity, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !identity.CanModify(existing.PartyID) {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	metrics.BookingsDeletedTotal.Inc()
	s.logger.Info().Int64("booking_id", id).Int("party_id", existing.PartyID).Msg("booking deleted")
	return nil
}

// validate performs the structural checks: the party must be known to the
// registry, and the dates must form a valid closed interval (equal dates
// denote a single-day booking).
func (s *BookingService) validate(in ports.BookingInput) error {
	if !s.registry.Contains(in.PartyID) {
		return domain.ErrUnknownParty
	}
	if in.EndDate.Before(in.StartDate) {
		return domain.ErrInvalidDateRange
	}
	return nil
}

func (s *BookingService) view(b *domain.Booking) *ports.BookingView {
	name, color := unknownPartyName, unknownPartyColor
	if p, ok := s.registry.ByID(b.PartyID); ok {
		name, color = p.Name, p.Color
	}
	return &ports.BookingView{
		ID:         b.ID,
		PartyID:    b.PartyID,
		PartyName:  name,
		PartyColor: color,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		Note:       b.Note,
		CreatedAt:  b.CreatedAt,
	}
}
