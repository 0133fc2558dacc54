package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ferienhaus/kalender-api/internal/core/domain"
	"github.com/ferienhaus/kalender-api/internal/core/ports"
)

// stubBookingRepo is an in-memory BookingRepository with the same conflict
// semantics as the Postgres implementation.
type stubBookingRepo struct {
	bookings map[int64]*domain.Booking
	nextID   int64
	// conflictQueries counts how often the store was asked to check overlap,
	// to assert that validation and authorization short-circuit first.
	conflictQueries int
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{bookings: make(map[int64]*domain.Booking), nextID: 1}
}

func (r *stubBookingRepo) findConflict(start, end domain.Date, excludeID int64) bool {
	r.conflictQueries++
	for _, b := range r.bookings {
		if b.ID == excludeID {
			continue
		}
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func (r *stubBookingRepo) List(_ context.Context) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *stubBookingRepo) FindByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBookingRepo) CreateConflictFree(_ context.Context, b *domain.Booking) error {
	if r.findConflict(b.StartDate, b.EndDate, 0) {
		return domain.ErrBookingConflict
	}
	b.ID = r.nextID
	r.nextID++
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *stubBookingRepo) UpdateConflictFree(_ context.Context, b *domain.Booking) error {
	current, ok := r.bookings[b.ID]
	if !ok {
		return domain.ErrBookingNotFound
	}
	if r.findConflict(b.StartDate, b.EndDate, b.ID) {
		return domain.ErrBookingConflict
	}
	b.CreatedAt = current.CreatedAt
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *stubBookingRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.bookings[id]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(r.bookings, id)
	return nil
}

func newTestBookingService() (*BookingService, *stubBookingRepo) {
	repo := newStubBookingRepo()
	registry := domain.NewRegistry(domain.DefaultParties())
	return NewBookingService(repo, registry, zerolog.Nop()), repo
}

func d(day int) domain.Date {
	return domain.NewDate(2026, time.July, day)
}

func intPtr(i int) *int { return &i }

func partyIdentity(partyID int) domain.Identity {
	return domain.Identity{PartyID: intPtr(partyID), Username: "party user"}
}

var adminIdentity = domain.Identity{IsAdmin: true, Username: domain.AdminUsername}

func input(partyID, startDay, endDay int) ports.BookingInput {
	return ports.BookingInput{PartyID: partyID, StartDate: d(startDay), EndDate: d(endDay)}
}

func TestBookingService_Create_Success(t *testing.T) {
	svc, _ := newTestBookingService()

	view, err := svc.CreateBooking(context.Background(), partyIdentity(1), ports.BookingInput{
		PartyID:   1,
		StartDate: d(1),
		EndDate:   d(5),
		Note:      "Sommerferien",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if view.PartyName != "Siggi & Mausi" || view.PartyColor != "#2D5A47" {
		t.Fatalf("unexpected party enrichment: %+v", view)
	}
	if view.Note != "Sommerferien" {
		t.Fatalf("note lost: %+v", view)
	}
	if view.CreatedAt.IsZero() {
		t.Fatalf("expected creation timestamp")
	}
}

func TestBookingService_Create_EndBeforeStartNeverReachesStore(t *testing.T) {
	svc, repo := newTestBookingService()

	_, err := svc.CreateBooking(context.Background(), partyIdentity(1), input(1, 5, 1))
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	if repo.conflictQueries != 0 || len(repo.bookings) != 0 {
		t.Fatalf("invalid input must not reach the store")
	}
}

func TestBookingService_Create_SingleDayBookingAllowed(t *testing.T) {
	svc, _ := newTestBookingService()

	if _, err := svc.CreateBooking(context.Background(), partyIdentity(1), input(1, 3, 3)); err != nil {
		t.Fatalf("equal dates denote a single-day booking: %v", err)
	}
}

func TestBookingService_Create_UnknownPartyRejected(t *testing.T) {
	svc, repo := newTestBookingService()

	_, err := svc.CreateBooking(context.Background(), adminIdentity, input(9, 1, 5))
	if !errors.Is(err, domain.ErrUnknownParty) {
		t.Fatalf("expected ErrUnknownParty, got %v", err)
	}
	if repo.conflictQueries != 0 {
		t.Fatalf("unknown party must not reach the store")
	}
}

func TestBookingService_Create_ForeignPartyForbiddenBeforeConflictCheck(t *testing.T) {
	svc, repo := newTestBookingService()

	// Party 2 already holds the range; party 1's user tries to book for
	// party 2. The answer must be the authorization failure, not the
	// conflict, so conflict existence never leaks to unauthorized callers.
	if _, err := svc.CreateBooking(context.Background(), partyIdentity(2), input(2, 1, 5)); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	queriesBefore := repo.conflictQueries

	_, err := svc.CreateBooking(context.Background(), partyIdentity(1), input(2, 1, 5))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.conflictQueries != queriesBefore {
		t.Fatalf("authorization failure must short-circuit before the overlap check")
	}
}

func TestBookingService_Create_AdminMayBookForAnyParty(t *testing.T) {
	svc, _ := newTestBookingService()

	for partyID := 1; partyID <= 4; partyID++ {
		start := partyID * 10
		if _, err := svc.CreateBooking(context.Background(), adminIdentity, input(partyID, start, start+2)); err != nil {
			t.Fatalf("admin create for party %d: %v", partyID, err)
		}
	}
}

func TestBookingService_Create_OverlapScenario(t *testing.T) {
	svc, _ := newTestBookingService()
	ctx := context.Background()

	// Party 1 books [day0, day5].
	if _, err := svc.CreateBooking(ctx, partyIdentity(1), input(1, 0+1, 5+1)); err != nil {
		t.Fatalf("initial booking: %v", err)
	}

	// Party 2 attempts [day3, day7]: overlaps.
	if _, err := svc.CreateBooking(ctx, partyIdentity(2), input(2, 3+1, 7+1)); !errors.Is(err, domain.ErrBookingConflict) {
		t.Fatalf("expected ErrBookingConflict for [day3, day7], got %v", err)
	}

	// Party 2 attempts [day6, day10]: one-day gap, succeeds.
	if _, err := svc.CreateBooking(ctx, partyIdentity(2), input(2, 6+1, 10+1)); err != nil {
		t.Fatalf("booking after a gap day must succeed: %v", err)
	}

	// Party 3 attempts [day5, day8]: touches day5 of the first booking and
	// overlaps the second outright.
	if _, err := svc.CreateBooking(ctx, partyIdentity(3), input(3, 5+1, 8+1)); !errors.Is(err, domain.ErrBookingConflict) {
		t.Fatalf("expected ErrBookingConflict for touching range, got %v", err)
	}
}

func TestBookingService_Update_NoteOnlyChangeDoesNotConflictWithSelf(t *testing.T) {
	svc, _ := newTestBookingService()
	ctx := context.Background()

	view, err := svc.CreateBooking(ctx, partyIdentity(1), input(1, 1, 5))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateBooking(ctx, partyIdentity(1), view.ID, ports.BookingInput{
		PartyID:   1,
		StartDate: d(1),
		EndDate:   d(5),
		Note:      "jetzt mit Hund",
	})
	if err != nil {
		t.Fatalf("same-dates update must not conflict with itself: %v", err)
	}
	if updated.Note != "jetzt mit Hund" {
		t.Fatalf("note not replaced: %+v", updated)
	}
	if updated.ID != view.ID {
		t.Fatalf("id must be immutable")
	}
	if !updated.CreatedAt.Equal(view.CreatedAt) {
		t.Fatalf("created_at must be immutable")
	}
}

func TestBookingService_Update_ConflictWithOtherBooking(t *testing.T) {
	svc, _ := newTestBookingService()
	ctx := context.Background()

	if _, err := svc.CreateBooking(ctx, partyIdentity(1), input(1, 1, 5)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	view, err := svc.CreateBooking(ctx, partyIdentity(2), input(2, 10, 12))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.UpdateBooking(ctx, partyIdentity(2), view.ID, input(2, 4, 8)); !errors.Is(err, domain.ErrBookingConflict) {
		t.Fatalf("expected ErrBookingConflict, got %v", err)
	}
}

func TestBookingService_Update_NotFound(t *testing.T) {
	svc, _ := newTestBookingService()

	if _, err := svc.UpdateBooking(context.Background(), adminIdentity, 99, input(1, 1, 5)); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestBookingService_Update_ForeignBookingForbidden(t *testing.T) {
	svc, _ := newTestBookingService()
	ctx := context.Background()

	view, err := svc.CreateBooking(ctx, partyIdentity(1), input(1, 1, 5))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.UpdateBooking(ctx, partyIdentity(2), view.ID, input(1, 1, 6)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestBookingService_Update_PartyChangeNeedsAuthorizationForNewParty(t *testing.T) {
	svc, _ := newTestBookingService()
	ctx := context.Background()

	view, err := svc.CreateBooking(ctx, partyIdentity(1), input(1, 1, 5))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Party 1's user may touch their own booking but not hand it to party 2.
	if _, err := svc.UpdateBooking(ctx, partyIdentity(1), view.ID, input(2, 1, 5)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden when reassigning to a foreign party, got %v", err)
	}

	// The admin may.
	updated, err := svc.UpdateBooking(ctx, adminIdentity, view.ID, input(2, 1, 5))
	if err != nil {
		t.Fatalf("admin reassignment: %v", err)
	}
	if updated.PartyID != 2 || updated.PartyName != "Silke & Wolfi & Zoe" {
		t.Fatalf("unexpected reassigned booking: %+v", updated)
	}
}

func TestBookingService_Delete_OwnAndForeign(t *testing.T) {
	svc, _ := newTestBookingService()
	ctx := context.Background()

	view, err := svc.CreateBooking(ctx, partyIdentity(1), input(1, 1, 5))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.DeleteBooking(ctx, partyIdentity(2), view.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign delete, got %v", err)
	}
	if err := svc.DeleteBooking(ctx, partyIdentity(1), view.ID); err != nil {
		t.Fatalf("own delete: %v", err)
	}
	// Deleting the same id twice yields not-found the second time.
	if err := svc.DeleteBooking(ctx, partyIdentity(1), view.ID); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound on second delete, got %v", err)
	}
}

func TestBookingService_Delete_NonexistentID(t *testing.T) {
	svc, _ := newTestBookingService()

	if err := svc.DeleteBooking(context.Background(), adminIdentity, 42); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestBookingService_List_OrderedByStartDate(t *testing.T) {
	svc, _ := newTestBookingService()
	ctx := context.Background()

	if _, err := svc.CreateBooking(ctx, adminIdentity, input(2, 20, 22)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.CreateBooking(ctx, adminIdentity, input(1, 1, 3)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.CreateBooking(ctx, adminIdentity, input(3, 10, 12)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	views, err := svc.ListBookings(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 bookings, got %d", len(views))
	}
	for i := 1; i < len(views); i++ {
		if views[i].StartDate.Before(views[i-1].StartDate) {
			t.Fatalf("bookings not ordered by start date: %+v", views)
		}
	}
	if views[0].PartyID != 1 || views[1].PartyID != 3 || views[2].PartyID != 2 {
		t.Fatalf("unexpected order: %+v", views)
	}
}
