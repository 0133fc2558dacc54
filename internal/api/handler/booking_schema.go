package handler

import (
	"time"

	"github.com/ferienhaus/kalender-api/internal/core/domain"
	"github.com/ferienhaus/kalender-api/internal/core/ports"
)

// bookingRequest is the payload for both create and update (full replace).
// Whether party_id names an existing party is decided by the service against
// the party registry, not by a static bound here.
type bookingRequest struct {
	PartyID   int         `json:"party_id"   validate:"required,min=1"`
	StartDate domain.Date `json:"start_date" validate:"required"`
	EndDate   domain.Date `json:"end_date"   validate:"required"`
	Note      string      `json:"note"`
}

func (r bookingRequest) toInput() ports.BookingInput {
	return ports.BookingInput{
		PartyID:   r.PartyID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Note:      r.Note,
	}
}

// bookingResponse is the client-facing booking shape, enriched with the
// party's display name and calendar color.
type bookingResponse struct {
	ID         int64       `json:"id"`
	PartyID    int         `json:"party_id"`
	PartyName  string      `json:"party_name"`
	PartyColor string      `json:"party_color"`
	StartDate  domain.Date `json:"start_date"`
	EndDate    domain.Date `json:"end_date"`
	Note       string      `json:"note,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

func toBookingResponse(v *ports.BookingView) bookingResponse {
	return bookingResponse{
		ID:         v.ID,
		PartyID:    v.PartyID,
		PartyName:  v.PartyName,
		PartyColor: v.PartyColor,
		StartDate:  v.StartDate,
		EndDate:    v.EndDate,
		Note:       v.Note,
		CreatedAt:  v.CreatedAt,
	}
}
