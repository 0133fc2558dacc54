package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrTooManyAttempts = errors.New("too many failed login attempts")

// AdminUsername is the reserved login name with unrestricted access.
const AdminUsername = "Admin"

// Identity is the authenticated subject recovered from a session token.
// Exactly one of the two holds: IsAdmin is true and PartyID is nil, or
// IsAdmin is false and PartyID names the party the user belongs to.
// Identities are transient; they are never persisted.
type Identity struct {
	PartyID  *int   `json:"party_id"`
	IsAdmin  bool   `json:"is_admin"`
	Username string `json:"username"`
}

// CanModify reports whether the identity may create, change or delete a
// booking belonging to partyID. Admins may act on any party; everyone else
// only on their own. Reads are not gated per party.
func (i Identity) CanModify(partyID int) bool {
	if i.IsAdmin {
		return true
	}
	return i.PartyID != nil && *i.PartyID == partyID
}
