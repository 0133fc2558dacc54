package service

import (
	"github.com/ferienhaus/kalender-api/internal/core/domain"
)

// Credentials maps the recognised usernames to their configured secrets.
// Recognised usernames are exactly the party display names plus the reserved
// admin name. Built once at startup from configuration; immutable afterwards.
type Credentials struct {
	secrets  map[string]string
	partyIDs map[string]int
}

// NewCredentials wires the per-party secrets (keyed by party id) and the
// admin secret to their usernames via the registry's display names.
func NewCredentials(registry *domain.Registry, partySecrets map[int]string, adminSecret string) *Credentials {
	c := &Credentials{
		secrets:  make(map[string]string),
		partyIDs: make(map[string]int),
	}
	for _, p := range registry.All() {
		c.secrets[p.Name] = partySecrets[p.ID]
		c.partyIDs[p.Name] = p.ID
	}
	c.secrets[domain.AdminUsername] = adminSecret
	return c
}

// Lookup returns the expected secret for username. A username whose
// configured secret is empty has no valid credential and reports false, so an
// unset environment variable can never be matched by an empty password.
func (c *Credentials) Lookup(username string) (string, bool) {
	secret, ok := c.secrets[username]
	if !ok || secret == "" {
		return "", false
	}
	return secret, true
}

// Identity builds the identity a successful login as username yields.
func (c *Credentials) Identity(username string) domain.Identity {
	if username == domain.AdminUsername {
		return domain.Identity{IsAdmin: true, Username: username}
	}
	id := c.partyIDs[username]
	return domain.Identity{PartyID: &id, Username: username}
}
