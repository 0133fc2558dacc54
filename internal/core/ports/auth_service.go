package ports

import (
	"context"

	"github.com/ferienhaus/kalender-api/internal/core/domain"
)

// AuthService authenticates configured users and issues session tokens.
type AuthService interface {
	// Login verifies the username/password pair and returns a signed session
	// token plus the authenticated identity. All failure modes (unknown user,
	// unset secret, wrong password) collapse into
	// domain.ErrInvalidCredentials so callers cannot probe which check failed.
	Login(ctx context.Context, username, password string) (string, domain.Identity, error)
}

// LoginLimiter throttles repeated failed login attempts per username.
// Implementations are optional; a nil limiter disables throttling.
type LoginLimiter interface {
	// Allow reports whether another attempt for username is permitted.
	Allow(ctx context.Context, username string) (bool, error)
	// RecordFailure counts one failed attempt.
	RecordFailure(ctx context.Context, username string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, username string) error
}
