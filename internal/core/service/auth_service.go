package service

import (
	"context"
	"crypto/subtle"

	"github.com/rs/zerolog"

	"github.com/ferienhaus/kalender-api/internal/core/domain"
	"github.com/ferienhaus/kalender-api/internal/core/ports"
	"github.com/ferienhaus/kalender-api/internal/core/token"
	"github.com/ferienhaus/kalender-api/internal/metrics"
)

// AuthService verifies configured credentials and issues session tokens.
type AuthService struct {
	creds   *Credentials
	codec   *token.Codec
	limiter ports.LoginLimiter // nil disables throttling
	logger  zerolog.Logger
}

func NewAuthService(creds *Credentials, codec *token.Codec, limiter ports.LoginLimiter, logger zerolog.Logger) *AuthService {
	return &AuthService{creds: creds, codec: codec, limiter: limiter, logger: logger}
}

// Login authenticates username/password and returns a signed session token.
// Secrets are compared in constant time; every failure mode maps to the same
// domain.ErrInvalidCredentials so the response does not reveal whether the
// username exists.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, domain.Identity, error) {
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, username)
		if err != nil {
			// A limiter outage must not lock everyone out.
			s.logger.Warn().Err(err).Msg("login limiter unavailable")
		} else if !allowed {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return "", domain.Identity{}, domain.ErrTooManyAttempts
		}
	}

	secret, known := s.creds.Lookup(username)
	match := subtle.ConstantTimeCompare([]byte(secret), []byte(password)) == 1
	if !known || !match {
		if s.limiter != nil {
			if err := s.limiter.RecordFailure(ctx, username); err != nil {
				s.logger.Warn().Err(err).Msg("failed to record login attempt")
			}
		}
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", domain.Identity{}, domain.ErrInvalidCredentials
	}

	identity := s.creds.Identity(username)
	signed, err := s.codec.Issue(identity)
	if err != nil {
		return "", domain.Identity{}, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.logger.Warn().Err(err).Msg("failed to reset login attempts")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("username", username).Bool("is_admin", identity.IsAdmin).Msg("login succeeded")
	return signed, identity, nil
}
