// Package token issues and verifies the signed, self-contained session tokens
// that stand in for server-side sessions. Verification is stateless: a token
// stays valid until its expiry regardless of logout.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ferienhaus/kalender-api/internal/core/domain"
)

// ErrInvalidToken covers every verification failure: bad signature, malformed
// structure, missing subject, or natural expiry.
var ErrInvalidToken = errors.New("invalid or expired session token")

// DefaultTTL matches the deployed session length of eight hours.
const DefaultTTL = 480 * time.Minute

// Claims is the JWT payload carried by a session token.
type Claims struct {
	PartyID *int `json:"party_id"`
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a shared HS256 key. The clock
// is injectable so expiry can be tested without sleeping.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return NewCodecWithClock(secret, ttl, time.Now)
}

func NewCodecWithClock(secret string, ttl time.Duration, now func() time.Time) *Codec {
	if ttl < 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: now}
}

// Issue produces a signed token asserting the identity until now+ttl.
func (c *Codec) Issue(identity domain.Identity) (string, error) {
	now := c.now()
	claims := Claims{
		PartyID: identity.PartyID,
		IsAdmin: identity.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature, structure and expiry, and recovers the identity.
func (c *Codec) Verify(tokenString string) (domain.Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		return domain.Identity{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return domain.Identity{}, ErrInvalidToken
	}

	return domain.Identity{
		PartyID:  claims.PartyID,
		IsAdmin:  claims.IsAdmin,
		Username: claims.Subject,
	}, nil
}
