package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hongminglow/learnhub-be/internal/apperr"
	"github.com/hongminglow/learnhub-be/internal/models"
)

// DefaultTTL is the session token lifetime when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// Claims is the payload carried by a session token.
type Claims struct {
	UserID int64  `json:"id"`
	Phone  string `json:"phone"`
	jwt.RegisteredClaims
}

// Issued is a freshly signed token and the metadata needed to revoke it.
type Issued struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenManager issues and verifies signed JWTs for authenticated users.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock returns a copy of the manager that reads time from now.
func (t *TokenManager) WithClock(now func() time.Time) *TokenManager {
	cp := *t
	cp.now = now
	return &cp
}

// TTL reports the configured token lifetime.
func (t *TokenManager) TTL() time.Duration {
	return t.ttl
}

// Generate issues a signed JWT for the provided user.
func (t *TokenManager) Generate(user models.User) (Issued, error) {
	now := t.now()
	// exp is whole seconds; round up so the token lives at least ttl.
	expiresAt := now.Add(t.ttl)
	if rounded := expiresAt.Truncate(time.Second); !rounded.Equal(expiresAt) {
		expiresAt = rounded.Add(time.Second)
	}
	id := uuid.NewString()
	claims := Claims{
		UserID: user.ID,
		Phone:  user.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    t.issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return Issued{}, err
	}
	return Issued{Token: signed, ID: id, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Parse verifies signature, algorithm, issuer and expiry. Expired tokens and
// every other failure are reported as distinct authentication errors.
func (t *TokenManager) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Authentication(apperr.CodeExpiredToken, "token expired")
		}
		return nil, apperr.Authentication(apperr.CodeInvalidToken, "invalid token")
	}
	if !parsed.Valid || claims.UserID <= 0 {
		return nil, apperr.Authentication(apperr.CodeInvalidToken, "invalid token")
	}
	return claims, nil
}
