package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hongminglow/learnhub-be/internal/apperr"
	"github.com/hongminglow/learnhub-be/internal/http/respond"
	"github.com/hongminglow/learnhub-be/internal/logging"
	"github.com/hongminglow/learnhub-be/internal/models"
)

type ctxKey int

const (
	principalKey ctxKey = iota
	tokenKey
)

// Authenticator resolves a raw bearer token to the caller it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Principal, error)
}

// Session guards routes with bearer tokens.
type Session struct {
	auth Authenticator
	log  logging.Logger
}

// NewSession builds the session verifier around auth.
func NewSession(auth Authenticator, log logging.Logger) *Session {
	return &Session{auth: auth, log: log}
}

// Require rejects the request with 401 unless it carries a valid token for an
// existing user. The resolved principal is attached to the request context.
func (s *Session) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		principal, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			if apperr.Is(err, apperr.KindInternal) {
				s.log.Error(r.Context(), "authenticate request", "error", err)
			}
			respond.Error(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal, token)))
	})
}

// Optional attaches a principal when the token checks out and otherwise lets
// the request through anonymously.
func (s *Session) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		principal, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			s.log.Debug(r.Context(), "optional auth ignored token", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal, token)))
	})
}

// PrincipalFromContext returns the caller attached by Require or Optional.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(models.Principal)
	return p, ok
}

// TokenFromContext returns the raw token the principal was resolved from.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// Any other shape yields "".
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func withPrincipal(ctx context.Context, p models.Principal, token string) context.Context {
	ctx = context.WithValue(ctx, principalKey, p)
	return context.WithValue(ctx, tokenKey, token)
}
