package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/learnhub-be/internal/apperr"
	"github.com/hongminglow/learnhub-be/internal/logging"
	"github.com/hongminglow/learnhub-be/internal/models"
)

type stubAuthenticator struct {
	tokens map[string]models.Principal
	fail   error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (models.Principal, error) {
	if s.fail != nil {
		return models.Principal{}, s.fail
	}
	if token == "" {
		return models.Principal{}, apperr.Authentication(apperr.CodeMissingToken, "missing token")
	}
	p, ok := s.tokens[token]
	if !ok {
		return models.Principal{}, apperr.Authentication(apperr.CodeInvalidToken, "invalid token")
	}
	return p, nil
}

func echoPrincipal(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		w.Write([]byte("anonymous"))
		return
	}
	w.Write([]byte(p.Phone + "|" + TokenFromContext(r.Context())))
}

func newStubSession() *Session {
	return NewSession(stubAuthenticator{tokens: map[string]models.Principal{
		"good": {ID: 7, Phone: "+15551234567"},
	}}, logging.Discard())
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"Bearer abc":       "abc",
		"bearer   abc  ":   "abc",
		"Basic dXNlcjpwdw": "",
		"Bearer":           "",
		"abc":              "",
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, BearerToken(req), header)
	}
}

func TestRequire(t *testing.T) {
	h := newStubSession().Require(http.HandlerFunc(echoPrincipal))

	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"valid", "Bearer good", http.StatusOK, ""},
		{"missing", "", http.StatusUnauthorized, apperr.CodeMissingToken},
		{"not bearer", "Token good", http.StatusUnauthorized, apperr.CodeMissingToken},
		{"unknown", "Bearer nope", http.StatusUnauthorized, apperr.CodeInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			if tc.code == "" {
				assert.Equal(t, "+15551234567|good", rec.Body.String())
				return
			}
			assert.Contains(t, rec.Body.String(), `"code":"`+tc.code+`"`)
		})
	}
}

func TestRequireInternalFailure(t *testing.T) {
	s := NewSession(stubAuthenticator{fail: apperr.Internal(errors.New("db down"))}, logging.Discard())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	s.Require(http.HandlerFunc(echoPrincipal)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestOptional(t *testing.T) {
	h := newStubSession().Optional(http.HandlerFunc(echoPrincipal))

	for header, want := range map[string]string{
		"":            "anonymous",
		"Bearer bad":  "anonymous",
		"Bearer good": "+15551234567|good",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/community/discussions", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, want, rec.Body.String())
	}
}
