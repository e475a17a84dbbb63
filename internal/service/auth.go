package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hongminglow/learnhub-be/internal/apperr"
	"github.com/hongminglow/learnhub-be/internal/auth"
	"github.com/hongminglow/learnhub-be/internal/logging"
	"github.com/hongminglow/learnhub-be/internal/models"
	"github.com/hongminglow/learnhub-be/internal/storage"
	"github.com/hongminglow/learnhub-be/internal/validation"
)

// Messages shown to callers. Login uses one message for an unknown
// phone and a wrong password.
const (
	MsgInvalidCredentials = "invalid phone or password"
	MsgPhoneTaken         = "phone already registered"
	MsgMissingToken       = "missing token"
	MsgUnknownUser        = "user no longer exists"
	MsgRevokedToken       = "token revoked"
	MsgUserNotFound       = "user not found"
)

// LoginResult is a freshly issued session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
}

// AuthService registers users, issues session tokens and verifies them.
type AuthService struct {
	users    storage.UserStore
	tokens   *auth.TokenManager
	denylist auth.Denylist
	log      logging.Logger
	now      func() time.Time
}

// NewAuthService wires the user store, token manager and denylist together.
func NewAuthService(users storage.UserStore, tokens *auth.TokenManager, denylist auth.Denylist, log logging.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, denylist: denylist, log: log, now: time.Now}
}

// Register validates the credentials and stores a new user with a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, phone, password string) (models.User, error) {
	creds := validation.Credentials{Phone: strings.TrimSpace(phone), Password: password}
	if err := validation.Struct(creds); err != nil {
		return models.User{}, err
	}

	_, err := s.users.FindByPhone(ctx, creds.Phone)
	switch {
	case err == nil:
		return models.User{}, apperr.Conflict(MsgPhoneTaken)
	case !errors.Is(err, storage.ErrNotFound):
		return models.User{}, apperr.Internal(fmt.Errorf("check phone: %w", err))
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		return models.User{}, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	created, err := s.users.CreateUser(ctx, models.User{Phone: creds.Phone, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, apperr.Conflict(MsgPhoneTaken)
		}
		return models.User{}, apperr.Internal(fmt.Errorf("create user: %w", err))
	}

	s.log.Info(ctx, "user registered", "user_id", created.ID, "phone", created.Phone)
	return created, nil
}

// Login checks the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, phone, password string) (LoginResult, error) {
	creds := validation.Credentials{Phone: strings.TrimSpace(phone), Password: password}
	if err := validation.Struct(creds); err != nil {
		return LoginResult{}, err
	}

	user, err := s.users.FindByPhone(ctx, creds.Phone)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			auth.BurnComparison(creds.Password)
			s.log.Warn(ctx, "login failed: unknown phone", "phone", creds.Phone)
			return LoginResult{}, apperr.Authentication(apperr.CodeInvalidCredentials, MsgInvalidCredentials)
		}
		return LoginResult{}, apperr.Internal(fmt.Errorf("find user: %w", err))
	}

	if !auth.ComparePassword(user.PasswordHash, creds.Password) {
		s.log.Warn(ctx, "login failed: wrong password", "phone", creds.Phone)
		return LoginResult{}, apperr.Authentication(apperr.CodeInvalidCredentials, MsgInvalidCredentials)
	}

	issued, err := s.tokens.Generate(user)
	if err != nil {
		return LoginResult{}, apperr.Internal(fmt.Errorf("generate token: %w", err))
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return LoginResult{Token: issued.Token, ExpiresAt: issued.ExpiresAt, User: user}, nil
}

// Authenticate verifies a raw bearer token and resolves it to a principal.
// It is the session verifier's core: signature, expiry, revocation, and the
// user still existing.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Principal, error) {
	claims, err := s.verifyToken(ctx, token)
	if err != nil {
		return models.Principal{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Principal{}, apperr.Authentication(apperr.CodeUnknownUser, MsgUnknownUser)
		}
		return models.Principal{}, apperr.Internal(fmt.Errorf("resolve token user: %w", err))
	}

	return models.Principal{
		ID:        user.ID,
		Phone:     user.Phone,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// CurrentUser returns the user a token belongs to. Unlike Authenticate, a
// deleted user is reported as not found.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (models.User, error) {
	claims, err := s.verifyToken(ctx, token)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, apperr.NotFound(MsgUserNotFound)
		}
		return models.User{}, apperr.Internal(fmt.Errorf("find user: %w", err))
	}
	return user, nil
}

// Logout revokes the principal's token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, p models.Principal) error {
	ttl := p.ExpiresAt.Sub(s.now())
	if err := s.denylist.Revoke(ctx, p.TokenID, ttl); err != nil {
		return apperr.Internal(fmt.Errorf("revoke token: %w", err))
	}
	s.log.Info(ctx, "user logged out", "user_id", p.ID)
	return nil
}

func (s *AuthService) verifyToken(ctx context.Context, token string) (*auth.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperr.Authentication(apperr.CodeMissingToken, MsgMissingToken)
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("check revocation: %w", err))
	}
	if revoked {
		return nil, apperr.Authentication(apperr.CodeRevokedToken, MsgRevokedToken)
	}
	return claims, nil
}
