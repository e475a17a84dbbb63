package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/learnhub-be/internal/apperr"
	"github.com/hongminglow/learnhub-be/internal/auth"
	"github.com/hongminglow/learnhub-be/internal/logging"
	"github.com/hongminglow/learnhub-be/internal/models"
	"github.com/hongminglow/learnhub-be/internal/storage"
	"github.com/hongminglow/learnhub-be/internal/storage/memory"
)

// MockUserStore is a mock implementation of storage.UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserStore) FindByPhone(ctx context.Context, phone string) (models.User, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserStore) FindByID(ctx context.Context, id int64) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserStore) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// memoryDenylist is an in-process auth.Denylist.
type memoryDenylist struct {
	revoked map[string]time.Duration
}

func newMemoryDenylist() *memoryDenylist {
	return &memoryDenylist{revoked: map[string]time.Duration{}}
}

func (d *memoryDenylist) Revoke(_ context.Context, id string, ttl time.Duration) error {
	d.revoked[id] = ttl
	return nil
}

func (d *memoryDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := d.revoked[id]
	return ok, nil
}

const (
	testPhone    = "+15551234567"
	testPassword = "abc123"
)

type fixture struct {
	store    *memory.Store
	tokens   *auth.TokenManager
	denylist *memoryDenylist
	svc      *AuthService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	tokens := auth.NewTokenManager("test-secret", "learnhub-test", auth.DefaultTTL)
	deny := newMemoryDenylist()
	return fixture{
		store:    store,
		tokens:   tokens,
		denylist: deny,
		svc:      NewAuthService(store, tokens, deny, logging.Discard()),
	}
}

func kindOf(err error) apperr.Kind {
	return apperr.From(err).Kind
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, " "+testPhone+" ", testPassword)
	require.NoError(t, err)
	assert.Equal(t, testPhone, user.Phone)
	assert.NotEqual(t, testPassword, user.PasswordHash)

	res, err := f.svc.Login(ctx, testPhone, testPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)

	claims, err := f.tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, testPhone, claims.Phone)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, testPhone, testPassword)
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, testPhone, "xyz789")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, kindOf(err))
	assert.Equal(t, MsgPhoneTaken, apperr.From(err).Message)
}

func TestRegisterRaceLosesToUniqueConstraint(t *testing.T) {
	users := new(MockUserStore)
	users.On("FindByPhone", mock.Anything, testPhone).Return(models.User{}, storage.ErrNotFound)
	users.On("CreateUser", mock.Anything, mock.AnythingOfType("models.User")).Return(models.User{}, storage.ErrAlreadyExists)

	svc := NewAuthService(users, auth.NewTokenManager("s", "i", time.Hour), newMemoryDenylist(), logging.Discard())
	_, err := svc.Register(context.Background(), testPhone, testPassword)
	assert.Equal(t, apperr.KindConflict, kindOf(err))
	users.AssertExpectations(t)
}

func TestRegisterValidationNeverTouchesStore(t *testing.T) {
	users := new(MockUserStore)
	svc := NewAuthService(users, auth.NewTokenManager("s", "i", time.Hour), newMemoryDenylist(), logging.Discard())

	_, err := svc.Register(context.Background(), "12", "short")
	require.Error(t, err)
	appErr := apperr.From(err)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "phone")
	assert.Contains(t, appErr.Fields, "password")

	_, err = svc.Login(context.Background(), testPhone, "abcdefg")
	assert.Equal(t, apperr.KindValidation, kindOf(err))
	users.AssertNotCalled(t, "FindByPhone", mock.Anything, mock.Anything)
}

func TestLoginFailuresShareMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, testPhone, testPassword)
	require.NoError(t, err)

	_, unknownErr := f.svc.Login(ctx, "+15550000000", testPassword)
	_, wrongErr := f.svc.Login(ctx, testPhone, "wrong123")

	for _, err := range []error{unknownErr, wrongErr} {
		appErr := apperr.From(err)
		assert.Equal(t, apperr.KindAuthentication, appErr.Kind)
		assert.Equal(t, apperr.CodeInvalidCredentials, appErr.Code)
	}
	assert.Equal(t, apperr.From(unknownErr).Message, apperr.From(wrongErr).Message)
}

func TestLoginStoreFailureIsInternal(t *testing.T) {
	users := new(MockUserStore)
	users.On("FindByPhone", mock.Anything, testPhone).Return(models.User{}, errors.New("connection reset"))

	svc := NewAuthService(users, auth.NewTokenManager("s", "i", time.Hour), newMemoryDenylist(), logging.Discard())
	_, err := svc.Login(context.Background(), testPhone, testPassword)
	appErr := apperr.From(err)
	assert.Equal(t, apperr.KindInternal, appErr.Kind)
	assert.Equal(t, "internal server error", appErr.Message)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, err := f.svc.Register(ctx, testPhone, testPassword)
	require.NoError(t, err)
	res, err := f.svc.Login(ctx, testPhone, testPassword)
	require.NoError(t, err)

	p, err := f.svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, p.ID)
	assert.Equal(t, testPhone, p.Phone)
	assert.NotEmpty(t, p.TokenID)

	cases := map[string]struct {
		token string
		code  string
	}{
		"missing":   {"", apperr.CodeMissingToken},
		"malformed": {"abc.def.ghi", apperr.CodeInvalidToken},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Authenticate(ctx, tc.token)
			assert.Equal(t, tc.code, apperr.From(err).Code)
		})
	}
}

func TestAuthenticateRejectsDeletedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, err := f.svc.Register(ctx, testPhone, testPassword)
	require.NoError(t, err)
	res, err := f.svc.Login(ctx, testPhone, testPassword)
	require.NoError(t, err)

	require.NoError(t, f.store.DeleteUser(ctx, user.ID))

	// signature and expiry are still fine
	_, err = f.tokens.Parse(res.Token)
	require.NoError(t, err)

	_, err = f.svc.Authenticate(ctx, res.Token)
	assert.Equal(t, apperr.CodeUnknownUser, apperr.From(err).Code)

	_, err = f.svc.CurrentUser(ctx, res.Token)
	assert.Equal(t, apperr.KindNotFound, kindOf(err))
}

func TestAuthenticateExpiryWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, err := f.svc.Register(ctx, testPhone, testPassword)
	require.NoError(t, err)

	issuedAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	issued, err := f.tokens.WithClock(func() time.Time { return issuedAt }).Generate(user)
	require.NoError(t, err)

	at := func(ts time.Time) *AuthService {
		tokens := f.tokens.WithClock(func() time.Time { return ts })
		return NewAuthService(f.store, tokens, f.denylist, logging.Discard())
	}

	_, err = at(issuedAt.Add(7*24*time.Hour - time.Second)).Authenticate(ctx, issued.Token)
	assert.NoError(t, err)

	_, err = at(issuedAt.Add(7*24*time.Hour)).Authenticate(ctx, issued.Token)
	assert.Equal(t, apperr.CodeExpiredToken, apperr.From(err).Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, testPhone, testPassword)
	require.NoError(t, err)
	res, err := f.svc.Login(ctx, testPhone, testPassword)
	require.NoError(t, err)

	p, err := f.svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx, p))

	ttl := f.denylist.revoked[p.TokenID]
	assert.InDelta(t, (7 * 24 * time.Hour).Seconds(), ttl.Seconds(), 5)

	_, err = f.svc.Authenticate(ctx, res.Token)
	assert.Equal(t, apperr.CodeRevokedToken, apperr.From(err).Code)
}

func TestCurrentUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, err := f.svc.Register(ctx, testPhone, testPassword)
	require.NoError(t, err)
	res, err := f.svc.Login(ctx, testPhone, testPassword)
	require.NoError(t, err)

	got, err := f.svc.CurrentUser(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.CreatedAt, got.CreatedAt)

	_, err = f.svc.CurrentUser(ctx, "")
	assert.Equal(t, apperr.KindAuthentication, kindOf(err))
}
