package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hongminglow/learnhub-be/internal/models/dto"
	"github.com/hongminglow/learnhub-be/internal/validation"
)

var (
	ErrSubmitDisabled  = errors.New("submit is disabled until phone and password are valid")
	ErrCaptchaRequired = errors.New("solve the verification code before retrying")
)

const (
	PhoneHint    = "enter a valid phone number, e.g. +15551234567"
	PasswordHint = "password needs at least 6 characters with a letter and a digit"
)

// Authenticator exchanges credentials for a session token.
type Authenticator interface {
	Login(ctx context.Context, phone, password string) (dto.LoginResponse, error)
}

// FieldState is a snapshot of one input.
type FieldState struct {
	Value string
	// Valid is only meaningful once Checked is true.
	Valid   bool
	Checked bool
}

// LoginForm holds the login inputs and decides when submitting is allowed.
// Field validity is recomputed a debounce delay after the last edit and is
// false while a recomputation is pending. After any failed submit a captcha
// must be solved before the next submit.
type LoginForm struct {
	api    Authenticator
	tokens TokenStore

	phoneDebounce    *Debouncer
	passwordDebounce *Debouncer

	mu              sync.Mutex
	phone           FieldState
	password        FieldState
	loading         bool
	captcha         *Captcha
	captchaRequired bool
	captchaSolved   bool
}

// FormOption configures a LoginForm.
type FormOption func(*LoginForm)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) FormOption {
	return func(f *LoginForm) {
		f.phoneDebounce = NewDebouncer(d)
		f.passwordDebounce = NewDebouncer(d)
	}
}

// WithCaptcha replaces the default captcha, mostly for tests.
func WithCaptcha(c *Captcha) FormOption {
	return func(f *LoginForm) { f.captcha = c }
}

// NewLoginForm builds a form that logs in through api and saves tokens to tokens.
func NewLoginForm(api Authenticator, tokens TokenStore, opts ...FormOption) *LoginForm {
	f := &LoginForm{
		api:              api,
		tokens:           tokens,
		phoneDebounce:    NewDebouncer(DefaultDebounce),
		passwordDebounce: NewDebouncer(DefaultDebounce),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.captcha == nil {
		f.captcha = NewCaptcha()
	}
	return f
}

// SetPhone records a phone edit and restarts its validation timer.
func (f *LoginForm) SetPhone(value string) {
	f.mu.Lock()
	f.phone = FieldState{Value: value}
	f.mu.Unlock()
	f.phoneDebounce.Trigger(func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.phone.Value == value {
			f.phone.Valid = validation.PhoneFormat(value)
			f.phone.Checked = true
		}
	})
}

// SetPassword records a password edit and restarts its validation timer.
func (f *LoginForm) SetPassword(value string) {
	f.mu.Lock()
	f.password = FieldState{Value: value}
	f.mu.Unlock()
	f.passwordDebounce.Trigger(func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.password.Value == value {
			f.password.Valid = validation.PasswordStrong(value)
			f.password.Checked = true
		}
	})
}

// Flush runs pending validations without waiting for the delay.
func (f *LoginForm) Flush() {
	f.phoneDebounce.Flush()
	f.passwordDebounce.Flush()
}

func (f *LoginForm) Phone() FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phone
}

func (f *LoginForm) Password() FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.password
}

// Loading reports whether a submit is in flight.
func (f *LoginForm) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// CanSubmit is true when both fields are valid and no login is in flight.
func (f *LoginForm) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canSubmitLocked()
}

func (f *LoginForm) canSubmitLocked() bool {
	return f.phone.Checked && f.phone.Valid &&
		f.password.Checked && f.password.Valid &&
		!f.loading
}

// CaptchaRequired reports whether a failed attempt has armed the captcha.
func (f *LoginForm) CaptchaRequired() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.captchaRequired && !f.captchaSolved
}

func (f *LoginForm) CaptchaCode() string {
	return f.captcha.Code()
}

// SolveCaptcha checks an answer. A wrong answer rotates the code.
func (f *LoginForm) SolveCaptcha(input string) bool {
	ok := f.captcha.Check(input)
	f.mu.Lock()
	f.captchaSolved = ok
	f.mu.Unlock()
	return ok
}

// Submit logs in with the current inputs and saves the token. Any failure
// arms the captcha with a fresh code.
func (f *LoginForm) Submit(ctx context.Context) (dto.LoginResponse, error) {
	f.mu.Lock()
	if !f.canSubmitLocked() {
		f.mu.Unlock()
		return dto.LoginResponse{}, ErrSubmitDisabled
	}
	if f.captchaRequired && !f.captchaSolved {
		f.mu.Unlock()
		return dto.LoginResponse{}, ErrCaptchaRequired
	}
	f.loading = true
	phone, password := f.phone.Value, f.password.Value
	f.mu.Unlock()

	res, err := f.api.Login(ctx, phone, password)
	if err == nil {
		if saveErr := f.tokens.Save(res.Token); saveErr != nil {
			err = fmt.Errorf("save token: %w", saveErr)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	f.captchaSolved = false
	if err != nil {
		f.captchaRequired = true
		f.captcha.Refresh()
		return dto.LoginResponse{}, err
	}
	f.captchaRequired = false
	return res, nil
}

// Close cancels pending validations. The form must not be edited afterwards.
func (f *LoginForm) Close() {
	f.phoneDebounce.Stop()
	f.passwordDebounce.Stop()
}
