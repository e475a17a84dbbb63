// Package client talks to the learnhub API and drives the login form.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hongminglow/learnhub-be/internal/http/respond"
	"github.com/hongminglow/learnhub-be/internal/models/dto"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	Code    string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %d %s (%s)", e.Status, e.Message, e.Code)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// API is a typed client for the auth endpoints.
type API struct {
	baseURL string
	http    *http.Client
}

// NewAPI returns a client rooted at baseURL, e.g. http://localhost:4000.
// A nil httpClient gets a client with a 10s timeout.
func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &API{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Register creates an account.
func (a *API) Register(ctx context.Context, phone, password string) (dto.RegisterResponse, error) {
	var out dto.RegisterResponse
	err := a.do(ctx, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Phone: phone, Password: password}, &out)
	return out, err
}

// Login exchanges credentials for a session token.
func (a *API) Login(ctx context.Context, phone, password string) (dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := a.do(ctx, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Phone: phone, Password: password}, &out)
	return out, err
}

// Me returns the user the token belongs to.
func (a *API) Me(ctx context.Context, token string) (dto.RegisterResponse, error) {
	var out dto.MeResponse
	err := a.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &out)
	return out.User, err
}

// Logout revokes token on the server.
func (a *API) Logout(ctx context.Context, token string) error {
	return a.do(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil)
}

func (a *API) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body respond.ErrorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.Code = body.Code
		apiErr.Fields = body.Errors
	}
	return apiErr
}
