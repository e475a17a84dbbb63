package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/hongminglow/learnhub-be/internal/auth"
	"github.com/hongminglow/learnhub-be/internal/cache"
	"github.com/hongminglow/learnhub-be/internal/logging"
	"github.com/hongminglow/learnhub-be/internal/middleware"
	"github.com/hongminglow/learnhub-be/internal/service"
	"github.com/hongminglow/learnhub-be/internal/storage/postgres"
)

// TestAuthIntegration exercises register/login/me against a live Postgres database.
func TestAuthIntegration(t *testing.T) {
	if os.Getenv("RUN_AUTH_INTEGRATION") != "true" {
		t.Skip("set RUN_AUTH_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := mustGetEnv(t, "DATABASE_URL")

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	secret := mustGetEnv(t, "JWT_SECRET")
	issuer := mustGetEnv(t, "JWT_ISSUER")
	tokens := auth.NewTokenManager(secret, issuer, mustGetTTL(t))

	log := logging.Discard()
	denylist := auth.NewRedisDenylist(cache.New(os.Getenv("REDIS_ADDR"), os.Getenv("REDIS_PASSWORD"), 0))
	authSvc := service.NewAuthService(store, tokens, denylist, log)

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		NewAuthHandler(authSvc, middleware.NewSession(authSvc, log), log).Register(api)
	})
	ts := httptest.NewServer(r)
	defer ts.Close()

	phone := fmt.Sprintf("+1555%07d", time.Now().UnixNano()%10_000_000)
	password := fmt.Sprintf("pass%d", time.Now().UnixNano()%1_000_000)

	var registered struct {
		ID    int64  `json:"id"`
		Phone string `json:"phone"`
	}
	post(t, ts.URL+"/api/auth/register", "", map[string]string{"phone": phone, "password": password}, http.StatusCreated, &registered)
	if registered.Phone != phone {
		t.Fatalf("register mismatch: got %+v", registered)
	}

	var loggedIn struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	post(t, ts.URL+"/api/auth/login", "", map[string]string{"phone": phone, "password": password}, http.StatusOK, &loggedIn)
	if loggedIn.User.ID != registered.ID {
		t.Fatalf("login returned wrong user id: want %d got %d", registered.ID, loggedIn.User.ID)
	}
	if strings.TrimSpace(loggedIn.Token) == "" {
		t.Fatal("login response missing token")
	}

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/auth/me", nil)
	if err != nil {
		t.Fatalf("build me request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+loggedIn.Token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("me request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d", resp.StatusCode)
	}

	t.Logf("registered %s (id=%d) and logged in via /api/auth/login", phone, registered.ID)
}

func post(t *testing.T, url, token string, payload any, wantStatus int, out any) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s response: %v", url, err)
		}
	}
}

func mustGetEnv(t *testing.T, key string) string {
	t.Helper()
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		t.Fatalf("%s is required", key)
	}
	return val
}

func mustGetTTL(t *testing.T) time.Duration {
	t.Helper()
	minutesStr := strings.TrimSpace(os.Getenv("JWT_TTL_MINUTES"))
	if minutesStr == "" {
		return auth.DefaultTTL
	}
	minutes, err := strconv.Atoi(minutesStr)
	if err != nil || minutes <= 0 {
		t.Fatalf("invalid JWT_TTL_MINUTES value: %q", minutesStr)
	}
	return time.Duration(minutes) * time.Minute
}

func loadDotEnv() {
	for _, path := range []string{".env", "../.env", "../../.env", "../../../.env"} {
		_ = godotenv.Overload(path)
	}
}
