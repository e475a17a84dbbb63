package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/learnhub-be/internal/models"
	"github.com/hongminglow/learnhub-be/internal/storage"
)

// TestStoreIntegration exercises the store against a live database.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_STORE_INTEGRATION") != "true" {
		t.Skip("set RUN_STORE_INTEGRATION=true to run this integration test")
	}
	for _, path := range []string{".env", "../.env", "../../.env", "../../../.env"} {
		_ = godotenv.Overload(path)
	}
	dbURL := os.Getenv("DATABASE_URL")
	require.NotEmpty(t, dbURL, "DATABASE_URL is required")

	ctx := context.Background()
	store, err := NewStore(ctx, dbURL)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Ping(ctx))

	phone := fmt.Sprintf("+1555%07d", time.Now().UnixNano()%10_000_000)
	user, err := store.CreateUser(ctx, models.User{Phone: phone, PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = store.CreateUser(ctx, models.User{Phone: phone, PasswordHash: "hash"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	byPhone, err := store.FindByPhone(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPhone.ID)

	_, err = store.FindByID(ctx, -1)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	d, err := store.CreateDiscussion(ctx, models.Discussion{Title: "integration", Content: "body", Author: models.Author{ID: user.ID}})
	require.NoError(t, err)
	assert.Equal(t, phone, d.Author.Phone)

	found, err := store.FindDiscussion(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "integration", found.Title)

	require.NoError(t, store.DeleteDiscussion(ctx, d.ID))
	assert.ErrorIs(t, store.DeleteDiscussion(ctx, d.ID), storage.ErrNotFound)
}
