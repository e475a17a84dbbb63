package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/learnhub-be/internal/models"
	"github.com/hongminglow/learnhub-be/internal/storage"
)

func TestCreateUserRejectsDuplicatePhone(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first, err := s.CreateUser(ctx, models.User{Phone: "+15551234567", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	_, err = s.CreateUser(ctx, models.User{Phone: "+15551234567", PasswordHash: "h"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestDeleteUserDropsAuthoredDiscussions(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, models.User{Phone: "13800138000"})
	require.NoError(t, err)
	_, err = s.CreateDiscussion(ctx, models.Discussion{Title: "hello", Content: "x", Author: models.Author{ID: u.ID}})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, u.ID))

	_, err = s.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.FindByPhone(ctx, u.Phone)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	n, _ := s.CountDiscussions(ctx)
	assert.Zero(t, n)
}

func TestListDiscussionsPaginatesNewestFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u, err := s.CreateUser(ctx, models.User{Phone: "13800138000"})
	require.NoError(t, err)

	for _, title := range []string{"one", "two", "three"} {
		_, err := s.CreateDiscussion(ctx, models.Discussion{Title: title, Content: "c", Author: models.Author{ID: u.ID}})
		require.NoError(t, err)
	}

	page, total, err := s.ListDiscussions(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "three", page[0].Title)
	assert.Equal(t, "two", page[1].Title)

	page, _, err = s.ListDiscussions(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "one", page[0].Title)

	page, _, err = s.ListDiscussions(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, page)

	page, total, err = s.ListDiscussions(ctx, -20, 20)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, page)
}
