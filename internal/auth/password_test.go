package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("abc123")
	require.NoError(t, err)
	assert.NotEqual(t, "abc123", hash)

	assert.True(t, ComparePassword(hash, "abc123"))
	assert.False(t, ComparePassword(hash, "abc124"))
	assert.False(t, ComparePassword("not-a-hash", "abc123"))
}

func TestBurnComparisonDoesNotPanic(t *testing.T) {
	BurnComparison("whatever1")
}
