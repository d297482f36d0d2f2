package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Items []string `json:"items"`
}

func TestLoadJSON_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	require.NoError(t, SaveJSON(ctx, s, "cart", snapshot{Items: []string{"a", "b"}}))

	var got snapshot
	require.NoError(t, LoadJSON(ctx, s, "cart", &got))
	assert.Equal(t, []string{"a", "b"}, got.Items)
}

func TestLoadJSON_Missing(t *testing.T) {
	var got snapshot
	err := LoadJSON(context.Background(), NewMemoryStorage(), "cart", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadJSON_Corrupt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	require.NoError(t, s.Write(ctx, "cart", `{"items":[`))

	var got snapshot
	err := LoadJSON(ctx, s, "cart", &got)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorage_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	require.NoError(t, s.Write(ctx, "user", "{}"))
	require.NoError(t, s.Delete(ctx, "user"))

	_, err := s.Read(ctx, "user")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithPrefix(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStorage()
	s := WithPrefix(inner, "shop")

	require.NoError(t, s.Write(ctx, "cart", "[]"))

	raw, err := inner.Read(ctx, "shop:cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	_, err = inner.Read(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, "cart"))
	_, err = s.Read(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithPrefix_Empty(t *testing.T) {
	inner := NewMemoryStorage()
	assert.Same(t, inner, WithPrefix(inner, ""))
}
