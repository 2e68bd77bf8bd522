package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoclient/application/ports"
	pkgerrors "memoclient/pkg/errors"
)

func TestResourceStoreCreate(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	store := NewResourceStore(backend, testLogger())

	t.Run("missing filename is rejected locally", func(t *testing.T) {
		_, err := store.Create(ctx, ports.ResourceDraft{Blob: []byte("x")})
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("upload caches the confirmed resource", func(t *testing.T) {
		resource, err := store.Create(ctx, ports.ResourceDraft{
			Filename: "photo.png",
			Type:     "image/png",
			Blob:     []byte("pretend this is a png"),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(len("pretend this is a png")), resource.Size)
		assert.Nil(t, resource.MemoID)

		cached, ok := store.Get(resource.ID)
		require.True(t, ok)
		assert.Equal(t, "photo.png", cached.Filename)
	})

	t.Run("newest upload first", func(t *testing.T) {
		second, err := store.Create(ctx, ports.ResourceDraft{Filename: "second.txt"})
		require.NoError(t, err)

		cached := store.ListCached()
		require.NotEmpty(t, cached)
		assert.Equal(t, second.ID, cached[0].ID)
	})
}

func TestResourceStoreLink(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	store := NewResourceStore(backend, testLogger())

	resource, err := store.Create(ctx, ports.ResourceDraft{Filename: "a.txt"})
	require.NoError(t, err)

	linked, err := store.Link(ctx, resource.ID, 42)
	require.NoError(t, err)
	require.NotNil(t, linked.MemoID)
	assert.Equal(t, int64(42), *linked.MemoID)
	assert.Equal(t, "a.txt", linked.Filename)

	cached, ok := store.Get(resource.ID)
	require.True(t, ok)
	require.NotNil(t, cached.MemoID)
	assert.Equal(t, int64(42), *cached.MemoID)
}

func TestResourceStoreUpdateRename(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	store := NewResourceStore(backend, testLogger())

	resource, err := store.Create(ctx, ports.ResourceDraft{Filename: "before.txt"})
	require.NoError(t, err)

	name := "after.txt"
	updated, err := store.Update(ctx, resource.ID, ports.ResourcePatch{Filename: &name}, []string{"filename"})
	require.NoError(t, err)
	assert.Equal(t, "after.txt", updated.Filename)
}
