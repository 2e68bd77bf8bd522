package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoclient/application/ports"
	"memoclient/domain"
	pkgerrors "memoclient/pkg/errors"
)

func TestMemoStoreGetOrFetch(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	seeded := backend.seedMemo("hello #work")
	store := NewMemoStore(backend, testLogger())

	t.Run("fetches once then serves from cache", func(t *testing.T) {
		memo, err := store.GetOrFetch(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "hello #work", memo.Content)

		_, err = store.GetOrFetch(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&backend.getMemoCalls))
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		_, err := store.GetOrFetch(ctx, 999)
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("concurrent fetches are safe", func(t *testing.T) {
		backend := newFakeBackend()
		seeded := backend.seedMemo("coalesced")
		store := NewMemoStore(backend, testLogger())

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				memo, err := store.GetOrFetch(ctx, seeded.ID)
				assert.NoError(t, err)
				assert.Equal(t, "coalesced", memo.Content)
			}()
		}
		wg.Wait()
	})
}

func TestMemoStoreCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("empty draft is rejected locally", func(t *testing.T) {
		backend := newFakeBackend()
		store := NewMemoStore(backend, testLogger())

		_, err := store.Create(ctx, ports.MemoDraft{})
		assert.True(t, pkgerrors.IsValidation(err))
		assert.Equal(t, 0, store.Size())
	})

	t.Run("resource-only draft is allowed", func(t *testing.T) {
		backend := newFakeBackend()
		store := NewMemoStore(backend, testLogger())

		memo, err := store.Create(ctx, ports.MemoDraft{ResourceIDList: []int64{1}})
		require.NoError(t, err)
		assert.NotZero(t, memo.ID)
	})

	t.Run("created memo lands at the head of the list", func(t *testing.T) {
		backend := newFakeBackend()
		store := NewMemoStore(backend, testLogger())

		first, err := store.Create(ctx, ports.MemoDraft{Content: "first"})
		require.NoError(t, err)
		second, err := store.Create(ctx, ports.MemoDraft{Content: "second"})
		require.NoError(t, err)

		cached := store.ListCached()
		require.Len(t, cached, 2)
		assert.Equal(t, second.ID, cached[0].ID)
		assert.Equal(t, first.ID, cached[1].ID)
	})

	t.Run("cache untouched when the backend rejects", func(t *testing.T) {
		backend := newFakeBackend()
		store := NewMemoStore(backend, testLogger())
		backend.failNextWrite = pkgerrors.NewBackendError(400, "nope")

		_, err := store.Create(ctx, ports.MemoDraft{Content: "x"})
		require.Error(t, err)
		assert.Equal(t, 0, store.Size())
	})
}

func TestMemoStoreUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("only masked fields change in the cache", func(t *testing.T) {
		backend := newFakeBackend()
		store := NewMemoStore(backend, testLogger())

		created, err := store.Create(ctx, ports.MemoDraft{
			Content:    "original #work",
			Visibility: domain.VisibilityProtected,
		})
		require.NoError(t, err)

		content := "rewritten"
		updated, err := store.Update(ctx, created.ID, ports.MemoPatch{Content: &content}, []string{MaskContent})
		require.NoError(t, err)

		assert.Equal(t, "rewritten", updated.Content)
		assert.Equal(t, domain.VisibilityProtected, updated.Visibility)
		assert.Greater(t, updated.UpdatedTs, created.UpdatedTs)

		cached, ok := store.Get(created.ID)
		require.True(t, ok)
		assert.Equal(t, "rewritten", cached.Content)
		assert.Equal(t, domain.VisibilityProtected, cached.Visibility)
	})

	t.Run("pin flag via mask", func(t *testing.T) {
		backend := newFakeBackend()
		store := NewMemoStore(backend, testLogger())
		created, err := store.Create(ctx, ports.MemoDraft{Content: "pin me"})
		require.NoError(t, err)

		pinned := true
		updated, err := store.Update(ctx, created.ID, ports.MemoPatch{Pinned: &pinned}, []string{MaskPinned})
		require.NoError(t, err)
		assert.True(t, updated.Pinned)
		assert.Equal(t, "pin me", updated.Content)
	})

	t.Run("future created_ts is rejected locally", func(t *testing.T) {
		backend := newFakeBackend()
		store := NewMemoStore(backend, testLogger())
		created, err := store.Create(ctx, ports.MemoDraft{Content: "backdate me"})
		require.NoError(t, err)

		future := time.Now().Add(time.Hour).Unix()
		_, err = store.Update(ctx, created.ID, ports.MemoPatch{CreatedTs: &future}, []string{MaskCreatedTs})
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("clearing content needs a cached resource", func(t *testing.T) {
		backend := newFakeBackend()
		store := NewMemoStore(backend, testLogger())
		created, err := store.Create(ctx, ports.MemoDraft{Content: "text only"})
		require.NoError(t, err)

		empty := ""
		_, err = store.Update(ctx, created.ID, ports.MemoPatch{Content: &empty}, []string{MaskContent})
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("cache untouched when the backend rejects", func(t *testing.T) {
		backend := newFakeBackend()
		store := NewMemoStore(backend, testLogger())
		created, err := store.Create(ctx, ports.MemoDraft{Content: "keep me"})
		require.NoError(t, err)

		backend.failNextWrite = pkgerrors.NewBackendError(400, "nope")
		content := "lost"
		_, err = store.Update(ctx, created.ID, ports.MemoPatch{Content: &content}, []string{MaskContent})
		require.Error(t, err)

		cached, ok := store.Get(created.ID)
		require.True(t, ok)
		assert.Equal(t, "keep me", cached.Content)
	})
}

func TestMemoStoreArchiveAndDelete(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	store := NewMemoStore(backend, testLogger())

	created, err := store.Create(ctx, ports.MemoDraft{Content: "short lived"})
	require.NoError(t, err)

	archived, err := store.Archive(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RowStatusArchived, archived.RowStatus)

	require.NoError(t, store.Delete(ctx, created.ID))
	_, ok := store.Get(created.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Size())
}

func TestMemoStoreFetchPageMergesIntoCache(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.seedMemo("one")
	backend.seedMemo("two")
	store := NewMemoStore(backend, testLogger())

	page, next, err := store.FetchPage(ctx, ExploreCriteria(false, "", ""), 10, "")
	require.NoError(t, err)
	assert.Empty(t, next)
	assert.Len(t, page, 2)
	assert.Equal(t, 2, store.Size())

	store.Reset()
	assert.Equal(t, 0, store.Size())
}

func TestMemoStoreRelationDedupe(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	store := NewMemoStore(backend, testLogger())

	memo, err := store.Create(ctx, ports.MemoDraft{
		Content: "related",
		RelationList: []domain.MemoRelation{
			{RelatedMemoID: 7, Type: domain.RelationReference},
			{RelatedMemoID: 7, Type: domain.RelationComment},
			{RelatedMemoID: 8, Type: domain.RelationComment},
		},
	})
	require.NoError(t, err)

	require.Len(t, memo.RelationList, 2)
	assert.Equal(t, domain.RelationReference, memo.RelationList[0].Type)
}
