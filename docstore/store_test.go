package docstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testProject struct {
	Name      string   `json:"name"`
	TechStack []string `json:"techStack,omitempty"`
}

// runStoreSuite exercises the behaviour every backend must share.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("missing path is not an error", func(t *testing.T) {
		store := newStore(t)
		snap, err := store.Get(ctx, "projects/nope")
		require.NoError(t, err)
		assert.False(t, snap.Exists())

		snap, err = store.Get(ctx, "projects")
		require.NoError(t, err)
		assert.False(t, snap.Exists())
		assert.Empty(t, snap.Keys())
	})

	t.Run("set and decode", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "projects/p1", testProject{Name: "Site", TechStack: []string{"Go", "React"}}))

		snap, err := store.Get(ctx, "projects/p1")
		require.NoError(t, err)
		require.True(t, snap.Exists())

		var got testProject
		require.NoError(t, snap.Decode(&got))
		assert.Equal(t, testProject{Name: "Site", TechStack: []string{"Go", "React"}}, got)

		snap, err = store.Get(ctx, "projects/p1/name")
		require.NoError(t, err)
		assert.Equal(t, "Site", snap.Value)
	})

	t.Run("update leaves siblings untouched", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "projects/p1", map[string]any{"name": "A", "url": "https://a.dev"}))
		require.NoError(t, store.Update(ctx, "projects/p1", map[string]any{
			"name":       "B",
			"videos/123": map[string]any{"id": "123", "url": "https://youtu.be/x"},
		}))

		snap, err := store.Get(ctx, "projects/p1")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"name":   "B",
			"url":    "https://a.dev",
			"videos": map[string]any{"123": map[string]any{"id": "123", "url": "https://youtu.be/x"}},
		}, snap.Value)
	})

	t.Run("update across documents", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "educations/a", map[string]any{"order": 1}))
		require.NoError(t, store.Set(ctx, "educations/b", map[string]any{"order": 2}))
		require.NoError(t, store.Update(ctx, "educations", map[string]any{"a/order": 2, "b/order": 1}))

		snap, err := store.Get(ctx, "educations")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, snap.Keys())
		assert.EqualValues(t, 2, snap.Child("a").Child("order").Value)
		assert.EqualValues(t, 1, snap.Child("b").Child("order").Value)
	})

	t.Run("deleting the last child removes the parent", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "projects/p1", map[string]any{"name": "A"}))
		require.NoError(t, store.Set(ctx, "projects/p1/pdfs/1", map[string]any{"id": 1}))
		require.NoError(t, store.Delete(ctx, "projects/p1/pdfs/1"))

		snap, err := store.Get(ctx, "projects/p1/pdfs")
		require.NoError(t, err)
		assert.False(t, snap.Exists())

		require.NoError(t, store.Delete(ctx, "projects/p1"))
		snap, err = store.Get(ctx, "projects")
		require.NoError(t, err)
		assert.False(t, snap.Exists())
	})

	t.Run("push generates distinct keys", func(t *testing.T) {
		store := newStore(t)
		k1, err := store.Push(ctx, "skills", map[string]any{"name": "Go"})
		require.NoError(t, err)
		k2, err := store.Push(ctx, "skills", map[string]any{"name": "SQL"})
		require.NoError(t, err)
		assert.NotEqual(t, k1, k2)

		snap, err := store.Get(ctx, "skills")
		require.NoError(t, err)
		assert.Len(t, snap.Keys(), 2)
	})

	t.Run("transaction abort writes nothing", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "projects/p1", map[string]any{"name": "A"}))

		boom := errors.New("boom")
		err := store.Transaction(ctx, "projects/p1/pdfs", func(current any) (any, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)

		snap, err := store.Get(ctx, "projects/p1")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "A"}, snap.Value)
	})

	t.Run("concurrent transactions do not lose writes", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "projects/p1", map[string]any{"name": "A"}))

		const writers = 8
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := store.Transaction(ctx, "projects/p1/counter", func(current any) (any, error) {
					n, _ := current.(float64)
					return n + 1, nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		snap, err := store.Get(ctx, "projects/p1/counter")
		require.NoError(t, err)
		assert.EqualValues(t, writers, snap.Value)
	})

	t.Run("invalid paths are rejected", func(t *testing.T) {
		store := newStore(t)
		err := store.Set(ctx, "projects/a.b", map[string]any{"name": "x"})
		assert.ErrorIs(t, err, errs.ErrInvalidPath)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store { return NewMemory() })
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory().Get(ctx, "projects")
	assert.ErrorIs(t, err, errs.ErrStoreUnavailable)
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Set(ctx, "projects/p1", map[string]any{"name": "A"}))

	snap, err := store.Get(ctx, "projects/p1")
	require.NoError(t, err)
	snap.Value.(map[string]any)["name"] = "mutated"

	snap, err = store.Get(ctx, "projects/p1/name")
	require.NoError(t, err)
	assert.Equal(t, "A", snap.Value)
}
