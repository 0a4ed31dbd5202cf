package feature_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbushq/nimbusflags/pkg/feature"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("upsert creates then replaces", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()
		tenantID := uuid.New()

		created, err := store.Upsert(ctx, tenantID, feature.Flag{
			Key:        "new-ui",
			Enabled:    false,
			Parameters: map[string]any{"variant": "a"},
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, tenantID, created.TenantID)
		assert.False(t, created.Enabled)

		updated, err := store.Upsert(ctx, tenantID, feature.Flag{
			Key:     "new-ui",
			Enabled: true,
			Conditions: []feature.Condition{
				{Attribute: "plan", Operator: feature.OperatorEquals, Value: feature.String("pro")},
			},
			Parameters: map[string]any{"variant": "b"},
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.True(t, updated.Enabled)
		assert.Len(t, updated.Conditions, 1)
		assert.Equal(t, map[string]any{"variant": "b"}, updated.Parameters)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("upsert is idempotent in effect", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()
		tenantID := uuid.New()

		config := feature.Flag{
			Key:     "search-v2",
			Enabled: true,
			Conditions: []feature.Condition{
				{Attribute: "country", Operator: feature.OperatorIn, Value: feature.List(feature.String("CA"))},
			},
			Parameters: map[string]any{"shards": 3},
		}

		first, err := store.Upsert(ctx, tenantID, config)
		require.NoError(t, err)
		second, err := store.Upsert(ctx, tenantID, config)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.Enabled, second.Enabled)
		assert.Equal(t, first.Conditions, second.Conditions)
		assert.Equal(t, first.Parameters, second.Parameters)
	})

	t.Run("upsert rejects invalid configuration", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()

		_, err := store.Upsert(ctx, uuid.New(), feature.Flag{
			Key: "broken",
			Conditions: []feature.Condition{
				{Attribute: "plan", Operator: feature.Operator("like"), Value: feature.String("pro")},
			},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, feature.ErrInvalidFlag)

		_, err = store.Get(ctx, uuid.New(), "broken")
		assert.ErrorIs(t, err, feature.ErrFlagNotFound)
	})

	t.Run("get misses cross-tenant", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()
		tenantA := uuid.New()
		tenantB := uuid.New()

		flagA, err := store.Upsert(ctx, tenantA, feature.Flag{Key: "shared-key", Enabled: true})
		require.NoError(t, err)
		flagB, err := store.Upsert(ctx, tenantB, feature.Flag{Key: "shared-key", Enabled: false})
		require.NoError(t, err)

		gotA, err := store.Get(ctx, tenantA, "shared-key")
		require.NoError(t, err)
		gotB, err := store.Get(ctx, tenantB, "shared-key")
		require.NoError(t, err)

		assert.Equal(t, flagA.ID, gotA.ID)
		assert.Equal(t, flagB.ID, gotB.ID)
		assert.NotEqual(t, gotA.ID, gotB.ID)
		assert.True(t, gotA.Enabled)
		assert.False(t, gotB.Enabled)
	})

	t.Run("get returns a defensive copy", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()
		tenantID := uuid.New()

		_, err := store.Upsert(ctx, tenantID, feature.Flag{
			Key:        "copy-check",
			Enabled:    true,
			Parameters: map[string]any{"limit": 10},
		})
		require.NoError(t, err)

		got, err := store.Get(ctx, tenantID, "copy-check")
		require.NoError(t, err)
		got.Parameters["limit"] = 99

		again, err := store.Get(ctx, tenantID, "copy-check")
		require.NoError(t, err)
		assert.Equal(t, 10, again.Parameters["limit"])
	})

	t.Run("list is creation-ordered and paginated", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()
		tenantID := uuid.New()

		for i := range 5 {
			_, err := store.Upsert(ctx, tenantID, feature.Flag{
				Key:     fmt.Sprintf("flag-%d", i),
				Enabled: true,
			})
			require.NoError(t, err)
		}

		all, err := store.List(ctx, tenantID, 50, 0)
		require.NoError(t, err)
		require.Len(t, all, 5)
		for i, flag := range all {
			assert.Equal(t, fmt.Sprintf("flag-%d", i), flag.Key)
		}

		page, err := store.List(ctx, tenantID, 2, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "flag-2", page[0].Key)
		assert.Equal(t, "flag-3", page[1].Key)

		// Out-of-range offset yields an empty sequence, not an error.
		empty, err := store.List(ctx, tenantID, 50, 100)
		require.NoError(t, err)
		assert.Empty(t, empty)

		// Listing never leaks flags of other tenants.
		other, err := store.List(ctx, uuid.New(), 50, 0)
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()
		tenantID := uuid.New()

		_, err := store.Upsert(ctx, tenantID, feature.Flag{Key: "doomed", Enabled: true})
		require.NoError(t, err)

		removed, err := store.Delete(ctx, tenantID, "doomed")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = store.Delete(ctx, tenantID, "doomed")
		require.NoError(t, err)
		assert.False(t, removed)

		_, err = store.Get(ctx, tenantID, "doomed")
		assert.ErrorIs(t, err, feature.ErrFlagNotFound)
	})

	t.Run("delete by tenant cascades", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()
		tenantID := uuid.New()
		other := uuid.New()

		_, err := store.Upsert(ctx, tenantID, feature.Flag{Key: "a", Enabled: true})
		require.NoError(t, err)
		_, err = store.Upsert(ctx, other, feature.Flag{Key: "a", Enabled: true})
		require.NoError(t, err)

		require.NoError(t, store.DeleteByTenant(ctx, tenantID))

		_, err = store.Get(ctx, tenantID, "a")
		assert.ErrorIs(t, err, feature.ErrFlagNotFound)
		_, err = store.Get(ctx, other, "a")
		assert.NoError(t, err)
	})
}

func TestMemoryStore_ConcurrentUpserts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := feature.NewMemoryStore()
	tenantID := uuid.New()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := store.Upsert(ctx, tenantID, feature.Flag{
				Key:        "raced",
				Enabled:    n%2 == 0,
				Parameters: map[string]any{"writer": n},
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Exactly one row exists for the key regardless of the race outcome.
	flags, err := store.List(ctx, tenantID, 50, 0)
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, "raced", flags[0].Key)
}
