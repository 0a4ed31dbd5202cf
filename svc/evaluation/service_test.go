package evaluation_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbushq/nimbusflags/pkg/feature"
	"github.com/nimbushq/nimbusflags/svc/evaluation"
)

func TestService_Evaluate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := feature.NewMemoryStore()
	svc := evaluation.New(store)
	tenantID := uuid.New()

	_, err := store.Upsert(ctx, tenantID, feature.Flag{
		Key:     "premium_discount",
		Enabled: true,
		Conditions: []feature.Condition{
			{Attribute: "subscription", Operator: feature.OperatorEquals, Value: feature.String("premium")},
			{Attribute: "country", Operator: feature.OperatorIn, Value: feature.List(feature.String("CA"), feature.String("US"))},
		},
		Parameters: map[string]any{"discount_percentage": 40},
	})
	require.NoError(t, err)

	t.Run("enabled decision carries parameters", func(t *testing.T) {
		t.Parallel()
		result, err := svc.Evaluate(ctx, tenantID, "premium_discount", feature.Attributes{
			"subscription": feature.String("premium"),
			"country":      feature.String("CA"),
		})
		require.NoError(t, err)

		assert.Equal(t, "premium_discount", result.FlagKey)
		assert.True(t, result.Enabled)
		assert.Equal(t, map[string]any{"discount_percentage": 40}, result.Parameters)
	})

	t.Run("disabled decision is not an error", func(t *testing.T) {
		t.Parallel()
		result, err := svc.Evaluate(ctx, tenantID, "premium_discount", feature.Attributes{
			"subscription": feature.String("premium"),
			"country":      feature.String("FR"),
		})
		require.NoError(t, err)

		assert.False(t, result.Enabled)
		assert.Empty(t, result.Parameters)
	})

	t.Run("missing flag is FlagNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Evaluate(ctx, tenantID, "no-such-flag", nil)
		assert.ErrorIs(t, err, feature.ErrFlagNotFound)
	})

	t.Run("cross-tenant evaluation misses", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Evaluate(ctx, uuid.New(), "premium_discount", nil)
		assert.ErrorIs(t, err, feature.ErrFlagNotFound)
	})

	t.Run("evaluation reads current state", func(t *testing.T) {
		localStore := feature.NewMemoryStore()
		localSvc := evaluation.New(localStore)
		localTenant := uuid.New()

		_, err := localStore.Upsert(ctx, localTenant, feature.Flag{Key: "fresh", Enabled: true})
		require.NoError(t, err)

		result, err := localSvc.Evaluate(ctx, localTenant, "fresh", nil)
		require.NoError(t, err)
		assert.True(t, result.Enabled)

		_, err = localStore.Upsert(ctx, localTenant, feature.Flag{Key: "fresh", Enabled: false})
		require.NoError(t, err)

		result, err = localSvc.Evaluate(ctx, localTenant, "fresh", nil)
		require.NoError(t, err)
		assert.False(t, result.Enabled)
	})
}
