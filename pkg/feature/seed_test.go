package feature_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbushq/nimbusflags/pkg/feature"
)

const seedFixture = `
flags:
  - key: premium_discount
    enabled: true
    conditions:
      - attribute: subscription
        operator: equals
        value: premium
      - attribute: country
        operator: in
        value: [CA, US]
    parameters:
      discount_percentage: 40
  - key: maintenance_banner
    enabled: false
`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flags.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSeedFile(t *testing.T) {
	t.Parallel()

	t.Run("parses and validates flags", func(t *testing.T) {
		t.Parallel()
		flags, err := feature.LoadSeedFile(writeSeedFile(t, seedFixture))
		require.NoError(t, err)
		require.Len(t, flags, 2)

		assert.Equal(t, "premium_discount", flags[0].Key)
		assert.True(t, flags[0].Enabled)
		require.Len(t, flags[0].Conditions, 2)
		assert.Equal(t, feature.OperatorIn, flags[0].Conditions[1].Operator)
		assert.True(t, flags[0].Conditions[1].Value.Contains(feature.String("US")))

		assert.Equal(t, "maintenance_banner", flags[1].Key)
		assert.False(t, flags[1].Enabled)
	})

	t.Run("rejects invalid operator", func(t *testing.T) {
		t.Parallel()
		_, err := feature.LoadSeedFile(writeSeedFile(t, `
flags:
  - key: broken
    enabled: true
    conditions:
      - attribute: plan
        operator: regex
        value: ".*"
`))
		require.Error(t, err)
		assert.ErrorIs(t, err, feature.ErrInvalidSeedFile)
		assert.ErrorIs(t, err, feature.ErrInvalidFlag)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := feature.LoadSeedFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, feature.ErrInvalidSeedFile)
	})
}

func TestApplySeed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := feature.NewMemoryStore()
	tenantID := uuid.New()

	flags, err := feature.LoadSeedFile(writeSeedFile(t, seedFixture))
	require.NoError(t, err)

	require.NoError(t, feature.ApplySeed(ctx, store, tenantID, flags, nil))
	// Seeding twice is harmless thanks to upsert semantics.
	require.NoError(t, feature.ApplySeed(ctx, store, tenantID, flags, nil))

	stored, err := store.List(ctx, tenantID, 50, 0)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	result := feature.Evaluate(stored[0], feature.Attributes{
		"subscription": feature.String("premium"),
		"country":      feature.String("CA"),
	})
	assert.True(t, result.Enabled)
}
