package feature_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbushq/nimbusflags/pkg/feature"
)

func premiumDiscountFlag(enabled bool) feature.Flag {
	return feature.Flag{
		Key:     "premium_discount",
		Enabled: enabled,
		Conditions: []feature.Condition{
			{
				Attribute: "subscription",
				Operator:  feature.OperatorEquals,
				Value:     feature.String("premium"),
			},
			{
				Attribute: "country",
				Operator:  feature.OperatorIn,
				Value:     feature.List(feature.String("CA"), feature.String("US")),
			},
		},
		Parameters: map[string]any{"discount_percentage": 40},
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	t.Run("all conditions match", func(t *testing.T) {
		t.Parallel()
		result := feature.Evaluate(premiumDiscountFlag(true), feature.Attributes{
			"subscription": feature.String("premium"),
			"country":      feature.String("CA"),
		})

		assert.Equal(t, "premium_discount", result.FlagKey)
		assert.True(t, result.Enabled)
		assert.Equal(t, map[string]any{"discount_percentage": 40}, result.Parameters)
	})

	t.Run("one condition fails", func(t *testing.T) {
		t.Parallel()
		result := feature.Evaluate(premiumDiscountFlag(true), feature.Attributes{
			"subscription": feature.String("premium"),
			"country":      feature.String("FR"),
		})

		assert.False(t, result.Enabled)
		assert.Empty(t, result.Parameters)
		assert.NotNil(t, result.Parameters)
	})

	t.Run("kill switch short-circuits conditions", func(t *testing.T) {
		t.Parallel()
		result := feature.Evaluate(premiumDiscountFlag(false), feature.Attributes{
			"subscription": feature.String("premium"),
			"country":      feature.String("CA"),
		})

		assert.False(t, result.Enabled)
		assert.Empty(t, result.Parameters)
	})

	t.Run("enabled with no conditions is always on", func(t *testing.T) {
		t.Parallel()
		flag := feature.Flag{
			Key:        "dark-mode",
			Enabled:    true,
			Parameters: map[string]any{"theme": "midnight"},
		}

		result := feature.Evaluate(flag, feature.Attributes{})
		assert.True(t, result.Enabled)
		assert.Equal(t, map[string]any{"theme": "midnight"}, result.Parameters)

		result = feature.Evaluate(flag, nil)
		assert.True(t, result.Enabled)
	})

	t.Run("condition order does not change the result", func(t *testing.T) {
		t.Parallel()
		flag := premiumDiscountFlag(true)
		reversed := flag
		reversed.Conditions = slices.Clone(flag.Conditions)
		slices.Reverse(reversed.Conditions)

		attrs := feature.Attributes{
			"subscription": feature.String("premium"),
			"country":      feature.String("US"),
		}

		assert.Equal(t, feature.Evaluate(flag, attrs), feature.Evaluate(reversed, attrs))

		attrs["country"] = feature.String("FR")
		assert.Equal(t, feature.Evaluate(flag, attrs), feature.Evaluate(reversed, attrs))
	})

	t.Run("missing attribute never matches", func(t *testing.T) {
		t.Parallel()
		result := feature.Evaluate(premiumDiscountFlag(true), feature.Attributes{
			"subscription": feature.String("premium"),
		})

		assert.False(t, result.Enabled)
	})

	t.Run("parameters are copied, not aliased", func(t *testing.T) {
		t.Parallel()
		flag := feature.Flag{
			Key:        "copy-check",
			Enabled:    true,
			Parameters: map[string]any{"limit": 10},
		}

		result := feature.Evaluate(flag, nil)
		result.Parameters["limit"] = 99

		assert.Equal(t, 10, flag.Parameters["limit"])
	})
}

func TestConditionMatch(t *testing.T) {
	t.Parallel()

	t.Run("equals is type-sensitive", func(t *testing.T) {
		t.Parallel()
		cond := feature.Condition{
			Attribute: "age",
			Operator:  feature.OperatorEquals,
			Value:     feature.Number(40),
		}

		assert.True(t, cond.Match(feature.Attributes{"age": feature.Number(40)}))
		assert.False(t, cond.Match(feature.Attributes{"age": feature.String("40")}))
	})

	t.Run("in is type-sensitive", func(t *testing.T) {
		t.Parallel()
		cond := feature.Condition{
			Attribute: "tier",
			Operator:  feature.OperatorIn,
			Value:     feature.List(feature.Number(1), feature.Number(2)),
		}

		assert.True(t, cond.Match(feature.Attributes{"tier": feature.Number(2)}))
		assert.False(t, cond.Match(feature.Attributes{"tier": feature.String("2")}))
		assert.False(t, cond.Match(feature.Attributes{"tier": feature.Number(3)}))
	})

	t.Run("bool values only match bools", func(t *testing.T) {
		t.Parallel()
		cond := feature.Condition{
			Attribute: "beta",
			Operator:  feature.OperatorEquals,
			Value:     feature.Bool(true),
		}

		assert.True(t, cond.Match(feature.Attributes{"beta": feature.Bool(true)}))
		assert.False(t, cond.Match(feature.Attributes{"beta": feature.String("true")}))
	})

	t.Run("unknown operator fails closed", func(t *testing.T) {
		t.Parallel()
		cond := feature.Condition{
			Attribute: "country",
			Operator:  feature.Operator("regex"),
			Value:     feature.String(".*"),
		}

		assert.False(t, cond.Match(feature.Attributes{"country": feature.String("CA")}))
	})
}

func TestAttributesFromRaw(t *testing.T) {
	t.Parallel()

	t.Run("scalars are accepted", func(t *testing.T) {
		t.Parallel()
		attrs, err := feature.AttributesFromRaw(map[string]any{
			"country": "CA",
			"age":     float64(30),
			"beta":    true,
		})
		require.NoError(t, err)

		assert.True(t, attrs["country"].Equal(feature.String("CA")))
		assert.True(t, attrs["age"].Equal(feature.Number(30)))
		assert.True(t, attrs["beta"].Equal(feature.Bool(true)))
	})

	t.Run("non-scalar attributes are rejected", func(t *testing.T) {
		t.Parallel()
		_, err := feature.AttributesFromRaw(map[string]any{
			"tags": []any{"a", "b"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, feature.ErrUnsupportedValue)

		_, err = feature.AttributesFromRaw(map[string]any{
			"nested": map[string]any{"a": 1},
		})
		require.Error(t, err)
	})
}
