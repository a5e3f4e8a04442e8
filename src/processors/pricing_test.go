package processors

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveFromValuation(t *testing.T) {
	t.Parallel()

	price, ok := DeriveFromValuation(decimal.NewFromInt(5_000_000), 8_500_000)
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.RequireFromString("0.588")), "got %s", price)

	_, ok = DeriveFromValuation(decimal.Zero, 8_500_000)
	assert.False(t, ok)

	_, ok = DeriveFromValuation(decimal.NewFromInt(-1), 8_500_000)
	assert.False(t, ok)

	_, ok = DeriveFromValuation(decimal.NewFromInt(5_000_000), 0)
	assert.False(t, ok)
}

func TestDeriveFromConsideration(t *testing.T) {
	t.Parallel()

	price, ok := DeriveFromConsideration(decimal.NewFromInt(100_000), 50_000)
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(2)))

	_, ok = DeriveFromConsideration(decimal.NewFromInt(100_000), 0)
	assert.False(t, ok)

	_, ok = DeriveFromConsideration(decimal.Zero, 50_000)
	assert.False(t, ok)
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	t.Run("override_wins", func(t *testing.T) {
		result, ok := Reconcile([]PriceCandidate{
			{Source: PriceSourceValuation, Price: decimal.NewFromInt(2)},
			{Source: PriceSourceOverride, Price: decimal.RequireFromString("2.01")},
		}, 100)
		require.True(t, ok)
		assert.Equal(t, PriceSourceOverride, result.Source)
		assert.True(t, result.Price.Equal(decimal.RequireFromString("2.01")))
		assert.False(t, result.Conflict)
	})

	t.Run("consideration_beats_valuation", func(t *testing.T) {
		result, ok := Reconcile([]PriceCandidate{
			{Source: PriceSourceValuation, Price: decimal.NewFromInt(2)},
			{Source: PriceSourceConsideration, Price: decimal.NewFromInt(2)},
		}, 100)
		require.True(t, ok)
		assert.Equal(t, PriceSourceConsideration, result.Source)
	})

	t.Run("conflict_beyond_tolerance", func(t *testing.T) {
		result, ok := Reconcile([]PriceCandidate{
			{Source: PriceSourceOverride, Price: decimal.NewFromInt(2)},
			{Source: PriceSourceValuation, Price: decimal.RequireFromString("2.5")},
		}, 100)
		require.True(t, ok)
		assert.True(t, result.Conflict)
	})

	t.Run("disagreement_within_tolerance", func(t *testing.T) {
		result, ok := Reconcile([]PriceCandidate{
			{Source: PriceSourceOverride, Price: decimal.NewFromInt(2)},
			{Source: PriceSourceValuation, Price: decimal.RequireFromString("2.001")},
		}, 100)
		require.True(t, ok)
		assert.False(t, result.Conflict)
	})

	t.Run("absent_candidates_skipped", func(t *testing.T) {
		result, ok := Reconcile([]PriceCandidate{
			{Source: PriceSourceOverride, Price: decimal.Zero},
			{Source: PriceSourceValuation, Price: decimal.NewFromInt(3)},
		}, 100)
		require.True(t, ok)
		assert.Equal(t, PriceSourceValuation, result.Source)
	})

	t.Run("no_candidates", func(t *testing.T) {
		_, ok := Reconcile(nil, 100)
		assert.False(t, ok)
	})
}
