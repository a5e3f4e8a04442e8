package processors

import (
	"testing"

	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func safeInstrument(principal string, terms models.SAFETerms) models.ConvertibleInstrument {
	return models.ConvertibleInstrument{
		ID:        "safe-1",
		HolderID:  "holder-1",
		Principal: dec(principal),
		SAFE:      &terms,
	}
}

func TestConvertSafePlainRoundPrice(t *testing.T) {
	t.Parallel()

	// Neither discount nor cap: conversion price is the round price exactly.
	instr := safeInstrument("100000", models.SAFETerms{})
	conv, err := ConvertSafe(instr, dec("2.00"), 8_500_000)
	require.NoError(t, err)

	assert.True(t, conv.ConversionPrice.Equal(dec("2.00")))
	assert.Equal(t, int64(50_000), conv.SharesIssued)
	assert.False(t, conv.UsedDiscount)
	assert.False(t, conv.UsedCap)
}

func TestConvertSafeCapBeatsDiscount(t *testing.T) {
	t.Parallel()

	// $500k SAFE, 20% discount, $5M cap, $2.00 round price, 8.5M
	// pre-round fully-diluted shares. The cap price (0.588) beats the
	// discount price (1.60).
	instr := safeInstrument("500000", models.SAFETerms{
		DiscountRate: decPtr("0.20"),
		ValuationCap: decPtr("5000000"),
	})
	conv, err := ConvertSafe(instr, dec("2.00"), 8_500_000)
	require.NoError(t, err)

	assert.True(t, conv.ConversionPrice.Equal(dec("0.588")), "got %s", conv.ConversionPrice)
	assert.Equal(t, int64(850_340), conv.SharesIssued)
	assert.True(t, conv.UsedCap)
	assert.False(t, conv.UsedDiscount)
}

func TestConvertSafeDiscountOnly(t *testing.T) {
	t.Parallel()

	instr := safeInstrument("300000", models.SAFETerms{DiscountRate: decPtr("0.25")})
	conv, err := ConvertSafe(instr, dec("2.00"), 8_500_000)
	require.NoError(t, err)

	assert.True(t, conv.ConversionPrice.Equal(dec("1.5")))
	assert.Equal(t, int64(200_000), conv.SharesIssued)
	assert.True(t, conv.UsedDiscount)
	assert.False(t, conv.UsedCap)
}

func TestConvertSafeHighCapFallsBackToRoundPrice(t *testing.T) {
	t.Parallel()

	// A cap above the round valuation does not bind.
	instr := safeInstrument("100000", models.SAFETerms{ValuationCap: decPtr("100000000")})
	conv, err := ConvertSafe(instr, dec("2.00"), 8_500_000)
	require.NoError(t, err)

	assert.True(t, conv.ConversionPrice.Equal(dec("2.00")))
	assert.False(t, conv.UsedCap)
}

func TestConvertSafePostMoney(t *testing.T) {
	t.Parallel()

	// $500k on a $5M post-money cap targets 10% ownership. With 9M
	// pre-round shares that takes 1M new shares: 1M / (9M + 1M) = 10%.
	instr := safeInstrument("500000", models.SAFETerms{
		ValuationCap: decPtr("5000000"),
		PostMoney:    true,
	})
	conv, err := ConvertSafe(instr, decimal.Zero, 9_000_000)
	require.NoError(t, err)

	assert.Equal(t, int64(1_000_000), conv.SharesIssued)
	assert.True(t, conv.ConversionPrice.Equal(dec("0.5")))
	assert.True(t, conv.UsedCap)

	post := decimal.NewFromInt(9_000_000 + conv.SharesIssued)
	ownership := decimal.NewFromInt(conv.SharesIssued).Div(post)
	assert.True(t, ownership.Equal(dec("0.1")), "got %s", ownership)
}

func TestConvertSafeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		instr     models.ConvertibleInstrument
		price     decimal.Decimal
		preFD     int64
		wantError any
	}{
		{
			name:      "zero_principal",
			instr:     safeInstrument("0", models.SAFETerms{}),
			price:     dec("2.00"),
			preFD:     1_000_000,
			wantError: &models.ValidationError{},
		},
		{
			name:      "non_positive_pre_round_shares",
			instr:     safeInstrument("100000", models.SAFETerms{}),
			price:     dec("2.00"),
			preFD:     0,
			wantError: &models.ValidationError{},
		},
		{
			name:      "pre_money_without_price",
			instr:     safeInstrument("100000", models.SAFETerms{}),
			price:     decimal.Zero,
			preFD:     1_000_000,
			wantError: &models.ValidationError{},
		},
		{
			name:      "post_money_without_cap",
			instr:     safeInstrument("100000", models.SAFETerms{PostMoney: true}),
			price:     dec("2.00"),
			preFD:     1_000_000,
			wantError: &models.ConfigurationError{},
		},
		{
			name:      "principal_exceeds_cap",
			instr:     safeInstrument("6000000", models.SAFETerms{ValuationCap: decPtr("5000000"), PostMoney: true}),
			price:     dec("2.00"),
			preFD:     1_000_000,
			wantError: &models.ConfigurationError{},
		},
		{
			name:      "not_a_safe",
			instr:     models.ConvertibleInstrument{Principal: dec("100000"), Note: &models.NoteTerms{}},
			price:     dec("2.00"),
			preFD:     1_000_000,
			wantError: &models.ConfigurationError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConvertSafe(tt.instr, tt.price, tt.preFD)
			require.Error(t, err)
			switch tt.wantError.(type) {
			case *models.ValidationError:
				var ve *models.ValidationError
				assert.ErrorAs(t, err, &ve)
			case *models.ConfigurationError:
				var ce *models.ConfigurationError
				assert.ErrorAs(t, err, &ce)
			}
		})
	}
}
