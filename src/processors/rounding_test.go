package processors

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		round    func(decimal.Decimal) decimal.Decimal
		input    string
		expected string
	}{
		{"shares_half_up", RoundShares, "850340.136", "850340"},
		{"shares_half_exactly", RoundShares, "10.5", "11"},
		{"shares_whole_untouched", RoundShares, "5000000", "5000000"},
		{"money_half_up", RoundMoney, "1.005", "1.01"},
		{"money_truncates_tail", RoundMoney, "1234.5678", "1234.57"},
		{"price_three_decimals", RoundPrice, "0.5882352941", "0.588"},
		{"price_half_up", RoundPrice, "1.5995", "1.6"},
		{"percent_two_decimals", RoundPercent, "59.999", "60"},
		{"percent_exact", RoundPercent, "40", "40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := decimal.RequireFromString(tt.input)
			want := decimal.RequireFromString(tt.expected)
			assert.True(t, tt.round(in).Equal(want), "got %s, want %s", tt.round(in), want)
		})
	}
}
