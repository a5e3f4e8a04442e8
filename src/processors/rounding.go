package processors

import "github.com/shopspring/decimal"

// One rounding convention per quantity kind, applied everywhere that
// quantity is produced. All rounding is half-up and never errors.
const (
	SharePrecision   int32 = 0 // whole shares
	MoneyPrecision   int32 = 2
	PricePrecision   int32 = 3
	PercentPrecision int32 = 2
)

// RoundShares rounds a share count half-up to a whole number.
func RoundShares(d decimal.Decimal) decimal.Decimal {
	return d.Round(SharePrecision)
}

// RoundMoney rounds a monetary amount half-up to two decimals.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPrecision)
}

// RoundPrice rounds a per-share price half-up to the price precision.
func RoundPrice(d decimal.Decimal) decimal.Decimal {
	return d.Round(PricePrecision)
}

// RoundPercent rounds a percentage half-up to two decimals.
func RoundPercent(d decimal.Decimal) decimal.Decimal {
	return d.Round(PercentPrecision)
}
