package processors

import "github.com/shopspring/decimal"

// PriceSource identifies where a candidate price per share came from.
// Precedence when reconciling: override > consideration > valuation.
type PriceSource string

const (
	PriceSourceOverride      PriceSource = "override"
	PriceSourceConsideration PriceSource = "consideration"
	PriceSourceValuation     PriceSource = "valuation"
)

var priceSourceRank = map[PriceSource]int{
	PriceSourceOverride:      0,
	PriceSourceConsideration: 1,
	PriceSourceValuation:     2,
}

// PriceCandidate is one candidate price with its provenance.
type PriceCandidate struct {
	Source PriceSource
	Price  decimal.Decimal
}

// ReconciledPrice is the outcome of reconciling candidate prices.
type ReconciledPrice struct {
	Price    decimal.Decimal
	Source   PriceSource
	Conflict bool // two present sources disagreed beyond tolerance
}

// DeriveFromValuation computes price per share from a pre-money
// valuation and the pre-round fully-diluted share count. The boolean is
// false when the price is not derivable (missing, zero or negative
// inputs).
func DeriveFromValuation(valuation decimal.Decimal, preRoundFullyDiluted int64) (decimal.Decimal, bool) {
	if valuation.Sign() <= 0 || preRoundFullyDiluted <= 0 {
		return decimal.Zero, false
	}
	return RoundPrice(valuation.Div(decimal.NewFromInt(preRoundFullyDiluted))), true
}

// DeriveFromConsideration computes price per share from the
// consideration paid and the quantity issued. The boolean is false when
// the price is not derivable.
func DeriveFromConsideration(consideration decimal.Decimal, quantity int64) (decimal.Decimal, bool) {
	if consideration.Sign() <= 0 || quantity <= 0 {
		return decimal.Zero, false
	}
	return RoundPrice(consideration.Div(decimal.NewFromInt(quantity))), true
}

// Reconcile picks the authoritative price among candidates by source
// precedence and flags a conflict when any two present candidates
// disagree by more than toleranceBps basis points relative to the
// winner. The boolean is false when no candidate is present.
func Reconcile(candidates []PriceCandidate, toleranceBps int64) (ReconciledPrice, bool) {
	var winner *PriceCandidate
	for i := range candidates {
		c := &candidates[i]
		if c.Price.Sign() <= 0 {
			continue
		}
		if winner == nil || priceSourceRank[c.Source] < priceSourceRank[winner.Source] {
			winner = c
		}
	}
	if winner == nil {
		return ReconciledPrice{}, false
	}

	result := ReconciledPrice{Price: winner.Price, Source: winner.Source}
	tolerance := decimal.NewFromInt(toleranceBps)
	tenThousand := decimal.NewFromInt(10000)
	for _, c := range candidates {
		if c.Price.Sign() <= 0 || c.Source == winner.Source {
			continue
		}
		diffBps := c.Price.Sub(winner.Price).Abs().Div(winner.Price).Mul(tenThousand)
		if diffBps.GreaterThan(tolerance) {
			result.Conflict = true
			break
		}
	}
	return result, true
}
