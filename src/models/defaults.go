package models

import "github.com/shopspring/decimal"

// Entity defaults, applied once at construction time instead of being
// scattered across call sites.
var (
	DefaultConversionRatio       = decimal.NewFromInt(1)
	DefaultLiquidationPreference = decimal.NewFromInt(1)
	DefaultVotingMultiplier      = decimal.NewFromInt(1)
)

// Query defaults.
const (
	DefaultView      = ViewFullyDiluted
	DefaultRSUPolicy = RSUPolicyGranted

	// DefaultPriceToleranceBps is the relative disagreement, in basis
	// points, tolerated between two present price sources before the
	// reconciler flags a conflict.
	DefaultPriceToleranceBps int64 = 100
)

// ApplyDefaults fills the zero-valued multiplier fields of a security
// class with their documented defaults.
func (c *SecurityClass) ApplyDefaults() {
	if c.LiquidationPreference.IsZero() {
		c.LiquidationPreference = DefaultLiquidationPreference
	}
	if c.ConversionRatio.IsZero() {
		c.ConversionRatio = DefaultConversionRatio
	}
	if c.VotingMultiplier.IsZero() {
		c.VotingMultiplier = DefaultVotingMultiplier
	}
}
