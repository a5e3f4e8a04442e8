package models

import "github.com/shopspring/decimal"

// SecurityClass describes one class of shares (e.g., Common, Series A
// Preferred). Immutable once referenced by ledger entries.
type SecurityClass struct {
	ID                    string          `json:"id"`
	CompanyID             string          `json:"company_id"`
	Name                  string          `json:"name"`
	SeniorityTier         int             `json:"seniority_tier"`
	LiquidationPreference decimal.Decimal `json:"liquidation_preference"` // multiple of invested amount
	Participating         bool            `json:"participating"`
	ConversionRatio       decimal.Decimal `json:"conversion_ratio"` // to common
	VotingMultiplier      decimal.Decimal `json:"voting_multiplier"`
}
