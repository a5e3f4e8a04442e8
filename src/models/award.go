package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AwardKind classifies an equity award. Option-like awards require a
// positive strike price; RSU-like awards carry none.
type AwardKind string

const (
	AwardKindOption AwardKind = "option"
	AwardKindRSU    AwardKind = "rsu"
)

// EquityAward is a grant of options or RSUs out of the option pool.
// Outstanding = Quantity - Exercised - Canceled, never negative.
type EquityAward struct {
	ID             string           `json:"id"`
	CompanyID      string           `json:"company_id"`
	HolderID       string           `json:"holder_id"`
	Kind           AwardKind        `json:"kind"`
	Quantity       int64            `json:"quantity"`
	Exercised      int64            `json:"exercised"`
	Canceled       int64            `json:"canceled"`
	StrikePrice    *decimal.Decimal `json:"strike_price,omitempty"`
	GrantDate      time.Time        `json:"grant_date"`
	VestingStart   *time.Time       `json:"vesting_start,omitempty"` // defaults to GrantDate
	CliffMonths    int              `json:"cliff_months"`
	DurationMonths int              `json:"duration_months"`
}

// Outstanding returns granted minus exercised minus canceled, floored at zero.
func (a *EquityAward) Outstanding() int64 {
	out := a.Quantity - a.Exercised - a.Canceled
	if out < 0 {
		return 0
	}
	return out
}

// VestingStartDate resolves the explicit vesting start, falling back to
// the grant date.
func (a *EquityAward) VestingStartDate() time.Time {
	if a.VestingStart != nil {
		return *a.VestingStart
	}
	return a.GrantDate
}
