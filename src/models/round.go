package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Round is a priced financing event. The most recently closed round (by
// close date, among rounds with a positive price) is the reference
// round for conversions and valuation.
type Round struct {
	ID                string           `json:"id"`
	CompanyID         string           `json:"company_id"`
	Name              string           `json:"name"`
	CloseDate         time.Time        `json:"close_date"`
	PricePerShare     decimal.Decimal  `json:"price_per_share"`
	PreMoneyValuation *decimal.Decimal `json:"pre_money_valuation,omitempty"`
}
