package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConvertibleKind identifies the instrument variant.
type ConvertibleKind string

const (
	ConvertibleKindSAFE ConvertibleKind = "safe"
	ConvertibleKindNote ConvertibleKind = "note"
)

// SAFETerms carries the fields valid only for a SAFE. A SAFE never
// accrues interest and has no maturity date.
type SAFETerms struct {
	DiscountRate *decimal.Decimal `json:"discount_rate,omitempty"` // e.g., 0.20 for 20%
	ValuationCap *decimal.Decimal `json:"valuation_cap,omitempty"`
	PostMoney    bool             `json:"post_money"`
}

// NoteTerms carries the fields valid only for a convertible note.
type NoteTerms struct {
	DiscountRate *decimal.Decimal `json:"discount_rate,omitempty"`
	ValuationCap *decimal.Decimal `json:"valuation_cap,omitempty"`
	InterestRate *decimal.Decimal `json:"interest_rate,omitempty"` // simple annual rate
	MaturityDate *time.Time       `json:"maturity_date,omitempty"`
}

// ConvertibleInstrument is a SAFE or a convertible note. Exactly one of
// SAFE/Note is set; the variant structs make invalid combinations (a
// SAFE with an interest rate) unrepresentable.
type ConvertibleInstrument struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	HolderID  string          `json:"holder_id"`
	Principal decimal.Decimal `json:"principal"`
	IssueDate time.Time       `json:"issue_date"`
	SAFE      *SAFETerms      `json:"safe,omitempty"`
	Note      *NoteTerms      `json:"note,omitempty"`
}

// Kind reports which variant this instrument is.
func (c *ConvertibleInstrument) Kind() ConvertibleKind {
	if c.Note != nil {
		return ConvertibleKindNote
	}
	return ConvertibleKindSAFE
}
