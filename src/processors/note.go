package processors

import (
	"time"

	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
	"github.com/shopspring/decimal"
)

// NoteConversion is the result of pricing a convertible note.
type NoteConversion struct {
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	InterestAmount  decimal.Decimal `json:"interest_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	SharesIssued    int64           `json:"shares_issued"`
	ConversionPrice decimal.Decimal `json:"conversion_price"`
}

// TriggerReason explains why a note became convertible.
type TriggerReason string

const (
	TriggerReasonMaturity  TriggerReason = "maturity"
	TriggerReasonFinancing TriggerReason = "financing"
)

// TriggerState is the note trigger state machine output: either not
// triggered, or triggered with a reason.
type TriggerState struct {
	Triggered bool          `json:"triggered"`
	Reason    TriggerReason `json:"reason,omitempty"`
}

// EvaluateTrigger decides whether a note has become convertible.
// Maturity is checked first; the financing signal is an independent
// boolean supplied by the caller.
func EvaluateTrigger(note models.ConvertibleInstrument, asOf time.Time, financingOccurred bool) TriggerState {
	if note.Note != nil && note.Note.MaturityDate != nil && !asOf.Before(*note.Note.MaturityDate) {
		return TriggerState{Triggered: true, Reason: TriggerReasonMaturity}
	}
	if financingOccurred {
		return TriggerState{Triggered: true, Reason: TriggerReasonFinancing}
	}
	return TriggerState{}
}

// AccruedInterest computes simple interest on an Actual/365 basis from
// the issue date to asOf, money-rounded. Zero when the note has no rate
// or no days have elapsed.
func AccruedInterest(principal decimal.Decimal, annualRate *decimal.Decimal, issueDate, asOf time.Time) decimal.Decimal {
	if annualRate == nil || annualRate.Sign() <= 0 {
		return decimal.Zero
	}
	days := int64(asOf.Sub(issueDate).Hours() / 24)
	if days <= 0 {
		return decimal.Zero
	}
	interest := principal.Mul(*annualRate).Mul(decimal.NewFromInt(days)).Div(decimal.NewFromInt(365))
	return RoundMoney(interest)
}

// ConvertNote prices a convertible note against a round: principal plus
// accrued interest converts at the lowest applicable of the round
// price, the discount price and the cap price.
func ConvertNote(instr models.ConvertibleInstrument, pricePerShare decimal.Decimal, asOf time.Time, preRoundFullyDiluted int64) (NoteConversion, error) {
	if instr.Note == nil {
		return NoteConversion{}, &models.ConfigurationError{Reason: "instrument is not a convertible note"}
	}
	if instr.Principal.Sign() <= 0 {
		return NoteConversion{}, &models.ValidationError{Field: "principal", Reason: "must be positive"}
	}
	if pricePerShare.Sign() <= 0 {
		return NoteConversion{}, &models.ValidationError{Field: "pricePerShare", Reason: "must be positive"}
	}
	if preRoundFullyDiluted <= 0 {
		return NoteConversion{}, &models.ValidationError{Field: "preRoundFullyDilutedShares", Reason: "must be positive"}
	}

	terms := instr.Note
	interest := AccruedInterest(instr.Principal, terms.InterestRate, instr.IssueDate, asOf)
	total := instr.Principal.Add(interest)

	conversionPrice := pricePerShare
	if terms.DiscountRate != nil {
		discountPrice := RoundPrice(pricePerShare.Mul(decimal.NewFromInt(1).Sub(*terms.DiscountRate)))
		if discountPrice.Sign() > 0 && discountPrice.LessThan(conversionPrice) {
			conversionPrice = discountPrice
		}
	}
	if terms.ValuationCap != nil {
		capPrice := RoundPrice(terms.ValuationCap.Div(decimal.NewFromInt(preRoundFullyDiluted)))
		if capPrice.Sign() > 0 && capPrice.LessThan(conversionPrice) {
			conversionPrice = capPrice
		}
	}

	shares := RoundShares(total.Div(conversionPrice))
	return NoteConversion{
		PrincipalAmount: instr.Principal,
		InterestAmount:  interest,
		TotalAmount:     total,
		SharesIssued:    shares.IntPart(),
		ConversionPrice: conversionPrice,
	}, nil
}
