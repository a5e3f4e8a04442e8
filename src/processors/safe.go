package processors

import (
	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
	"github.com/shopspring/decimal"
)

// SafeConversion is the result of pricing a SAFE at a financing.
type SafeConversion struct {
	SharesIssued    int64           `json:"shares_issued"`
	ConversionPrice decimal.Decimal `json:"conversion_price"`
	UsedDiscount    bool            `json:"used_discount"`
	UsedCap         bool            `json:"used_cap"`
}

// ConvertSafe prices a SAFE against a round.
//
// Pre-money SAFEs convert at the lowest applicable of the round price,
// the discount price and the cap price. With neither discount nor cap
// the SAFE converts at the plain round price. Post-money SAFEs require
// a valuation cap and issue enough shares that the holder owns exactly
// principal/cap of the post-conversion fully-diluted total.
func ConvertSafe(instr models.ConvertibleInstrument, pricePerShare decimal.Decimal, preRoundFullyDiluted int64) (SafeConversion, error) {
	if instr.SAFE == nil {
		return SafeConversion{}, &models.ConfigurationError{Reason: "instrument is not a SAFE"}
	}
	if instr.Principal.Sign() <= 0 {
		return SafeConversion{}, &models.ValidationError{Field: "principal", Reason: "must be positive"}
	}
	if preRoundFullyDiluted <= 0 {
		return SafeConversion{}, &models.ValidationError{Field: "preRoundFullyDilutedShares", Reason: "must be positive"}
	}

	terms := instr.SAFE
	if terms.PostMoney {
		return convertPostMoneySafe(instr.Principal, terms, preRoundFullyDiluted)
	}
	return convertPreMoneySafe(instr.Principal, terms, pricePerShare, preRoundFullyDiluted)
}

func convertPreMoneySafe(principal decimal.Decimal, terms *models.SAFETerms, pricePerShare decimal.Decimal, preRoundFullyDiluted int64) (SafeConversion, error) {
	if pricePerShare.Sign() <= 0 {
		return SafeConversion{}, &models.ValidationError{Field: "pricePerShare", Reason: "must be positive"}
	}

	// With neither discount nor cap the SAFE converts at the round
	// price exactly, no re-rounding.
	if terms.DiscountRate == nil && terms.ValuationCap == nil {
		shares := RoundShares(principal.Div(pricePerShare))
		return SafeConversion{
			SharesIssued:    shares.IntPart(),
			ConversionPrice: pricePerShare,
		}, nil
	}

	conversionPrice := pricePerShare
	usedDiscount, usedCap := false, false

	if terms.DiscountRate != nil {
		discountPrice := RoundPrice(pricePerShare.Mul(decimal.NewFromInt(1).Sub(*terms.DiscountRate)))
		if discountPrice.Sign() > 0 && discountPrice.LessThan(conversionPrice) {
			conversionPrice = discountPrice
			usedDiscount = true
		}
	}
	if terms.ValuationCap != nil {
		capPrice := RoundPrice(terms.ValuationCap.Div(decimal.NewFromInt(preRoundFullyDiluted)))
		if capPrice.Sign() > 0 && capPrice.LessThan(conversionPrice) {
			conversionPrice = capPrice
			usedDiscount = false
			usedCap = true
		}
	}

	shares := RoundShares(principal.Div(conversionPrice))
	return SafeConversion{
		SharesIssued:    shares.IntPart(),
		ConversionPrice: conversionPrice,
		UsedDiscount:    usedDiscount,
		UsedCap:         usedCap,
	}, nil
}

func convertPostMoneySafe(principal decimal.Decimal, terms *models.SAFETerms, preRoundFullyDiluted int64) (SafeConversion, error) {
	if terms.ValuationCap == nil {
		return SafeConversion{}, &models.ConfigurationError{Reason: "post-money SAFE requires a valuation cap"}
	}

	// Target ownership of the post-conversion fully-diluted total.
	target := principal.Div(*terms.ValuationCap)
	if target.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return SafeConversion{}, &models.ConfigurationError{Reason: "principal meets or exceeds the valuation cap"}
	}

	// shares = target * preFD / (1 - target), so that
	// shares / (preFD + shares) == target.
	preFD := decimal.NewFromInt(preRoundFullyDiluted)
	shares := RoundShares(target.Mul(preFD).Div(decimal.NewFromInt(1).Sub(target)))
	if shares.Sign() <= 0 {
		return SafeConversion{}, &models.ConfigurationError{Reason: "conversion yields no shares"}
	}

	impliedPrice := RoundPrice(principal.Div(shares))
	return SafeConversion{
		SharesIssued:    shares.IntPart(),
		ConversionPrice: impliedPrice,
		UsedCap:         true,
	}, nil
}
