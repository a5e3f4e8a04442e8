package processors

import (
	"sort"
	"time"

	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
	"github.com/shopspring/decimal"
)

// LedgerBalance returns the signed sum of all ledger entries for one
// (holder, class) pair with an issue date on or before asOf. The
// secondary-transfer validation and the aggregator share this logic.
func LedgerBalance(entries []models.ShareLedgerEntry, holderID, classID string, asOf time.Time) int64 {
	var balance int64
	for _, e := range entries {
		if e.HolderID != holderID || e.ClassID != classID {
			continue
		}
		if e.IssueDate.After(asOf) {
			continue
		}
		balance += e.Quantity
	}
	return balance
}

// ReferenceRound returns the most recently closed round on or before
// asOf among rounds with a positive price. Ties on close date break on
// round id so the choice is deterministic.
func ReferenceRound(rounds []models.Round, asOf time.Time) (models.Round, bool) {
	var best models.Round
	found := false
	for _, r := range rounds {
		if r.PricePerShare.Sign() <= 0 || r.CloseDate.After(asOf) {
			continue
		}
		if !found || r.CloseDate.After(best.CloseDate) ||
			(r.CloseDate.Equal(best.CloseDate) && r.ID > best.ID) {
			best = r
			found = true
		}
	}
	return best, found
}

type pairKey struct {
	holderID string
	classID  string
}

// awardShares returns how many shares an award contributes to
// fully-diluted counts under the given RSU policy as of a date.
func awardShares(award models.EquityAward, policy models.RSUPolicy, asOf time.Time) int64 {
	if award.Kind == models.AwardKindRSU && policy == models.RSUPolicyNone {
		return 0
	}
	if policy == models.RSUPolicyVested {
		n := VestedShares(award, asOf) - award.Exercised
		if n < 0 {
			return 0
		}
		return n
	}
	return award.Outstanding()
}

// BuildCapTable computes ownership rows and totals from a company
// snapshot as of a date, under a view and an RSU-inclusion policy.
//
// The computation is pure: identical inputs always produce identical
// output, degenerate states (no rounds, zero totals) yield zeros rather
// than errors, and convertibles that cannot be priced simply contribute
// no shares.
func BuildCapTable(snap *models.CompanySnapshot, asOf time.Time, view models.View, policy models.RSUPolicy) models.CapTableResult {
	if view == "" {
		view = models.DefaultView
	}
	if policy == "" {
		policy = models.DefaultRSUPolicy
	}

	// (1)+(2) Point-in-time signed balances per (holder, class).
	balances := make(map[pairKey]int64)
	var totalOutstanding int64
	for _, e := range snap.Entries {
		if e.IssueDate.After(asOf) {
			continue
		}
		balances[pairKey{e.HolderID, e.ClassID}] += e.Quantity
		totalOutstanding += e.Quantity
	}

	// (3) Outstanding award shares per holder, and pool usage.
	awardByHolder := make(map[string]int64)
	var totalAwardShares, poolUsed int64
	for _, a := range snap.Awards {
		if a.GrantDate.After(asOf) {
			continue
		}
		n := awardShares(a, policy, asOf)
		awardByHolder[a.HolderID] += n
		totalAwardShares += n
		granted := a.Quantity - a.Canceled
		if granted > 0 {
			poolUsed += granted
		}
	}
	availablePool := snap.Company.OptionPoolShares - poolUsed
	if availablePool < 0 {
		availablePool = 0
	}

	// Pre-round fully-diluted count, used both as the valuation-derived
	// price denominator and as the conversion base for convertibles.
	preRoundFD := totalOutstanding + totalAwardShares + availablePool

	// Reference price: the round's explicit price reconciled against
	// its valuation-derived price.
	var refPrice decimal.Decimal
	var priceSource string
	havePrice := false
	round, haveRound := ReferenceRound(snap.Rounds, asOf)
	if haveRound {
		candidates := []PriceCandidate{{Source: PriceSourceOverride, Price: round.PricePerShare}}
		if round.PreMoneyValuation != nil {
			if derived, ok := DeriveFromValuation(*round.PreMoneyValuation, preRoundFD); ok {
				candidates = append(candidates, PriceCandidate{Source: PriceSourceValuation, Price: derived})
			}
		}
		if reconciled, ok := Reconcile(candidates, models.DefaultPriceToleranceBps); ok {
			refPrice = reconciled.Price
			priceSource = string(reconciled.Source)
			havePrice = true
		}
	}

	// (4) As-converted convertible shares per holder. Without a priced
	// round only post-money SAFEs are priceable (their math needs no
	// round price). Instruments that fail to convert contribute nothing.
	convertibleByHolder := make(map[string]int64)
	var totalConvertibleShares int64
	for _, ci := range snap.Convertibles {
		if ci.IssueDate.After(asOf) {
			continue
		}
		var shares int64
		switch {
		case ci.Note != nil && havePrice:
			if conv, err := ConvertNote(ci, refPrice, asOf, preRoundFD); err == nil {
				shares = conv.SharesIssued
			}
		case ci.SAFE != nil && (havePrice || ci.SAFE.PostMoney):
			if conv, err := ConvertSafe(ci, refPrice, preRoundFD); err == nil {
				shares = conv.SharesIssued
			}
		}
		convertibleByHolder[ci.HolderID] += shares
		totalConvertibleShares += shares
	}

	// (5) Totals.
	totalFD := totalOutstanding + totalAwardShares + totalConvertibleShares + availablePool
	totals := models.CapTableTotals{
		OutstandingShares:   totalOutstanding,
		FullyDilutedShares:  totalFD,
		AvailablePoolShares: availablePool,
	}
	if havePrice {
		p := refPrice
		totals.PricePerShare = &p
		v := RoundMoney(refPrice.Mul(decimal.NewFromInt(totalFD)))
		totals.Valuation = &v
	}

	rows := buildRows(snap, balances, awardByHolder, convertibleByHolder, availablePool, view)

	// (6) Percentages, guarded against zero denominators.
	outTotal := decimal.NewFromInt(totalOutstanding)
	fdTotal := decimal.NewFromInt(totalFD)
	hundred := decimal.NewFromInt(100)
	for i := range rows {
		if totalOutstanding > 0 {
			rows[i].PctOutstanding = RoundPercent(decimal.NewFromInt(rows[i].Outstanding).Mul(hundred).Div(outTotal))
		} else {
			rows[i].PctOutstanding = decimal.Zero
		}
		if totalFD > 0 {
			rows[i].PctFullyDiluted = RoundPercent(decimal.NewFromInt(rows[i].FullyDiluted).Mul(hundred).Div(fdTotal))
		} else {
			rows[i].PctFullyDiluted = decimal.Zero
		}
	}

	// (7) Descending fully-diluted ownership, stable tie-break on
	// stakeholder then class id.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].FullyDiluted != rows[j].FullyDiluted {
			return rows[i].FullyDiluted > rows[j].FullyDiluted
		}
		if rows[i].StakeholderID != rows[j].StakeholderID {
			return rows[i].StakeholderID < rows[j].StakeholderID
		}
		return rows[i].ClassID < rows[j].ClassID
	})

	return models.CapTableResult{
		Totals: totals,
		Rows:   rows,
		Meta: models.CapTableMeta{
			AsOf:        asOf,
			View:        view,
			RSUPolicy:   policy,
			PriceSource: priceSource,
		},
	}
}

// buildRows materializes one row per (stakeholder, class) pair with a
// non-zero balance. A holder's derivative shares (awards and
// as-converted convertibles) attach to their first row by class id;
// under the fully-diluted view, derivative-only holders and the
// unallocated pool get synthetic rows so percentages account for every
// fully-diluted share.
func buildRows(snap *models.CompanySnapshot, balances map[pairKey]int64, awardByHolder, convertibleByHolder map[string]int64, availablePool int64, view models.View) []models.CapTableRow {
	keys := make([]pairKey, 0, len(balances))
	for k, bal := range balances {
		if bal != 0 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].holderID != keys[j].holderID {
			return keys[i].holderID < keys[j].holderID
		}
		return keys[i].classID < keys[j].classID
	})

	rows := make([]models.CapTableRow, 0, len(keys)+2)
	derivativesAttached := make(map[string]bool)
	for _, k := range keys {
		row := models.CapTableRow{
			StakeholderID: k.holderID,
			ClassID:       k.classID,
			Outstanding:   balances[k],
			FullyDiluted:  balances[k],
		}
		if sh, ok := snap.StakeholderByID(k.holderID); ok {
			row.StakeholderName = sh.Name
		}
		if sc, ok := snap.ClassByID(k.classID); ok {
			row.ClassName = sc.Name
		}
		if !derivativesAttached[k.holderID] {
			row.FullyDiluted += awardByHolder[k.holderID] + convertibleByHolder[k.holderID]
			derivativesAttached[k.holderID] = true
		}
		rows = append(rows, row)
	}

	if view != models.ViewFullyDiluted {
		return rows
	}

	// Derivative-only holders, in deterministic order.
	extra := make([]string, 0)
	for holderID, n := range awardByHolder {
		if n != 0 && !derivativesAttached[holderID] {
			extra = append(extra, holderID)
		}
	}
	for holderID, n := range convertibleByHolder {
		if n != 0 && !derivativesAttached[holderID] {
			extra = append(extra, holderID)
		}
	}
	sort.Strings(extra)
	seen := make(map[string]bool)
	for _, holderID := range extra {
		if seen[holderID] {
			continue
		}
		seen[holderID] = true
		row := models.CapTableRow{
			StakeholderID: holderID,
			FullyDiluted:  awardByHolder[holderID] + convertibleByHolder[holderID],
		}
		if sh, ok := snap.StakeholderByID(holderID); ok {
			row.StakeholderName = sh.Name
		}
		rows = append(rows, row)
	}

	if availablePool > 0 {
		rows = append(rows, models.CapTableRow{
			StakeholderID:   models.PoolStakeholderID,
			StakeholderName: "Option pool (unallocated)",
			FullyDiluted:    availablePool,
		})
	}
	return rows
}
