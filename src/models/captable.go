package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// View selects which share universe a cap-table query reports on.
type View string

const (
	ViewOutstanding  View = "OUTSTANDING"
	ViewFullyDiluted View = "FULLY_DILUTED"
)

// RSUPolicy controls how RSU-like awards count toward fully-diluted
// totals: not at all, at granted quantity, or at vested quantity.
type RSUPolicy string

const (
	RSUPolicyNone    RSUPolicy = "none"
	RSUPolicyGranted RSUPolicy = "granted"
	RSUPolicyVested  RSUPolicy = "vested"
)

// PoolStakeholderID is the synthetic stakeholder id of the unallocated
// option-pool row in fully-diluted views.
const PoolStakeholderID = "option-pool"

// CapTableRow is one (stakeholder, class) line of a computed cap table.
// Derived, never persisted.
type CapTableRow struct {
	StakeholderID   string          `json:"stakeholder_id"`
	StakeholderName string          `json:"stakeholder_name"`
	ClassID         string          `json:"class_id,omitempty"`
	ClassName       string          `json:"class_name,omitempty"`
	Outstanding     int64           `json:"outstanding"`
	FullyDiluted    int64           `json:"fully_diluted"`
	PctOutstanding  decimal.Decimal `json:"pct_outstanding"`
	PctFullyDiluted decimal.Decimal `json:"pct_fully_diluted"`
}

// CapTableTotals summarizes a computed cap table.
type CapTableTotals struct {
	OutstandingShares   int64            `json:"outstanding_shares"`
	FullyDilutedShares  int64            `json:"fully_diluted_shares"`
	AvailablePoolShares int64            `json:"available_pool_shares"`
	PricePerShare       *decimal.Decimal `json:"price_per_share,omitempty"`
	Valuation           *decimal.Decimal `json:"valuation,omitempty"`
}

// CapTableMeta echoes the effective query parameters, for auditability.
type CapTableMeta struct {
	AsOf        time.Time `json:"as_of"`
	View        View      `json:"view"`
	RSUPolicy   RSUPolicy `json:"rsu_policy"`
	PriceSource string    `json:"price_source,omitempty"`
}

// CapTableResult is the full output of a cap-table computation.
type CapTableResult struct {
	Totals CapTableTotals `json:"totals"`
	Rows   []CapTableRow  `json:"rows"`
	Meta   CapTableMeta   `json:"meta"`
}

// CompanySnapshot is the read-only point-in-time data set the engine
// computes over. Storage implementations produce it; the engine never
// touches storage directly.
type CompanySnapshot struct {
	Company      Company
	Stakeholders []Stakeholder
	Classes      []SecurityClass
	Entries      []ShareLedgerEntry
	Awards       []EquityAward
	Convertibles []ConvertibleInstrument
	Rounds       []Round
}

// StakeholderByID looks a stakeholder up in the snapshot.
func (s *CompanySnapshot) StakeholderByID(id string) (Stakeholder, bool) {
	for _, sh := range s.Stakeholders {
		if sh.ID == id {
			return sh, true
		}
	}
	return Stakeholder{}, false
}

// ClassByID looks a security class up in the snapshot.
func (s *CompanySnapshot) ClassByID(id string) (SecurityClass, bool) {
	for _, c := range s.Classes {
		if c.ID == id {
			return c, true
		}
	}
	return SecurityClass{}, false
}
