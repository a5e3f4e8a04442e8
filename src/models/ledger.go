package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger entry types. Corrections are new offsetting entries, never
// in-place mutations.
const (
	EntryTypeIssuance    = "issuance"
	EntryTypeTransferOut = "transfer_out"
	EntryTypeTransferIn  = "transfer_in"
	EntryTypeCancel      = "cancel"
)

// ShareLedgerEntry is a single signed movement of shares for one
// (holder, class) pair. Positive quantity is inbound (issuance,
// transfer in), negative is outbound. The running balance of a pair is
// the signed sum of its entries with IssueDate on or before the as-of
// date.
type ShareLedgerEntry struct {
	ID            string           `json:"id"`
	CompanyID     string           `json:"company_id"`
	HolderID      string           `json:"holder_id"`
	ClassID       string           `json:"class_id"`
	Quantity      int64            `json:"quantity"`
	IssueDate     time.Time        `json:"issue_date"`
	EntryType     string           `json:"entry_type"`
	Consideration *decimal.Decimal `json:"consideration,omitempty"`
	TransactionID string           `json:"transaction_id,omitempty"` // links paired transfer entries
}
