package services

import (
	"context"
	"time"

	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
	"github.com/krllms-wq/CapTablePro8-sub000/src/processors"
	"github.com/shopspring/decimal"
)

// NewBuyerID is the sentinel buyer id that requests creation of a new
// stakeholder as part of a transfer.
const NewBuyerID = "new"

// TransferRequest describes a secondary share transfer between two
// stakeholders of one company.
type TransferRequest struct {
	CompanyID       string          `json:"company_id"`
	SellerID        string          `json:"seller_id"`
	BuyerID         string          `json:"buyer_id"`
	ClassID         string          `json:"class_id"`
	Quantity        int64           `json:"quantity"`
	PricePerShare   decimal.Decimal `json:"price_per_share"`
	TransactionDate time.Time       `json:"transaction_date"`
	NewBuyerName    string          `json:"new_buyer_name,omitempty"`
}

// TransferResult reports a completed transfer: the paired ledger
// entries sharing one transaction id, and the total consideration.
type TransferResult struct {
	TransactionID  string                  `json:"transaction_id"`
	ReductionEntry models.ShareLedgerEntry `json:"reduction_entry"`
	AdditionEntry  models.ShareLedgerEntry `json:"addition_entry"`
	TotalValue     decimal.Decimal         `json:"total_value"`
}

// ConvertParams optionally overrides the inputs of a conversion
// preview; unset fields fall back to the reference round and the
// computed pre-round fully-diluted count.
type ConvertParams struct {
	PricePerShare        *decimal.Decimal `json:"price_per_share,omitempty"`
	PreRoundFullyDiluted *int64           `json:"pre_round_fully_diluted_shares,omitempty"`
	AsOf                 *time.Time       `json:"as_of,omitempty"`
}

// ConversionPreview is the result of pricing one convertible
// instrument, tagged by instrument kind.
type ConversionPreview struct {
	Kind    models.ConvertibleKind     `json:"kind"`
	Safe    *processors.SafeConversion `json:"safe,omitempty"`
	Note    *processors.NoteConversion `json:"note,omitempty"`
	Trigger *processors.TriggerState   `json:"trigger,omitempty"`
}

// CapTableService computes point-in-time cap tables and conversion
// previews over the repository, with caching per query shape.
type CapTableService interface {
	// ComputeCapTable computes the cap table as of a date (nil means
	// now), under a view and RSU policy (empty values use defaults).
	ComputeCapTable(ctx context.Context, companyID string, asOf *time.Time, view models.View, policy models.RSUPolicy) (*models.CapTableResult, error)

	// PreviewConversion prices one convertible without mutating state.
	PreviewConversion(ctx context.Context, companyID, convertibleID string, params ConvertParams) (*ConversionPreview, error)

	// InvalidateCompanyCache drops all cached cap tables of a company.
	InvalidateCompanyCache(companyID string)
}

// TransferService executes balance-checked secondary transfers.
type TransferService interface {
	TransferShares(ctx context.Context, req TransferRequest) (*TransferResult, error)
}
