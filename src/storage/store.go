package storage

import (
	"context"

	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
)

// Store is the repository abstraction the engine computes over. Reads
// return point-in-time data; the engine itself performs no storage
// access beyond this interface.
type Store interface {
	GetCompany(ctx context.Context, companyID string) (*models.Company, error)

	// GetCompanySnapshot loads the company's full instrument data set.
	GetCompanySnapshot(ctx context.Context, companyID string) (*models.CompanySnapshot, error)

	GetStakeholder(ctx context.Context, stakeholderID string) (*models.Stakeholder, error)
	GetStakeholders(ctx context.Context, companyID string) ([]models.Stakeholder, error)
	CreateStakeholder(ctx context.Context, sh *models.Stakeholder) error

	GetSecurityClass(ctx context.Context, classID string) (*models.SecurityClass, error)
	GetConvertible(ctx context.Context, convertibleID string) (*models.ConvertibleInstrument, error)
	GetLedgerEntries(ctx context.Context, companyID string) ([]models.ShareLedgerEntry, error)

	// SaveTransferEntries persists a transfer's paired ledger entries
	// atomically: either both are written or neither is.
	SaveTransferEntries(ctx context.Context, entries []models.ShareLedgerEntry) error
}
