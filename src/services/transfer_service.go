package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/krllms-wq/CapTablePro8-sub000/src/logger"
	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
	"github.com/krllms-wq/CapTablePro8-sub000/src/processors"
	"github.com/krllms-wq/CapTablePro8-sub000/src/security/validation"
	"github.com/krllms-wq/CapTablePro8-sub000/src/storage"
	"github.com/shopspring/decimal"
)

type transferServiceImpl struct {
	store           storage.Store
	capTableService CapTableService

	// One mutex per (holder, class) pair, held across the
	// balance-check and the write so two concurrent transfers cannot
	// both validate against a balance their combination would exceed.
	muMap map[string]*sync.Mutex
	mapMu sync.Mutex
}

// NewTransferService creates the secondary-transfer service. The
// cap-table service may be nil (no cache to invalidate, e.g. in tests).
func NewTransferService(store storage.Store, capTableService CapTableService) TransferService {
	return &transferServiceImpl{
		store:           store,
		capTableService: capTableService,
		muMap:           make(map[string]*sync.Mutex),
	}
}

func (s *transferServiceImpl) pairLock(holderID, classID string) *sync.Mutex {
	key := holderID + "|" + classID
	s.mapMu.Lock()
	defer s.mapMu.Unlock()
	if _, exists := s.muMap[key]; !exists {
		s.muMap[key] = &sync.Mutex{}
	}
	return s.muMap[key]
}

func (s *transferServiceImpl) TransferShares(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	// (1) Field validation before any computation.
	switch {
	case req.CompanyID == "":
		return nil, &models.ValidationError{Field: "companyId", Reason: "required"}
	case req.SellerID == "":
		return nil, &models.ValidationError{Field: "sellerId", Reason: "required"}
	case req.BuyerID == "":
		return nil, &models.ValidationError{Field: "buyerId", Reason: "required"}
	case req.ClassID == "":
		return nil, &models.ValidationError{Field: "classId", Reason: "required"}
	case req.Quantity <= 0:
		return nil, &models.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	case req.PricePerShare.Sign() < 0:
		return nil, &models.ValidationError{Field: "pricePerShare", Reason: "must not be negative"}
	case req.TransactionDate.IsZero():
		return nil, &models.ValidationError{Field: "transactionDate", Reason: "required"}
	}

	// (2) A stakeholder cannot trade with themselves.
	if req.SellerID == req.BuyerID {
		return nil, models.ErrSelfTransferNotAllowed
	}

	// (3) The class must exist.
	class, err := s.store.GetSecurityClass(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}

	seller, err := s.store.GetStakeholder(ctx, req.SellerID)
	if err != nil {
		return nil, err
	}

	// (4) Resolve or create the buyer.
	buyer, err := s.resolveBuyer(ctx, req)
	if err != nil {
		return nil, err
	}

	// (5)+(6) Balance check and paired write under the seller's
	// (holder, class) lock.
	lock := s.pairLock(req.SellerID, req.ClassID)
	lock.Lock()
	defer lock.Unlock()

	entries, err := s.store.GetLedgerEntries(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	available := processors.LedgerBalance(entries, req.SellerID, req.ClassID, req.TransactionDate)
	if available < req.Quantity {
		return nil, &models.InsufficientSharesError{Requested: req.Quantity, Available: available}
	}

	totalValue := processors.RoundMoney(req.PricePerShare.Mul(decimal.NewFromInt(req.Quantity)))
	transactionID := uuid.New().String()

	reduction := models.ShareLedgerEntry{
		ID:            uuid.New().String(),
		CompanyID:     req.CompanyID,
		HolderID:      seller.ID,
		ClassID:       class.ID,
		Quantity:      -req.Quantity,
		IssueDate:     req.TransactionDate,
		EntryType:     models.EntryTypeTransferOut,
		Consideration: &totalValue,
		TransactionID: transactionID,
	}
	addition := models.ShareLedgerEntry{
		ID:            uuid.New().String(),
		CompanyID:     req.CompanyID,
		HolderID:      buyer.ID,
		ClassID:       class.ID,
		Quantity:      req.Quantity,
		IssueDate:     req.TransactionDate,
		EntryType:     models.EntryTypeTransferIn,
		Consideration: &totalValue,
		TransactionID: transactionID,
	}

	// (6) All-or-nothing: the store writes both entries or neither.
	if err := s.store.SaveTransferEntries(ctx, []models.ShareLedgerEntry{reduction, addition}); err != nil {
		return nil, err
	}

	if s.capTableService != nil {
		s.capTableService.InvalidateCompanyCache(req.CompanyID)
	}

	logger.FromContext(ctx).Info("Secondary transfer completed",
		"companyID", req.CompanyID, "transactionID", transactionID,
		"sellerID", seller.ID, "buyerID", buyer.ID, "classID", class.ID,
		"quantity", req.Quantity, "totalValue", totalValue.String())

	return &TransferResult{
		TransactionID:  transactionID,
		ReductionEntry: reduction,
		AdditionEntry:  addition,
		TotalValue:     totalValue,
	}, nil
}

// resolveBuyer looks the buyer up, or creates a new stakeholder when
// the request asks for one by name.
func (s *transferServiceImpl) resolveBuyer(ctx context.Context, req TransferRequest) (*models.Stakeholder, error) {
	if req.BuyerID != NewBuyerID {
		buyer, err := s.store.GetStakeholder(ctx, req.BuyerID)
		if err != nil {
			return nil, models.ErrBuyerNotFound
		}
		return buyer, nil
	}

	name := validation.SanitizeName(req.NewBuyerName)
	if name == "" {
		return nil, models.ErrMissingBuyerName
	}
	buyer := &models.Stakeholder{
		ID:        uuid.New().String(),
		CompanyID: req.CompanyID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateStakeholder(ctx, buyer); err != nil {
		return nil, err
	}
	if s.capTableService != nil {
		s.capTableService.InvalidateCompanyCache(req.CompanyID)
	}
	return buyer, nil
}
