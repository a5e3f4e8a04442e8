package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/krllms-wq/CapTablePro8-sub000/src/logger"
	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
	"github.com/krllms-wq/CapTablePro8-sub000/src/processors"
	"github.com/krllms-wq/CapTablePro8-sub000/src/storage"
	cache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

const (
	DefaultCacheExpiration = 5 * time.Minute
	CacheCleanupInterval   = 10 * time.Minute
)

type capTableServiceImpl struct {
	store       storage.Store
	resultCache *cache.Cache
}

// NewCapTableService creates the cap-table computation service backed
// by the given repository and result cache.
func NewCapTableService(store storage.Store, resultCache *cache.Cache) CapTableService {
	return &capTableServiceImpl{
		store:       store,
		resultCache: resultCache,
	}
}

func capTableCacheKey(companyID string, asOf time.Time, view models.View, policy models.RSUPolicy) string {
	return fmt.Sprintf("captable:%s|%s|%s|%s", companyID, asOf.UTC().Format(time.RFC3339), view, policy)
}

func (s *capTableServiceImpl) ComputeCapTable(ctx context.Context, companyID string, asOf *time.Time, view models.View, policy models.RSUPolicy) (*models.CapTableResult, error) {
	if view == "" {
		view = models.DefaultView
	}
	if policy == "" {
		policy = models.DefaultRSUPolicy
	}
	// The engine takes all time inputs as parameters; "now" is resolved
	// here, once, so the computation itself stays deterministic.
	effectiveAsOf := time.Now().UTC()
	if asOf != nil {
		effectiveAsOf = asOf.UTC()
	}

	cacheKey := capTableCacheKey(companyID, effectiveAsOf, view, policy)
	if cached, found := s.resultCache.Get(cacheKey); found {
		if result, ok := cached.(*models.CapTableResult); ok {
			return result, nil
		}
	}

	snap, err := s.store.GetCompanySnapshot(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := processors.BuildCapTable(snap, effectiveAsOf, view, policy)
	s.resultCache.Set(cacheKey, &result, cache.DefaultExpiration)

	logger.FromContext(ctx).Debug("Cap table computed",
		"companyID", companyID, "asOf", effectiveAsOf, "view", view, "rsuPolicy", policy,
		"rows", len(result.Rows), "fullyDiluted", result.Totals.FullyDilutedShares)
	return &result, nil
}

func (s *capTableServiceImpl) PreviewConversion(ctx context.Context, companyID, convertibleID string, params ConvertParams) (*ConversionPreview, error) {
	snap, err := s.store.GetCompanySnapshot(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var instr *models.ConvertibleInstrument
	for i := range snap.Convertibles {
		if snap.Convertibles[i].ID == convertibleID {
			instr = &snap.Convertibles[i]
			break
		}
	}
	if instr == nil {
		return nil, models.ErrConvertibleNotFound
	}

	asOf := time.Now().UTC()
	if params.AsOf != nil {
		asOf = params.AsOf.UTC()
	}

	// Reuse the aggregator's own totals for the conversion base and the
	// reference price, so previews agree with computed cap tables.
	table := processors.BuildCapTable(snap, asOf, models.ViewFullyDiluted, models.DefaultRSUPolicy)
	preFD := table.Totals.OutstandingShares + table.Totals.AvailablePoolShares
	for _, a := range snap.Awards {
		if !a.GrantDate.After(asOf) {
			preFD += a.Outstanding()
		}
	}
	if params.PreRoundFullyDiluted != nil {
		preFD = *params.PreRoundFullyDiluted
	}

	var price decimal.Decimal
	if params.PricePerShare != nil {
		price = *params.PricePerShare
	} else if table.Totals.PricePerShare != nil {
		price = *table.Totals.PricePerShare
	}

	preview := &ConversionPreview{Kind: instr.Kind()}
	switch instr.Kind() {
	case models.ConvertibleKindNote:
		conv, err := processors.ConvertNote(*instr, price, asOf, preFD)
		if err != nil {
			return nil, err
		}
		preview.Note = &conv
		trigger := processors.EvaluateTrigger(*instr, asOf, params.PricePerShare != nil || table.Totals.PricePerShare != nil)
		preview.Trigger = &trigger
	default:
		conv, err := processors.ConvertSafe(*instr, price, preFD)
		if err != nil {
			return nil, err
		}
		preview.Safe = &conv
	}
	return preview, nil
}

// InvalidateCompanyCache drops every cached cap table of the company.
// Called after any ledger mutation.
func (s *capTableServiceImpl) InvalidateCompanyCache(companyID string) {
	prefix := "captable:" + companyID + "|"
	for key := range s.resultCache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.resultCache.Delete(key)
		}
	}
	logger.L.Debug("Cap table cache invalidated", "companyID", companyID)
}
