package services

import (
	"context"
	"testing"
	"time"

	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
	"github.com/krllms-wq/CapTablePro8-sub000/src/storage/memory"
	cache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func seedCapTableStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	store.AddCompany(models.Company{ID: "c1", Name: "Acme"})
	store.AddStakeholder(models.Stakeholder{ID: "alice", CompanyID: "c1", Name: "Alice"})
	store.AddStakeholder(models.Stakeholder{ID: "carol", CompanyID: "c1", Name: "Carol"})
	store.AddSecurityClass(models.SecurityClass{ID: "common", CompanyID: "c1", Name: "Common"})
	store.AddLedgerEntry(models.ShareLedgerEntry{
		ID:        "e1",
		CompanyID: "c1",
		HolderID:  "alice",
		ClassID:   "common",
		Quantity:  1_000_000,
		IssueDate: day(2020, time.January, 1),
		EntryType: models.EntryTypeIssuance,
	})
	return store
}

func newCapTableService(store *memory.Store) CapTableService {
	return NewCapTableService(store, cache.New(DefaultCacheExpiration, CacheCleanupInterval))
}

func TestComputeCapTableDefaultsAndMeta(t *testing.T) {
	t.Parallel()

	svc := newCapTableService(seedCapTableStore(t))
	asOf := day(2023, time.June, 1)

	result, err := svc.ComputeCapTable(context.Background(), "c1", &asOf, "", "")
	require.NoError(t, err)

	assert.Equal(t, models.DefaultView, result.Meta.View)
	assert.Equal(t, models.DefaultRSUPolicy, result.Meta.RSUPolicy)
	assert.Equal(t, asOf, result.Meta.AsOf)
	assert.Equal(t, int64(1_000_000), result.Totals.OutstandingShares)
}

func TestComputeCapTableUnknownCompany(t *testing.T) {
	t.Parallel()

	svc := newCapTableService(seedCapTableStore(t))
	_, err := svc.ComputeCapTable(context.Background(), "ghost", nil, "", "")
	assert.ErrorIs(t, err, models.ErrCompanyNotFound)
}

func TestComputeCapTableCachesUntilInvalidated(t *testing.T) {
	t.Parallel()

	store := seedCapTableStore(t)
	svc := newCapTableService(store)
	asOf := day(2023, time.June, 1)

	first, err := svc.ComputeCapTable(context.Background(), "c1", &asOf, models.ViewFullyDiluted, models.RSUPolicyGranted)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), first.Totals.OutstandingShares)

	// A mutation the cache has not seen yet: the same query must still
	// serve the cached result.
	store.AddLedgerEntry(models.ShareLedgerEntry{
		ID:        "e2",
		CompanyID: "c1",
		HolderID:  "alice",
		ClassID:   "common",
		Quantity:  500_000,
		IssueDate: day(2021, time.January, 1),
		EntryType: models.EntryTypeIssuance,
	})
	cached, err := svc.ComputeCapTable(context.Background(), "c1", &asOf, models.ViewFullyDiluted, models.RSUPolicyGranted)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), cached.Totals.OutstandingShares)

	svc.InvalidateCompanyCache("c1")

	fresh, err := svc.ComputeCapTable(context.Background(), "c1", &asOf, models.ViewFullyDiluted, models.RSUPolicyGranted)
	require.NoError(t, err)
	assert.Equal(t, int64(1_500_000), fresh.Totals.OutstandingShares)
}

func TestPreviewConversionSafe(t *testing.T) {
	t.Parallel()

	store := seedCapTableStore(t)
	store.AddConvertible(models.ConvertibleInstrument{
		ID:        "safe-1",
		CompanyID: "c1",
		HolderID:  "carol",
		Principal: decimal.NewFromInt(100_000),
		IssueDate: day(2022, time.January, 1),
		SAFE:      &models.SAFETerms{},
	})
	svc := newCapTableService(store)

	asOf := day(2023, time.June, 1)
	preview, err := svc.PreviewConversion(context.Background(), "c1", "safe-1", ConvertParams{
		PricePerShare: decp("2.00"),
		AsOf:          &asOf,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ConvertibleKindSAFE, preview.Kind)
	require.NotNil(t, preview.Safe)
	assert.Equal(t, int64(50_000), preview.Safe.SharesIssued)
	assert.True(t, preview.Safe.ConversionPrice.Equal(decimal.RequireFromString("2.00")))
	assert.Nil(t, preview.Note)
}

func TestPreviewConversionNote(t *testing.T) {
	t.Parallel()

	store := seedCapTableStore(t)
	store.AddConvertible(models.ConvertibleInstrument{
		ID:        "note-1",
		CompanyID: "c1",
		HolderID:  "carol",
		Principal: decimal.NewFromInt(100_000),
		IssueDate: day(2022, time.January, 1),
		Note:      &models.NoteTerms{DiscountRate: decp("0.20")},
	})
	svc := newCapTableService(store)

	asOf := day(2022, time.January, 1)
	preview, err := svc.PreviewConversion(context.Background(), "c1", "note-1", ConvertParams{
		PricePerShare: decp("2.00"),
		AsOf:          &asOf,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ConvertibleKindNote, preview.Kind)
	require.NotNil(t, preview.Note)
	assert.True(t, preview.Note.ConversionPrice.Equal(decimal.RequireFromString("1.6")))
	assert.Equal(t, int64(62_500), preview.Note.SharesIssued)
	require.NotNil(t, preview.Trigger)
	assert.True(t, preview.Trigger.Triggered)
}

func TestPreviewConversionUnknownInstrument(t *testing.T) {
	t.Parallel()

	svc := newCapTableService(seedCapTableStore(t))
	_, err := svc.PreviewConversion(context.Background(), "c1", "ghost", ConvertParams{})
	assert.ErrorIs(t, err, models.ErrConvertibleNotFound)
}
