package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
	"github.com/krllms-wq/CapTablePro8-sub000/src/storage"
	"github.com/shopspring/decimal"
)

// Store is the sqlite implementation of storage.Store.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetCompany(ctx context.Context, companyID string) (*models.Company, error) {
	var c models.Company
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, option_pool_shares, created_at FROM companies WHERE id = ?`, companyID).
		Scan(&c.ID, &c.Name, &c.OptionPoolShares, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying company %s: %w", companyID, err)
	}
	return &c, nil
}

func (s *Store) GetCompanySnapshot(ctx context.Context, companyID string) (*models.CompanySnapshot, error) {
	company, err := s.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	snap := &models.CompanySnapshot{Company: *company}

	if snap.Stakeholders, err = s.GetStakeholders(ctx, companyID); err != nil {
		return nil, err
	}
	if snap.Classes, err = s.getSecurityClasses(ctx, companyID); err != nil {
		return nil, err
	}
	if snap.Entries, err = s.GetLedgerEntries(ctx, companyID); err != nil {
		return nil, err
	}
	if snap.Awards, err = s.getAwards(ctx, companyID); err != nil {
		return nil, err
	}
	if snap.Convertibles, err = s.getConvertibles(ctx, companyID); err != nil {
		return nil, err
	}
	if snap.Rounds, err = s.getRounds(ctx, companyID); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) GetStakeholder(ctx context.Context, stakeholderID string) (*models.Stakeholder, error) {
	var sh models.Stakeholder
	var email sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, company_id, name, email, created_at FROM stakeholders WHERE id = ?`, stakeholderID).
		Scan(&sh.ID, &sh.CompanyID, &sh.Name, &email, &sh.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrStakeholderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying stakeholder %s: %w", stakeholderID, err)
	}
	sh.Email = email.String
	return &sh, nil
}

func (s *Store) GetStakeholders(ctx context.Context, companyID string) ([]models.Stakeholder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, name, email, created_at FROM stakeholders WHERE company_id = ? ORDER BY id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("querying stakeholders: %w", err)
	}
	defer rows.Close()

	var out []models.Stakeholder
	for rows.Next() {
		var sh models.Stakeholder
		var email sql.NullString
		if err := rows.Scan(&sh.ID, &sh.CompanyID, &sh.Name, &email, &sh.CreatedAt); err != nil {
			return nil, err
		}
		sh.Email = email.String
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *Store) CreateStakeholder(ctx context.Context, sh *models.Stakeholder) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stakeholders (id, company_id, name, email, created_at) VALUES (?, ?, ?, ?, ?)`,
		sh.ID, sh.CompanyID, sh.Name, nullString(sh.Email), sh.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting stakeholder: %w", err)
	}
	return nil
}

func (s *Store) GetSecurityClass(ctx context.Context, classID string) (*models.SecurityClass, error) {
	var sc models.SecurityClass
	var pref, ratio, voting string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, company_id, name, seniority_tier, liquidation_preference, participating, conversion_ratio, voting_multiplier
		 FROM security_classes WHERE id = ?`, classID).
		Scan(&sc.ID, &sc.CompanyID, &sc.Name, &sc.SeniorityTier, &pref, &sc.Participating, &ratio, &voting)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrSecurityClassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying security class %s: %w", classID, err)
	}
	if err := parseClassDecimals(&sc, pref, ratio, voting); err != nil {
		return nil, err
	}
	sc.ApplyDefaults()
	return &sc, nil
}

func (s *Store) getSecurityClasses(ctx context.Context, companyID string) ([]models.SecurityClass, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, name, seniority_tier, liquidation_preference, participating, conversion_ratio, voting_multiplier
		 FROM security_classes WHERE company_id = ? ORDER BY seniority_tier, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("querying security classes: %w", err)
	}
	defer rows.Close()

	var out []models.SecurityClass
	for rows.Next() {
		var sc models.SecurityClass
		var pref, ratio, voting string
		if err := rows.Scan(&sc.ID, &sc.CompanyID, &sc.Name, &sc.SeniorityTier, &pref, &sc.Participating, &ratio, &voting); err != nil {
			return nil, err
		}
		if err := parseClassDecimals(&sc, pref, ratio, voting); err != nil {
			return nil, err
		}
		sc.ApplyDefaults()
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) GetLedgerEntries(ctx context.Context, companyID string) ([]models.ShareLedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, holder_id, class_id, quantity, issue_date, entry_type, consideration, transaction_id
		 FROM share_ledger_entries WHERE company_id = ? ORDER BY issue_date, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("querying ledger entries: %w", err)
	}
	defer rows.Close()

	var out []models.ShareLedgerEntry
	for rows.Next() {
		var e models.ShareLedgerEntry
		var consideration, txID sql.NullString
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.HolderID, &e.ClassID, &e.Quantity, &e.IssueDate, &e.EntryType, &consideration, &txID); err != nil {
			return nil, err
		}
		if consideration.Valid {
			d, err := decimal.NewFromString(consideration.String)
			if err != nil {
				return nil, fmt.Errorf("parsing consideration for entry %s: %w", e.ID, err)
			}
			e.Consideration = &d
		}
		e.TransactionID = txID.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) getAwards(ctx context.Context, companyID string) ([]models.EquityAward, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, holder_id, kind, quantity, exercised, canceled, strike_price, grant_date, vesting_start, cliff_months, duration_months
		 FROM equity_awards WHERE company_id = ? ORDER BY grant_date, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("querying equity awards: %w", err)
	}
	defer rows.Close()

	var out []models.EquityAward
	for rows.Next() {
		var a models.EquityAward
		var strike sql.NullString
		var vestingStart sql.NullTime
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.HolderID, &a.Kind, &a.Quantity, &a.Exercised, &a.Canceled, &strike, &a.GrantDate, &vestingStart, &a.CliffMonths, &a.DurationMonths); err != nil {
			return nil, err
		}
		if strike.Valid {
			d, err := decimal.NewFromString(strike.String)
			if err != nil {
				return nil, fmt.Errorf("parsing strike price for award %s: %w", a.ID, err)
			}
			a.StrikePrice = &d
		}
		if vestingStart.Valid {
			t := vestingStart.Time
			a.VestingStart = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) GetConvertible(ctx context.Context, convertibleID string) (*models.ConvertibleInstrument, error) {
	rows, err := s.db.QueryContext(ctx, convertibleQuery+` WHERE id = ?`, convertibleID)
	if err != nil {
		return nil, fmt.Errorf("querying convertible %s: %w", convertibleID, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, models.ErrConvertibleNotFound
	}
	ci, err := scanConvertible(rows)
	if err != nil {
		return nil, err
	}
	return &ci, nil
}

const convertibleQuery = `SELECT id, company_id, holder_id, kind, principal, issue_date, discount_rate, valuation_cap, interest_rate, maturity_date, post_money
	 FROM convertible_instruments`

func (s *Store) getConvertibles(ctx context.Context, companyID string) ([]models.ConvertibleInstrument, error) {
	rows, err := s.db.QueryContext(ctx, convertibleQuery+` WHERE company_id = ? ORDER BY issue_date, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("querying convertibles: %w", err)
	}
	defer rows.Close()

	var out []models.ConvertibleInstrument
	for rows.Next() {
		ci, err := scanConvertible(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ci)
	}
	return out, rows.Err()
}

func scanConvertible(rows *sql.Rows) (models.ConvertibleInstrument, error) {
	var ci models.ConvertibleInstrument
	var kind, principal string
	var discount, cap, interest sql.NullString
	var maturity sql.NullTime
	var postMoney bool
	if err := rows.Scan(&ci.ID, &ci.CompanyID, &ci.HolderID, &kind, &principal, &ci.IssueDate, &discount, &cap, &interest, &maturity, &postMoney); err != nil {
		return ci, err
	}
	p, err := decimal.NewFromString(principal)
	if err != nil {
		return ci, fmt.Errorf("parsing principal for convertible %s: %w", ci.ID, err)
	}
	ci.Principal = p

	discountDec, err := nullDecimal(discount)
	if err != nil {
		return ci, fmt.Errorf("parsing discount rate for convertible %s: %w", ci.ID, err)
	}
	capDec, err := nullDecimal(cap)
	if err != nil {
		return ci, fmt.Errorf("parsing valuation cap for convertible %s: %w", ci.ID, err)
	}

	switch models.ConvertibleKind(kind) {
	case models.ConvertibleKindNote:
		interestDec, err := nullDecimal(interest)
		if err != nil {
			return ci, fmt.Errorf("parsing interest rate for convertible %s: %w", ci.ID, err)
		}
		terms := &models.NoteTerms{DiscountRate: discountDec, ValuationCap: capDec, InterestRate: interestDec}
		if maturity.Valid {
			t := maturity.Time
			terms.MaturityDate = &t
		}
		ci.Note = terms
	default:
		ci.SAFE = &models.SAFETerms{DiscountRate: discountDec, ValuationCap: capDec, PostMoney: postMoney}
	}
	return ci, nil
}

func (s *Store) getRounds(ctx context.Context, companyID string) ([]models.Round, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, name, close_date, price_per_share, pre_money_valuation
		 FROM rounds WHERE company_id = ? ORDER BY close_date, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("querying rounds: %w", err)
	}
	defer rows.Close()

	var out []models.Round
	for rows.Next() {
		var r models.Round
		var price string
		var preMoney sql.NullString
		if err := rows.Scan(&r.ID, &r.CompanyID, &r.Name, &r.CloseDate, &price, &preMoney); err != nil {
			return nil, err
		}
		p, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parsing price for round %s: %w", r.ID, err)
		}
		r.PricePerShare = p
		pm, err := nullDecimal(preMoney)
		if err != nil {
			return nil, fmt.Errorf("parsing pre-money valuation for round %s: %w", r.ID, err)
		}
		r.PreMoneyValuation = pm
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveTransferEntries writes both entries of a transfer in one
// transaction so the ledger never holds a half-written transfer.
func (s *Store) SaveTransferEntries(ctx context.Context, entries []models.ShareLedgerEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transfer transaction: %w", err)
	}
	for _, e := range entries {
		var consideration interface{}
		if e.Consideration != nil {
			consideration = e.Consideration.String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO share_ledger_entries (id, company_id, holder_id, class_id, quantity, issue_date, entry_type, consideration, transaction_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.CompanyID, e.HolderID, e.ClassID, e.Quantity, e.IssueDate, e.EntryType, consideration, nullString(e.TransactionID))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting ledger entry %s: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transfer: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullDecimal(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseClassDecimals(sc *models.SecurityClass, pref, ratio, voting string) error {
	var err error
	if sc.LiquidationPreference, err = decimal.NewFromString(pref); err != nil {
		return fmt.Errorf("parsing liquidation preference for class %s: %w", sc.ID, err)
	}
	if sc.ConversionRatio, err = decimal.NewFromString(ratio); err != nil {
		return fmt.Errorf("parsing conversion ratio for class %s: %w", sc.ID, err)
	}
	if sc.VotingMultiplier, err = decimal.NewFromString(voting); err != nil {
		return fmt.Errorf("parsing voting multiplier for class %s: %w", sc.ID, err)
	}
	return nil
}

// Compile-time check: ensure Store implements storage.Store.
var _ storage.Store = (*Store)(nil)
