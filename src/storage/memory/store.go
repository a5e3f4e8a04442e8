package memory

import (
	"context"
	"sync"

	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
	"github.com/krllms-wq/CapTablePro8-sub000/src/storage"
)

// Store is an in-memory implementation of storage.Store. It is
// thread-safe and used as the test fixture and demo backend.
type Store struct {
	mu           sync.Mutex
	companies    map[string]models.Company
	stakeholders map[string]models.Stakeholder
	classes      map[string]models.SecurityClass
	entries      []models.ShareLedgerEntry
	awards       []models.EquityAward
	convertibles map[string]models.ConvertibleInstrument
	rounds       []models.Round
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		companies:    make(map[string]models.Company),
		stakeholders: make(map[string]models.Stakeholder),
		classes:      make(map[string]models.SecurityClass),
		convertibles: make(map[string]models.ConvertibleInstrument),
	}
}

// Seed helpers; used by tests and the demo loader.

func (s *Store) AddCompany(c models.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = c
}

func (s *Store) AddStakeholder(sh models.Stakeholder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stakeholders[sh.ID] = sh
}

func (s *Store) AddSecurityClass(c models.SecurityClass) {
	c.ApplyDefaults()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[c.ID] = c
}

func (s *Store) AddLedgerEntry(e models.ShareLedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

func (s *Store) AddAward(a models.EquityAward) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awards = append(s.awards, a)
}

func (s *Store) AddConvertible(ci models.ConvertibleInstrument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convertibles[ci.ID] = ci
}

func (s *Store) AddRound(r models.Round) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds = append(s.rounds, r)
}

func (s *Store) GetCompany(ctx context.Context, companyID string) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[companyID]
	if !ok {
		return nil, models.ErrCompanyNotFound
	}
	return &c, nil
}

func (s *Store) GetCompanySnapshot(ctx context.Context, companyID string) (*models.CompanySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[companyID]
	if !ok {
		return nil, models.ErrCompanyNotFound
	}
	snap := &models.CompanySnapshot{Company: c}
	for _, sh := range s.stakeholders {
		if sh.CompanyID == companyID {
			snap.Stakeholders = append(snap.Stakeholders, sh)
		}
	}
	for _, sc := range s.classes {
		if sc.CompanyID == companyID {
			snap.Classes = append(snap.Classes, sc)
		}
	}
	for _, e := range s.entries {
		if e.CompanyID == companyID {
			snap.Entries = append(snap.Entries, e)
		}
	}
	for _, a := range s.awards {
		if a.CompanyID == companyID {
			snap.Awards = append(snap.Awards, a)
		}
	}
	for _, ci := range s.convertibles {
		if ci.CompanyID == companyID {
			snap.Convertibles = append(snap.Convertibles, ci)
		}
	}
	for _, r := range s.rounds {
		if r.CompanyID == companyID {
			snap.Rounds = append(snap.Rounds, r)
		}
	}
	return snap, nil
}

func (s *Store) GetStakeholder(ctx context.Context, stakeholderID string) (*models.Stakeholder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.stakeholders[stakeholderID]
	if !ok {
		return nil, models.ErrStakeholderNotFound
	}
	return &sh, nil
}

func (s *Store) GetStakeholders(ctx context.Context, companyID string) ([]models.Stakeholder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Stakeholder
	for _, sh := range s.stakeholders {
		if sh.CompanyID == companyID {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (s *Store) CreateStakeholder(ctx context.Context, sh *models.Stakeholder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stakeholders[sh.ID] = *sh
	return nil
}

func (s *Store) GetSecurityClass(ctx context.Context, classID string) (*models.SecurityClass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.classes[classID]
	if !ok {
		return nil, models.ErrSecurityClassNotFound
	}
	return &sc, nil
}

func (s *Store) GetConvertible(ctx context.Context, convertibleID string) (*models.ConvertibleInstrument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ci, ok := s.convertibles[convertibleID]
	if !ok {
		return nil, models.ErrConvertibleNotFound
	}
	return &ci, nil
}

func (s *Store) GetLedgerEntries(ctx context.Context, companyID string) ([]models.ShareLedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ShareLedgerEntry
	for _, e := range s.entries {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out, nil
}

// SaveTransferEntries appends both entries under one lock so a reader
// never observes a half-written transfer.
func (s *Store) SaveTransferEntries(ctx context.Context, entries []models.ShareLedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return nil
}

// Compile-time check: ensure Store implements storage.Store.
var _ storage.Store = (*Store)(nil)
