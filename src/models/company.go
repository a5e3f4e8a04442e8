package models

import "time"

// Company is the root entity all instruments hang off.
// OptionPoolShares is the total pool reserved for future grants; the
// unallocated remainder is derived at aggregation time, never stored.
type Company struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	OptionPoolShares int64     `json:"option_pool_shares"`
	CreatedAt        time.Time `json:"created_at"`
}

// Stakeholder is anyone who can hold shares, awards or convertibles.
type Stakeholder struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
