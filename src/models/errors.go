package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for lookups and transfer preconditions.
var (
	ErrCompanyNotFound        = errors.New("company not found")
	ErrStakeholderNotFound    = errors.New("stakeholder not found")
	ErrSecurityClassNotFound  = errors.New("security class not found")
	ErrConvertibleNotFound    = errors.New("convertible instrument not found")
	ErrBuyerNotFound          = errors.New("buyer not found")
	ErrSelfTransferNotAllowed = errors.New("seller and buyer must be different stakeholders")
	ErrMissingBuyerName       = errors.New("a name is required to create a new buyer")
)

// ValidationError reports a missing or malformed required field. It is
// always raised before any computation proceeds.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientSharesError reports a transfer or reduction that would
// drive a (holder, class) balance negative.
type InsufficientSharesError struct {
	Requested int64
	Available int64
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("insufficient shares: requested %d, available %d", e.Requested, e.Available)
}

// ConfigurationError reports a conversion requested with contradictory
// or insufficient inputs (e.g., a post-money SAFE without a cap).
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "conversion not configured: " + e.Reason
}
