package entities

import (
	"time"

	"github.com/google/uuid"
)

// Company holds company-wide settings. A single row is expected.
type Company struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	DefaultCurrencyCode string    `json:"defaultCurrencyCode"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// UpdateCurrencyInput represents input for changing the company default currency
type UpdateCurrencyInput struct {
	CurrencyCode string `json:"currencyCode" binding:"required,len=3,uppercase"`
}

// CurrencyUpdateResult reports the outcome of a default-currency change.
// CurrencyUpdated and ConversionApplied can diverge when the rate provider
// is unavailable; the reconciliation job repairs the gap later.
type CurrencyUpdateResult struct {
	CurrencyUpdated   bool   `json:"currencyUpdated"`
	ConversionApplied bool   `json:"conversionApplied"`
	ExpensesConverted int    `json:"expensesConverted"`
	CurrencyCode      string `json:"currencyCode"`
}
