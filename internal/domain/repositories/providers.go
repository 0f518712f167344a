package repositories

import (
	"context"

	"expenseflow.backend/internal/domain/entities"
)

// RateProvider fetches exchange rates from an external provider.
// One request per base code returns all target rates at once.
type RateProvider interface {
	GetRates(ctx context.Context, base string) (map[string]float64, error)
}

// ReceiptExtractor extracts best-effort structured fields from a
// receipt image. Implementations return empty fields rather than an
// error when extraction fails for individual fields.
type ReceiptExtractor interface {
	Extract(ctx context.Context, image []byte, filename string) (*entities.ReceiptFields, error)
}
