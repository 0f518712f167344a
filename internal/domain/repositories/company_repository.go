package repositories

import (
	"context"

	"expenseflow.backend/internal/domain/entities"
)

// CompanyRepository defines company settings operations. A single
// company row is expected.
type CompanyRepository interface {
	Get(ctx context.Context) (*entities.Company, error)
	Create(ctx context.Context, company *entities.Company) error
	UpdateCurrency(ctx context.Context, code string) error
}
