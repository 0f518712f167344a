package repositories

import (
	"context"
	"errors"
	"time"

	"expenseflow.backend/internal/domain/entities"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/internal/infrastructure/models"
	"gorm.io/gorm"
)

// CompanyRepository implements company settings operations
type CompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Get returns the company settings row
func (r *CompanyRepository) Get(ctx context.Context) (*entities.Company, error) {
	var m models.Company
	if err := GetDB(ctx, r.db).WithContext(ctx).Order("created_at ASC").First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.Company{
		ID:                  m.ID,
		Name:                m.Name,
		DefaultCurrencyCode: m.DefaultCurrencyCode,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}, nil
}

// Create creates the company settings row
func (r *CompanyRepository) Create(ctx context.Context, company *entities.Company) error {
	m := &models.Company{
		ID:                  company.ID,
		Name:                company.Name,
		DefaultCurrencyCode: company.DefaultCurrencyCode,
		CreatedAt:           company.CreatedAt,
		UpdatedAt:           company.UpdatedAt,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// UpdateCurrency updates the company default currency code
func (r *CompanyRepository) UpdateCurrency(ctx context.Context, code string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Company{}).
		Where("1 = 1").
		Updates(map[string]interface{}{
			"default_currency_code": code,
			"updated_at":            time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
