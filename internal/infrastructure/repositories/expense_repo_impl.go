package repositories

import (
	"context"
	"errors"
	"time"

	"expenseflow.backend/internal/domain/entities"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExpenseRepository implements expense data operations
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create creates a new expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *entities.Expense) error {
	m := expenseToModel(expense)
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByID gets an expense by ID
func (r *ExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Expense, error) {
	var m models.Expense
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return expenseToEntity(&m), nil
}

// GetByIDForUpdate locks the expense row for the duration of the
// surrounding transaction. SQLite has no SELECT ... FOR UPDATE; its
// transactions already serialize writers, so the lock clause is only
// added on postgres.
func (r *ExpenseRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Expense, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var m models.Expense
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return expenseToEntity(&m), nil
}

// UpdateStatusStep updates the expense status and current approval step
func (r *ExpenseRepository) UpdateStatusStep(ctx context.Context, id uuid.UUID, status entities.ExpenseStatus, step int) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Expense{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":                string(status),
			"current_approval_step": step,
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

// UpdateConversion rewrites the normalized amount and currency in place
func (r *ExpenseRepository) UpdateConversion(ctx context.Context, id uuid.UUID, amount float64, currency string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Expense{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"converted_amount":   amount,
			"converted_currency": currency,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListByOwner lists the user's expenses, newest expense date first
func (r *ExpenseRepository) ListByOwner(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Expense, int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.Expense{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenseModels []models.Expense
	err := db.Where("user_id = ?", userID).
		Order("expense_date DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&expenseModels).Error
	if err != nil {
		return nil, 0, err
	}

	expenses := make([]*entities.Expense, 0, len(expenseModels))
	for i := range expenseModels {
		expenses = append(expenses, expenseToEntity(&expenseModels[i]))
	}
	return expenses, total, nil
}

// teamExpenseRow is the scan target for joined expense+owner queries.
type teamExpenseRow struct {
	models.Expense
	UserName string
}

// ListByManager returns the expenses of the manager's direct reports,
// joined with the owner's name, newest expense date first.
func (r *ExpenseRepository) ListByManager(ctx context.Context, managerID uuid.UUID) ([]*entities.TeamExpense, error) {
	var rows []teamExpenseRow
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Expense{}).
		Select("expenses.*, users.full_name AS user_name").
		Joins("JOIN users ON expenses.user_id = users.id").
		Where("users.manager_id = ? AND users.deleted_at IS NULL", managerID).
		Order("expenses.expense_date DESC, expenses.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return teamExpensesFromRows(rows), nil
}

// ListPending returns pending expenses at any step, joined with the
// owner's name.
func (r *ExpenseRepository) ListPending(ctx context.Context) ([]*entities.TeamExpense, error) {
	var rows []teamExpenseRow
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Expense{}).
		Select("expenses.*, users.full_name AS user_name").
		Joins("JOIN users ON expenses.user_id = users.id").
		Where("expenses.status = ? AND users.deleted_at IS NULL", string(entities.ExpenseStatusPending)).
		Order("expenses.expense_date DESC, expenses.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return teamExpensesFromRows(rows), nil
}

// ListConvertedCurrencyNot returns expenses whose normalized currency
// differs from the given code.
func (r *ExpenseRepository) ListConvertedCurrencyNot(ctx context.Context, code string) ([]*entities.Expense, error) {
	var expenseModels []models.Expense
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("converted_currency <> ?", code).
		Order("created_at ASC").
		Find(&expenseModels).Error
	if err != nil {
		return nil, err
	}

	expenses := make([]*entities.Expense, 0, len(expenseModels))
	for i := range expenseModels {
		expenses = append(expenses, expenseToEntity(&expenseModels[i]))
	}
	return expenses, nil
}

// CountByOwner counts the user's expenses
func (r *ExpenseRepository) CountByOwner(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Expense{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func teamExpensesFromRows(rows []teamExpenseRow) []*entities.TeamExpense {
	expenses := make([]*entities.TeamExpense, 0, len(rows))
	for i := range rows {
		expenses = append(expenses, &entities.TeamExpense{
			Expense:  *expenseToEntity(&rows[i].Expense),
			UserName: rows[i].UserName,
		})
	}
	return expenses
}

func expenseToModel(e *entities.Expense) *models.Expense {
	return &models.Expense{
		ID:                  e.ID,
		UserID:              e.UserID,
		SubmittedAmount:     e.SubmittedAmount,
		SubmittedCurrency:   e.SubmittedCurrency,
		ConvertedAmount:     e.ConvertedAmount,
		ConvertedCurrency:   e.ConvertedCurrency,
		Category:            e.Category,
		Description:         e.Description,
		ExpenseDate:         e.ExpenseDate,
		Status:              string(e.Status),
		CurrentApprovalStep: e.CurrentApprovalStep,
		ReceiptScanned:      e.ReceiptScanned,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func expenseToEntity(m *models.Expense) *entities.Expense {
	return &entities.Expense{
		ID:                  m.ID,
		UserID:              m.UserID,
		SubmittedAmount:     m.SubmittedAmount,
		SubmittedCurrency:   m.SubmittedCurrency,
		ConvertedAmount:     m.ConvertedAmount,
		ConvertedCurrency:   m.ConvertedCurrency,
		Category:            m.Category,
		Description:         m.Description,
		ExpenseDate:         m.ExpenseDate,
		Status:              entities.ExpenseStatus(m.Status),
		CurrentApprovalStep: m.CurrentApprovalStep,
		ReceiptScanned:      m.ReceiptScanned,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}
