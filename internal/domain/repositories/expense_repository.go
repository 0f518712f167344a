package repositories

import (
	"context"

	"expenseflow.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// ExpenseRepository defines expense data operations
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entities.Expense) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Expense, error)
	// GetByIDForUpdate locks the expense row for the duration of the
	// surrounding transaction. Must be called inside a UnitOfWork scope.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Expense, error)
	UpdateStatusStep(ctx context.Context, id uuid.UUID, status entities.ExpenseStatus, step int) error
	UpdateConversion(ctx context.Context, id uuid.UUID, amount float64, currency string) error
	ListByOwner(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Expense, int64, error)
	// ListByManager returns the expenses of the manager's direct reports,
	// joined with the owner's name, newest expense date first.
	ListByManager(ctx context.Context, managerID uuid.UUID) ([]*entities.TeamExpense, error)
	// ListPending returns pending expenses at any step, joined with the
	// owner's name.
	ListPending(ctx context.Context) ([]*entities.TeamExpense, error)
	// ListConvertedCurrencyNot returns expenses whose normalized currency
	// differs from the given code, i.e. rows that drifted from the company
	// default.
	ListConvertedCurrencyNot(ctx context.Context, code string) ([]*entities.Expense, error)
	CountByOwner(ctx context.Context, userID uuid.UUID) (int64, error)
}
