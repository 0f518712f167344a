package usecases_test

import (
	"context"

	"expenseflow.backend/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, search string) ([]*entities.User, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) ListManagers(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) ClearManagerRefs(ctx context.Context, managerID uuid.UUID) error {
	return m.Called(ctx, managerID).Error(0)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role entities.UserRole) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Mock CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) Get(ctx context.Context) (*entities.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Company), args.Error(1)
}

func (m *MockCompanyRepository) Create(ctx context.Context, company *entities.Company) error {
	return m.Called(ctx, company).Error(0)
}

func (m *MockCompanyRepository) UpdateCurrency(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

// Mock ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *entities.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Expense), args.Error(1)
}

func (m *MockExpenseRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Expense), args.Error(1)
}

func (m *MockExpenseRepository) UpdateStatusStep(ctx context.Context, id uuid.UUID, status entities.ExpenseStatus, step int) error {
	return m.Called(ctx, id, status, step).Error(0)
}

func (m *MockExpenseRepository) UpdateConversion(ctx context.Context, id uuid.UUID, amount float64, currency string) error {
	return m.Called(ctx, id, amount, currency).Error(0)
}

func (m *MockExpenseRepository) ListByOwner(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Expense, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Expense), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpenseRepository) ListByManager(ctx context.Context, managerID uuid.UUID) ([]*entities.TeamExpense, error) {
	args := m.Called(ctx, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TeamExpense), args.Error(1)
}

func (m *MockExpenseRepository) ListPending(ctx context.Context) ([]*entities.TeamExpense, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TeamExpense), args.Error(1)
}

func (m *MockExpenseRepository) ListConvertedCurrencyNot(ctx context.Context, code string) ([]*entities.Expense, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Expense), args.Error(1)
}

func (m *MockExpenseRepository) CountByOwner(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// Mock ApprovalTransactionRepository
type MockApprovalTransactionRepository struct {
	mock.Mock
}

func (m *MockApprovalTransactionRepository) Append(ctx context.Context, txn *entities.ApprovalTransaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *MockApprovalTransactionRepository) ListByExpense(ctx context.Context, expenseID uuid.UUID) ([]*entities.ApprovalTransaction, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ApprovalTransaction), args.Error(1)
}

func (m *MockApprovalTransactionRepository) ClearApproverRefs(ctx context.Context, approverID uuid.UUID) error {
	return m.Called(ctx, approverID).Error(0)
}

// Mock RateProvider
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) GetRates(ctx context.Context, base string) (map[string]float64, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

// Mock ReceiptExtractor
type MockReceiptExtractor struct {
	mock.Mock
}

func (m *MockReceiptExtractor) Extract(ctx context.Context, image []byte, filename string) (*entities.ReceiptFields, error) {
	args := m.Called(ctx, image, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ReceiptFields), args.Error(1)
}
