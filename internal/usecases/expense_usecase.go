package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"expenseflow.backend/internal/domain/entities"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/internal/domain/repositories"
	"expenseflow.backend/pkg/logger"
	"expenseflow.backend/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExpenseUsecase handles expense submission and retrieval
type ExpenseUsecase struct {
	expenseRepo repositories.ExpenseRepository
	userRepo    repositories.UserRepository
	companyRepo repositories.CompanyRepository
	currency    *CurrencyUsecase
	extractor   repositories.ReceiptExtractor
}

// NewExpenseUsecase creates a new expense usecase
func NewExpenseUsecase(
	expenseRepo repositories.ExpenseRepository,
	userRepo repositories.UserRepository,
	companyRepo repositories.CompanyRepository,
	currency *CurrencyUsecase,
	extractor repositories.ReceiptExtractor,
) *ExpenseUsecase {
	return &ExpenseUsecase{
		expenseRepo: expenseRepo,
		userRepo:    userRepo,
		companyRepo: companyRepo,
		currency:    currency,
		extractor:   extractor,
	}
}

// Create submits a new expense claim. The amount is normalized to the
// company default currency on intake; if the rate provider is down the
// submitted amount is stored as is and the reconciliation job converts
// it later.
func (u *ExpenseUsecase) Create(ctx context.Context, userID uuid.UUID, input *entities.CreateExpenseInput) (*entities.Expense, error) {
	if _, err := u.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, err
	}

	expenseDate, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, domainerrors.BadRequest("date must be YYYY-MM-DD")
	}
	if expenseDate.After(time.Now()) {
		return nil, domainerrors.BadRequest("expense date cannot be in the future")
	}

	company, err := u.companyRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	submittedCurrency := strings.ToUpper(input.Currency)
	conversion := u.currency.Convert(ctx, input.Amount, submittedCurrency, company.DefaultCurrencyCode)

	now := time.Now()
	expense := &entities.Expense{
		ID:                  uuid.New(),
		UserID:              userID,
		SubmittedAmount:     utils.RoundAmount(input.Amount),
		SubmittedCurrency:   submittedCurrency,
		ConvertedAmount:     conversion.Amount,
		ConvertedCurrency:   conversion.Currency,
		Category:            input.Category,
		Description:         input.Description,
		ExpenseDate:         expenseDate,
		Status:              entities.ExpenseStatusPending,
		CurrentApprovalStep: entities.InitialApprovalStep,
		ReceiptScanned:      input.ReceiptScanned,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := u.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	logger.Info(ctx, "expense submitted",
		zap.String("expense_id", expense.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Bool("converted", conversion.Converted),
	)
	return expense, nil
}

// GetByID returns an expense visible to the requester: the owner, any
// manager, or an admin.
func (u *ExpenseUsecase) GetByID(ctx context.Context, id, requesterID uuid.UUID, requesterRole entities.UserRole) (*entities.Expense, error) {
	expense, err := u.expenseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("expense not found")
		}
		return nil, err
	}

	if expense.UserID != requesterID && requesterRole == entities.UserRoleEmployee {
		return nil, domainerrors.Forbidden("not allowed to view this expense")
	}
	return expense, nil
}

// ListByOwner lists the user's own expenses, newest first
func (u *ExpenseUsecase) ListByOwner(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Expense, utils.PaginationMeta, error) {
	params := utils.GetPaginationParams(page, limit)
	items, total, err := u.expenseRepo.ListByOwner(ctx, userID, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return items, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

// ScanReceipt extracts suggested fields from a receipt image. Fields
// come back best-effort; the caller reviews them before submitting.
func (u *ExpenseUsecase) ScanReceipt(ctx context.Context, image []byte, filename string) (*entities.ReceiptFields, error) {
	if len(image) == 0 {
		return nil, domainerrors.BadRequest("receipt image is empty")
	}
	return u.extractor.Extract(ctx, image, filename)
}
