package usecases

import (
	"context"
	"strings"

	"expenseflow.backend/internal/domain/entities"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/internal/domain/repositories"
	"expenseflow.backend/pkg/logger"
	"expenseflow.backend/pkg/metrics"
	"expenseflow.backend/pkg/utils"
	"go.uber.org/zap"
)

// CurrencyUsecase handles currency conversion and the company default
// currency. Conversion is best-effort at the edges: a submission or a
// display conversion never fails outright when the rate provider is
// down, it degrades to the original amount and flags the result.
type CurrencyUsecase struct {
	companyRepo  repositories.CompanyRepository
	expenseRepo  repositories.ExpenseRepository
	rateProvider repositories.RateProvider
	uow          repositories.UnitOfWork
}

// NewCurrencyUsecase creates a new currency usecase
func NewCurrencyUsecase(
	companyRepo repositories.CompanyRepository,
	expenseRepo repositories.ExpenseRepository,
	rateProvider repositories.RateProvider,
	uow repositories.UnitOfWork,
) *CurrencyUsecase {
	return &CurrencyUsecase{
		companyRepo:  companyRepo,
		expenseRepo:  expenseRepo,
		rateProvider: rateProvider,
		uow:          uow,
	}
}

// Convert converts an amount between currencies. When the provider is
// unavailable or does not quote the target, the original amount comes
// back with Converted set to false.
func (u *CurrencyUsecase) Convert(ctx context.Context, amount float64, from, to string) *entities.ConversionResult {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if from == to {
		return &entities.ConversionResult{Amount: utils.RoundAmount(amount), Currency: to, Converted: true}
	}

	rates, err := u.rateProvider.GetRates(ctx, from)
	if err != nil {
		metrics.ConversionFailures.Inc()
		logger.Warn(ctx, "currency conversion degraded to original amount",
			zap.String("from", from), zap.String("to", to), zap.Error(err))
		return &entities.ConversionResult{Amount: amount, Currency: from, Converted: false}
	}

	rate, ok := rates[to]
	if !ok || rate <= 0 {
		metrics.ConversionFailures.Inc()
		logger.Warn(ctx, "rate table does not quote target currency",
			zap.String("from", from), zap.String("to", to))
		return &entities.ConversionResult{Amount: amount, Currency: from, Converted: false}
	}

	return &entities.ConversionResult{
		Amount:    utils.RoundAmount(amount * rate),
		Currency:  to,
		Converted: true,
	}
}

// ConvertAllExpenses rewrites the normalized amount of every expense
// that drifted from the target currency. The rate table is fetched once
// up front; if that fails no row is touched. All rewrites happen in one
// transaction.
func (u *CurrencyUsecase) ConvertAllExpenses(ctx context.Context, target string) (int, error) {
	target = strings.ToUpper(target)

	rates, err := u.rateProvider.GetRates(ctx, target)
	if err != nil {
		return 0, err
	}

	converted := 0
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		drifted, err := u.expenseRepo.ListConvertedCurrencyNot(txCtx, target)
		if err != nil {
			return err
		}

		for _, expense := range drifted {
			rate, ok := rates[expense.ConvertedCurrency]
			if !ok || rate <= 0 {
				logger.Warn(txCtx, "no rate for expense currency, leaving row as is",
					zap.String("expense_id", expense.ID.String()),
					zap.String("currency", expense.ConvertedCurrency))
				continue
			}

			// Rate table is target-based: target -> X. Converting X back
			// to target divides by the rate.
			amount := utils.RoundAmount(expense.ConvertedAmount / rate)
			if err := u.expenseRepo.UpdateConversion(txCtx, expense.ID, amount, target); err != nil {
				return err
			}
			converted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return converted, nil
}

// UpdateCompanyCurrency changes the company default currency and
// re-normalizes stored expenses. The currency change itself always
// sticks; when the rate provider is down the conversion is skipped and
// the result flags the divergence for the caller.
func (u *CurrencyUsecase) UpdateCompanyCurrency(ctx context.Context, input *entities.UpdateCurrencyInput) (*entities.CurrencyUpdateResult, error) {
	code := strings.ToUpper(input.CurrencyCode)

	company, err := u.companyRepo.Get(ctx)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("company settings not found")
		}
		return nil, err
	}

	if company.DefaultCurrencyCode == code {
		return &entities.CurrencyUpdateResult{
			CurrencyUpdated:   false,
			ConversionApplied: false,
			CurrencyCode:      code,
		}, nil
	}

	if err := u.companyRepo.UpdateCurrency(ctx, code); err != nil {
		return nil, err
	}

	converted, err := u.ConvertAllExpenses(ctx, code)
	if err != nil {
		metrics.ConversionFailures.Inc()
		logger.Warn(ctx, "default currency changed but conversion skipped",
			zap.String("currency", code), zap.Error(err))
		return &entities.CurrencyUpdateResult{
			CurrencyUpdated:   true,
			ConversionApplied: false,
			CurrencyCode:      code,
		}, nil
	}

	logger.Info(ctx, "company default currency updated",
		zap.String("currency", code), zap.Int("expenses_converted", converted))
	return &entities.CurrencyUpdateResult{
		CurrencyUpdated:   true,
		ConversionApplied: true,
		ExpensesConverted: converted,
		CurrencyCode:      code,
	}, nil
}
