package jobs

import (
	"context"
	"time"

	"expenseflow.backend/internal/domain/entities"
	"expenseflow.backend/pkg/logger"
	"expenseflow.backend/pkg/metrics"
	"go.uber.org/zap"
)

// reconciler re-normalizes drifted expenses to the target currency.
type reconciler interface {
	ConvertAllExpenses(ctx context.Context, target string) (int, error)
}

// companySettings exposes the company row the job reconciles against.
type companySettings interface {
	Get(ctx context.Context) (*entities.Company, error)
}

// CurrencyReconciliationJob periodically repairs expenses whose
// normalized currency diverged from the company default. Divergence
// happens when the default currency changes while the rate provider is
// down; the change sticks but conversion is skipped until rates come
// back.
type CurrencyReconciliationJob struct {
	currency reconciler
	company  companySettings
	interval time.Duration
	stop     chan struct{}
}

// NewCurrencyReconciliationJob creates a reconciliation job
func NewCurrencyReconciliationJob(currency reconciler, company companySettings, interval time.Duration) *CurrencyReconciliationJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CurrencyReconciliationJob{
		currency: currency,
		company:  company,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start runs the job until the context is cancelled or Stop is called.
func (j *CurrencyReconciliationJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting currency reconciliation job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "currency reconciliation job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "currency reconciliation job stopped")
			return
		case <-ticker.C:
			j.reconcile(ctx)
		}
	}
}

// Stop signals the job to exit.
func (j *CurrencyReconciliationJob) Stop() {
	close(j.stop)
}

func (j *CurrencyReconciliationJob) reconcile(ctx context.Context) {
	company, err := j.company.Get(ctx)
	if err != nil {
		logger.Error(ctx, "reconciliation skipped, company settings unavailable", zap.Error(err))
		return
	}

	converted, err := j.currency.ConvertAllExpenses(ctx, company.DefaultCurrencyCode)
	if err != nil {
		logger.Warn(ctx, "reconciliation pass failed, will retry next tick",
			zap.String("currency", company.DefaultCurrencyCode), zap.Error(err))
		return
	}

	if converted > 0 {
		metrics.ExpensesReconciled.Add(float64(converted))
		logger.Info(ctx, "reconciled drifted expenses",
			zap.Int("count", converted), zap.String("currency", company.DefaultCurrencyCode))
	}
}
