package jobs

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"expenseflow.backend/internal/domain/entities"
	"expenseflow.backend/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init("development")
	os.Exit(m.Run())
}

type stubReconciler struct {
	calls   atomic.Int64
	targets chan string
	err     error
}

func (s *stubReconciler) ConvertAllExpenses(_ context.Context, target string) (int, error) {
	s.calls.Add(1)
	select {
	case s.targets <- target:
	default:
	}
	if s.err != nil {
		return 0, s.err
	}
	return 2, nil
}

type stubSettings struct {
	company *entities.Company
	err     error
}

func (s *stubSettings) Get(context.Context) (*entities.Company, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.company, nil
}

func TestCurrencyReconciliationJob_ReconcilesOnTick(t *testing.T) {
	rec := &stubReconciler{targets: make(chan string, 1)}
	settings := &stubSettings{company: &entities.Company{DefaultCurrencyCode: "EUR"}}

	job := NewCurrencyReconciliationJob(rec, settings, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()

	select {
	case target := <-rec.targets:
		require.Equal(t, "EUR", target)
	case <-time.After(2 * time.Second):
		t.Fatal("job never ticked")
	}

	job.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not stop")
	}
}

func TestCurrencyReconciliationJob_StopsOnContextCancel(t *testing.T) {
	rec := &stubReconciler{targets: make(chan string, 1)}
	settings := &stubSettings{company: &entities.Company{DefaultCurrencyCode: "USD"}}

	job := NewCurrencyReconciliationJob(rec, settings, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not stop on context cancel")
	}
}

func TestCurrencyReconciliationJob_SkipsWhenSettingsUnavailable(t *testing.T) {
	rec := &stubReconciler{targets: make(chan string, 1)}
	settings := &stubSettings{err: errors.New("db down")}

	job := NewCurrencyReconciliationJob(rec, settings, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()

	time.Sleep(60 * time.Millisecond)
	job.Stop()
	<-done

	require.Zero(t, rec.calls.Load())
}

func TestCurrencyReconciliationJob_SurvivesConversionErrors(t *testing.T) {
	rec := &stubReconciler{targets: make(chan string, 4), err: errors.New("rates down")}
	settings := &stubSettings{company: &entities.Company{DefaultCurrencyCode: "GBP"}}

	job := NewCurrencyReconciliationJob(rec, settings, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return rec.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	job.Stop()
	<-done
}

func TestNewCurrencyReconciliationJob_DefaultInterval(t *testing.T) {
	job := NewCurrencyReconciliationJob(&stubReconciler{}, &stubSettings{}, 0)
	require.Equal(t, 5*time.Minute, job.interval)
}
