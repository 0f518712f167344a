package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"expenseflow.backend/internal/config"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/pkg/logger"
	"expenseflow.backend/pkg/metrics"
	redispkg "expenseflow.backend/pkg/redis"
	"go.uber.org/zap"
)

// HTTPRateProvider fetches exchange rates from an external provider.
// One request per base currency returns the full rate table; results
// are cached in Redis so dashboard and conversion traffic does not
// hammer the provider.
type HTTPRateProvider struct {
	cfg        config.RatesConfig
	httpClient *http.Client
}

// NewHTTPRateProvider creates a rate provider from config
func NewHTTPRateProvider(cfg config.RatesConfig) *HTTPRateProvider {
	return &HTTPRateProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// GetRates returns the rate table for the given base currency. No
// retries: callers degrade gracefully when the provider is down, so a
// fast failure beats a slow one.
func (p *HTTPRateProvider) GetRates(ctx context.Context, base string) (map[string]float64, error) {
	if cached := p.fromCache(ctx, base); cached != nil {
		metrics.RateProviderRequests.WithLabelValues("cache_hit").Inc()
		return cached, nil
	}

	url := fmt.Sprintf("%s/%s", p.cfg.BaseURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		metrics.RateProviderRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RateProviderRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: provider returned %d", domainerrors.ErrRateUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RateProviderRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrRateUnavailable, err)
	}

	var parsed ratesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.RateProviderRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: malformed response", domainerrors.ErrRateUnavailable)
	}
	if len(parsed.Rates) == 0 {
		metrics.RateProviderRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: empty rate table", domainerrors.ErrRateUnavailable)
	}

	metrics.RateProviderRequests.WithLabelValues("success").Inc()
	p.toCache(ctx, base, parsed.Rates)
	return parsed.Rates, nil
}

func cacheKey(base string) string {
	return "rates:" + base
}

func (p *HTTPRateProvider) fromCache(ctx context.Context, base string) map[string]float64 {
	if redispkg.GetClient() == nil {
		return nil
	}
	raw, err := redispkg.Get(ctx, cacheKey(base))
	if err != nil {
		return nil
	}
	var rates map[string]float64
	if err := json.Unmarshal([]byte(raw), &rates); err != nil || len(rates) == 0 {
		return nil
	}
	return rates
}

func (p *HTTPRateProvider) toCache(ctx context.Context, base string, rates map[string]float64) {
	if redispkg.GetClient() == nil {
		return
	}
	raw, err := json.Marshal(rates)
	if err != nil {
		return
	}
	if err := redispkg.Set(ctx, cacheKey(base), raw, p.cfg.CacheTTL); err != nil {
		logger.Warn(ctx, "failed to cache exchange rates", zap.String("base", base), zap.Error(err))
	}
}
