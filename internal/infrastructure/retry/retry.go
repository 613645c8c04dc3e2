// Package retry wraps a rate provider with bounded retries and exponential
// backoff. Only transient failures (codes.Unavailable) are retried.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-fx-quote/internal/domain"
	"github.com/LavaJover/shvark-fx-quote/internal/infrastructure/metrics"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultMaxBackoff = 120 * time.Second

type Config struct {
	MaxRetries    int
	BackoffFactor time.Duration
	MaxBackoff    time.Duration
}

// Observer receives one call per attempt and per retry.
type Observer interface {
	ObserveAttempt(provider, outcome string, duration time.Duration)
	ObserveRetry(provider string)
}

type Provider struct {
	next     domain.RateProvider
	cfg      Config
	logger   *slog.Logger
	observer Observer
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewProvider(next domain.RateProvider, cfg Config, logger *slog.Logger, observer Observer) *Provider {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &Provider{
		next:     next,
		cfg:      cfg,
		logger:   logger,
		observer: observer,
		sleep:    sleepContext,
	}
}

func (p *Provider) GetName() string {
	return p.next.GetName()
}

// GetRates calls the wrapped provider up to 1+MaxRetries times.
func (p *Provider) GetRates(ctx context.Context, symbols ...string) (*domain.Rates, error) {
	name := p.next.GetName()
	var lastErr error

	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := Backoff(p.cfg, attempt)
			p.logger.Warn("rate fetch failed, retrying",
				"provider", name,
				"retry", attempt,
				"max_retries", p.cfg.MaxRetries,
				"delay", delay,
				"error", lastErr)
			p.observer.ObserveRetry(name)

			if err := p.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		rates, err := p.next.GetRates(ctx, symbols...)
		if err == nil {
			p.observer.ObserveAttempt(name, metrics.OutcomeSuccess, time.Since(start))
			p.logger.Debug("rates fetched", "provider", name, "attempt", attempt+1)
			return rates, nil
		}

		lastErr = err
		if !IsRetryable(err) {
			p.observer.ObserveAttempt(name, metrics.OutcomePermanent, time.Since(start))
			return nil, err
		}
		p.observer.ObserveAttempt(name, metrics.OutcomeTransient, time.Since(start))
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", domain.ErrRetriesExhausted, p.cfg.MaxRetries+1, lastErr)
}

// IsRetryable reports whether err is a transient failure worth another attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return status.Code(err) == codes.Unavailable
}

// Backoff returns the wait before the given retry (1-based). The first retry
// goes out immediately; retry n waits BackoffFactor * 2^(n-1), capped at
// MaxBackoff (120s when unset).
func Backoff(cfg Config, retry int) time.Duration {
	if retry <= 1 || cfg.BackoffFactor <= 0 {
		return 0
	}
	maxBackoff := cfg.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = defaultMaxBackoff
	}
	delay := cfg.BackoffFactor
	for i := 1; i < retry; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type noopObserver struct{}

func (noopObserver) ObserveAttempt(string, string, time.Duration) {}
func (noopObserver) ObserveRetry(string)                          {}
