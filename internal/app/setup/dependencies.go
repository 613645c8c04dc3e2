package setup

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-fx-quote/internal/config"
	"github.com/LavaJover/shvark-fx-quote/internal/domain"
	infrastructure "github.com/LavaJover/shvark-fx-quote/internal/infrastructure/exchange_providers"
	publisher "github.com/LavaJover/shvark-fx-quote/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-fx-quote/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-fx-quote/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-fx-quote/internal/infrastructure/retry"
	"github.com/LavaJover/shvark-fx-quote/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
)

type Dependencies struct {
	Config          *config.FXConfig
	Logger          *slog.Logger
	Metrics         *metrics.FXMetrics
	RateProvider    domain.RateProvider
	QuotePublisher  *publisher.KafkaQuotePublisher
	ExchangeUsecase usecase.ExchangeUsecase
}

func InitializeDependencies(cfg *config.FXConfig) (*Dependencies, error) {
	slogger := logger.New(cfg.LogConfig)
	fxMetrics := metrics.NewFXMetrics(prometheus.NewRegistry())

	fixerProvider := infrastructure.NewFixerProvider(cfg.FixerAPI, cfg.RetryStatuses)
	rateProvider := retry.NewProvider(fixerProvider, retry.Config{
		MaxRetries:    cfg.MaxRetries,
		BackoffFactor: cfg.BackoffFactor,
		MaxBackoff:    cfg.MaxBackoff,
	}, slogger, fxMetrics)

	deps := &Dependencies{
		Config:       cfg,
		Logger:       slogger,
		Metrics:      fxMetrics,
		RateProvider: rateProvider,
	}

	// без брокеров котировка просто печатается
	var quotePublisher domain.QuotePublisher
	if len(cfg.Brokers) > 0 {
		kafkaPublisher, err := initQuotePublisher(cfg)
		if err != nil {
			return nil, fmt.Errorf("quote publisher: %w", err)
		}
		deps.QuotePublisher = kafkaPublisher
		quotePublisher = kafkaPublisher
	}

	uc, err := usecase.NewDefaultExchangeUsecase(rateProvider, quotePublisher, fxMetrics, slogger, cfg.Amount)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("exchange usecase: %w", err)
	}
	deps.ExchangeUsecase = uc

	return deps, nil
}

func initQuotePublisher(cfg *config.FXConfig) (*publisher.KafkaQuotePublisher, error) {
	return publisher.NewKafkaQuotePublisher(publisher.KafkaConfig{
		Brokers:    cfg.Brokers,
		Topic:      cfg.Topic,
		Username:   cfg.Username,
		Password:   cfg.Password,
		Mechanism:  cfg.Mechanism,
		TLSEnabled: cfg.TLSEnabled,
	})
}

// Close flushes the metrics textfile, if configured, and closes the publisher.
func (d *Dependencies) Close() error {
	var errs []error
	if d.Config.Textfile != "" {
		if err := d.Metrics.WriteTextfile(d.Config.Textfile); err != nil {
			errs = append(errs, fmt.Errorf("metrics textfile: %w", err))
		}
	}
	if d.QuotePublisher != nil {
		if err := d.QuotePublisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("quote publisher: %w", err))
		}
	}
	return errors.Join(errs...)
}
