// internal/usecase/exchange_usecase.go
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-fx-quote/internal/domain"
	nanoid "github.com/jaevor/go-nanoid"
)

type ExchangeUsecase interface {
	Convert(ctx context.Context) (*domain.Quote, error)
}

type QuoteRecorder interface {
	RecordQuote(quote *domain.Quote)
	RecordError(errorType string)
}

type DefaultExchangeUsecase struct {
	provider  domain.RateProvider
	publisher domain.QuotePublisher
	recorder  QuoteRecorder
	logger    *slog.Logger
	newID     func() string

	from   string
	to     string
	amount float64
}

// NewDefaultExchangeUsecase converts amount USD into GBP. publisher and
// recorder may be nil.
func NewDefaultExchangeUsecase(
	provider domain.RateProvider,
	publisher domain.QuotePublisher,
	recorder QuoteRecorder,
	logger *slog.Logger,
	amount float64,
) (*DefaultExchangeUsecase, error) {
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultExchangeUsecase{
		provider:  provider,
		publisher: publisher,
		recorder:  recorder,
		logger:    logger,
		newID:     idGenerator,
		from:      domain.CurrencyUSD,
		to:        domain.CurrencyGBP,
		amount:    amount,
	}, nil
}

func (uc *DefaultExchangeUsecase) Convert(ctx context.Context) (*domain.Quote, error) {
	quoteID := uc.newID()
	log := uc.logger.With("quote_id", quoteID, "provider", uc.provider.GetName())

	rates, err := uc.provider.GetRates(ctx, uc.from, uc.to)
	if err != nil {
		uc.recordError("fetch")
		return nil, fmt.Errorf("failed to get rates from %s: %w", uc.provider.GetName(), err)
	}

	rate, err := rates.CrossRate(uc.from, uc.to)
	if err != nil {
		uc.recordError("rate")
		return nil, err
	}

	fetchedAt := rates.Timestamp
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	quote := &domain.Quote{
		ID:        quoteID,
		From:      uc.from,
		To:        uc.to,
		Amount:    uc.amount,
		Rate:      rate,
		Converted: domain.RoundCents(uc.amount * rate),
		Provider:  uc.provider.GetName(),
		FetchedAt: fetchedAt,
	}
	if uc.recorder != nil {
		uc.recorder.RecordQuote(quote)
	}

	log.Info("quote computed",
		"from", quote.From,
		"to", quote.To,
		"amount", quote.Amount,
		"rate", quote.Rate,
		"converted", quote.Converted,
		"rates_base", rates.Base,
		"rates_date", rates.Date)

	// публикация не должна ломать расчёт
	if uc.publisher != nil {
		if err := uc.publisher.PublishQuote(ctx, quote); err != nil {
			uc.recordError("publish")
			log.Error("failed to publish quote", "error", err)
		}
	}

	return quote, nil
}

func (uc *DefaultExchangeUsecase) recordError(errorType string) {
	if uc.recorder != nil {
		uc.recorder.RecordError(errorType)
	}
}
