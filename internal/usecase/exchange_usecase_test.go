package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/LavaJover/shvark-fx-quote/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	rates   *domain.Rates
	err     error
	symbols []string
}

func (s *stubProvider) GetName() string { return "stub" }

func (s *stubProvider) GetRates(ctx context.Context, symbols ...string) (*domain.Rates, error) {
	s.symbols = symbols
	return s.rates, s.err
}

type stubPublisher struct {
	quotes []*domain.Quote
	err    error
}

func (s *stubPublisher) PublishQuote(ctx context.Context, quote *domain.Quote) error {
	s.quotes = append(s.quotes, quote)
	return s.err
}

type stubRecorder struct {
	quotes int
	errors []string
}

func (s *stubRecorder) RecordQuote(*domain.Quote)     { s.quotes++ }
func (s *stubRecorder) RecordError(errorType string) { s.errors = append(s.errors, errorType) }

func newTestUsecase(t *testing.T, provider domain.RateProvider, publisher domain.QuotePublisher, recorder QuoteRecorder) *DefaultExchangeUsecase {
	t.Helper()
	uc, err := NewDefaultExchangeUsecase(provider, publisher, recorder, slog.New(slog.NewTextHandler(io.Discard, nil)), 100)
	require.NoError(t, err)
	return uc
}

func eurRates(usd, gbp float64) *domain.Rates {
	return &domain.Rates{
		Base:      domain.CurrencyEUR,
		Date:      "2023-11-14",
		Timestamp: time.Unix(1700000000, 0).UTC(),
		Values:    map[string]float64{domain.CurrencyUSD: usd, domain.CurrencyGBP: gbp},
	}
}

func TestConvert(t *testing.T) {
	provider := &stubProvider{rates: eurRates(1.0876, 0.871)}
	publisher := &stubPublisher{}
	recorder := &stubRecorder{}
	uc := newTestUsecase(t, provider, publisher, recorder)

	quote, err := uc.Convert(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"USD", "GBP"}, provider.symbols)
	assert.Equal(t, "USD", quote.From)
	assert.Equal(t, "GBP", quote.To)
	assert.Equal(t, 100.0, quote.Amount)
	assert.InDelta(t, 0.871/1.0876, quote.Rate, 1e-12)
	// 100 * 0.871 / 1.0876 = 80.0846...
	assert.Equal(t, 80.08, quote.Converted)
	assert.Equal(t, "£80.08", quote.String())
	assert.Equal(t, "stub", quote.Provider)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), quote.FetchedAt)
	assert.Len(t, quote.ID, 15)

	require.Len(t, publisher.quotes, 1)
	assert.Same(t, quote, publisher.quotes[0])
	assert.Equal(t, 1, recorder.quotes)
	assert.Empty(t, recorder.errors)
}

func TestConvertWithoutPublisherOrRecorder(t *testing.T) {
	uc := newTestUsecase(t, &stubProvider{rates: eurRates(1.25, 0.85)}, nil, nil)

	quote, err := uc.Convert(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 68.0, quote.Converted)
	assert.Equal(t, "£68.00", quote.String())
}

func TestConvertFetchError(t *testing.T) {
	fetchErr := errors.New("connection refused")
	recorder := &stubRecorder{}
	publisher := &stubPublisher{}
	uc := newTestUsecase(t, &stubProvider{err: fetchErr}, publisher, recorder)

	_, err := uc.Convert(context.Background())
	assert.ErrorIs(t, err, fetchErr)
	assert.Equal(t, []string{"fetch"}, recorder.errors)
	assert.Empty(t, publisher.quotes)
}

func TestConvertInvalidRate(t *testing.T) {
	recorder := &stubRecorder{}
	uc := newTestUsecase(t, &stubProvider{rates: eurRates(0, 0.85)}, nil, recorder)

	_, err := uc.Convert(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
	assert.Equal(t, []string{"rate"}, recorder.errors)
}

func TestConvertPublishFailureIsNotFatal(t *testing.T) {
	recorder := &stubRecorder{}
	publisher := &stubPublisher{err: domain.ErrPublishFailed}
	uc := newTestUsecase(t, &stubProvider{rates: eurRates(1.25, 0.85)}, publisher, recorder)

	quote, err := uc.Convert(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 68.0, quote.Converted)
	assert.Equal(t, []string{"publish"}, recorder.errors)
}

func TestConvertFallsBackToNowWithoutTimestamp(t *testing.T) {
	rates := eurRates(1.25, 0.85)
	rates.Timestamp = time.Time{}
	uc := newTestUsecase(t, &stubProvider{rates: rates}, nil, nil)

	before := time.Now()
	quote, err := uc.Convert(context.Background())
	require.NoError(t, err)
	assert.False(t, quote.FetchedAt.Before(before.Add(-time.Second)))
}
