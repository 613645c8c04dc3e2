package metrics

import (
	"time"

	"github.com/LavaJover/shvark-fx-quote/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess   = "success"
	OutcomeTransient = "transient"
	OutcomePermanent = "permanent"
)

// FXMetrics holds the counters for rate fetches and produced quotes.
type FXMetrics struct {
	// Попытки запроса курса по исходу
	RateFetchAttemptsTotal *prometheus.CounterVec
	RateFetchRetriesTotal  *prometheus.CounterVec
	RateFetchDuration      *prometheus.HistogramVec

	// Посчитанные котировки
	QuotesTotal     *prometheus.CounterVec
	LastQuoteRate   *prometheus.GaugeVec
	LastQuoteAmount *prometheus.GaugeVec
	LastQuoteTime   *prometheus.GaugeVec

	// Ошибки
	QuoteErrorsTotal *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewFXMetrics registers all collectors on reg.
func NewFXMetrics(reg *prometheus.Registry) *FXMetrics {
	factory := promauto.With(reg)

	return &FXMetrics{
		RateFetchAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_rate_fetch_attempts_total",
				Help: "Number of rate fetch attempts by outcome",
			},
			[]string{"provider", "outcome"},
		),

		RateFetchRetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_rate_fetch_retries_total",
				Help: "Number of rate fetch retries",
			},
			[]string{"provider"},
		),

		RateFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fx_rate_fetch_duration_seconds",
				Help:    "Duration of a single rate fetch attempt in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms, 20ms, 40ms...
			},
			[]string{"provider", "outcome"},
		),

		QuotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_quotes_total",
				Help: "Number of computed quotes",
			},
			[]string{"from", "to"},
		),

		LastQuoteRate: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fx_last_quote_rate",
				Help: "Exchange rate used by the last quote",
			},
			[]string{"from", "to"},
		),

		LastQuoteAmount: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fx_last_quote_converted_amount",
				Help: "Converted amount of the last quote",
			},
			[]string{"from", "to"},
		),

		LastQuoteTime: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fx_last_quote_timestamp_seconds",
				Help: "Unix time the rates of the last quote were fetched",
			},
			[]string{"from", "to"},
		),

		QuoteErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_quote_errors_total",
				Help: "Number of failed quote computations by error type",
			},
			[]string{"error_type"},
		),

		gatherer: reg,
	}
}

// ObserveAttempt записывает одну попытку запроса курса
func (m *FXMetrics) ObserveAttempt(provider, outcome string, duration time.Duration) {
	m.RateFetchAttemptsTotal.WithLabelValues(provider, outcome).Inc()
	m.RateFetchDuration.WithLabelValues(provider, outcome).Observe(duration.Seconds())
}

func (m *FXMetrics) ObserveRetry(provider string) {
	m.RateFetchRetriesTotal.WithLabelValues(provider).Inc()
}

// RecordQuote записывает посчитанную котировку
func (m *FXMetrics) RecordQuote(quote *domain.Quote) {
	m.QuotesTotal.WithLabelValues(quote.From, quote.To).Inc()
	m.LastQuoteRate.WithLabelValues(quote.From, quote.To).Set(quote.Rate)
	m.LastQuoteAmount.WithLabelValues(quote.From, quote.To).Set(quote.Converted)
	if !quote.FetchedAt.IsZero() {
		m.LastQuoteTime.WithLabelValues(quote.From, quote.To).Set(float64(quote.FetchedAt.Unix()))
	}
}

func (m *FXMetrics) RecordError(errorType string) {
	m.QuoteErrorsTotal.WithLabelValues(errorType).Inc()
}

// WriteTextfile dumps the registry in the text exposition format, for the
// node_exporter textfile collector.
func (m *FXMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.gatherer)
}
