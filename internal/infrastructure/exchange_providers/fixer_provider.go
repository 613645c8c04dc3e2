// internal/infrastructure/exchange_providers/fixer_provider.go
package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LavaJover/shvark-fx-quote/internal/config"
	"github.com/LavaJover/shvark-fx-quote/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	fixerProviderName = "fixer"
	userAgent         = "shvark-fx-quote/1.0"
)

var defaultRetryStatuses = []int{
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusGatewayTimeout,
}

type FixerProvider struct {
	client        *http.Client
	baseURL       string
	accessKey     string
	retryStatuses map[int]struct{}
}

type FixerError struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

type FixerResponse struct {
	Success   bool               `json:"success"`
	Timestamp int64              `json:"timestamp"`
	Base      string             `json:"base"`
	Date      string             `json:"date"`
	Rates     map[string]float64 `json:"rates"`
	Error     *FixerError        `json:"error,omitempty"`
}

// NewFixerProvider builds a provider for the fixer.io "latest" endpoint.
// Responses with a status in retryStatuses are reported as codes.Unavailable.
func NewFixerProvider(cfg config.FixerAPI, retryStatuses []int) *FixerProvider {
	if len(retryStatuses) == 0 {
		retryStatuses = defaultRetryStatuses
	}
	statuses := make(map[int]struct{}, len(retryStatuses))
	for _, code := range retryStatuses {
		statuses[code] = struct{}{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &FixerProvider{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		accessKey:     cfg.AccessKey,
		retryStatuses: statuses,
	}
}

func (f *FixerProvider) GetName() string {
	return fixerProviderName
}

func (f *FixerProvider) GetRates(ctx context.Context, symbols ...string) (*domain.Rates, error) {
	endpoint, err := f.latestURL(symbols)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "failed to build fixer url: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, status.Errorf(codes.Unavailable, "failed to get rates from fixer: %v", redactURL(err))
	}
	defer resp.Body.Close()

	if _, ok := f.retryStatuses[resp.StatusCode]; ok {
		io.Copy(io.Discard, resp.Body)
		return nil, status.Errorf(codes.Unavailable, "fixer API returned status: %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, status.Errorf(codes.Internal, "fixer API returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, status.Errorf(codes.Unavailable, "failed to read response body: %v", err)
	}

	var fixerResponse FixerResponse
	if err := json.Unmarshal(body, &fixerResponse); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to parse fixer response: %v", err)
	}

	if !fixerResponse.Success {
		if e := fixerResponse.Error; e != nil {
			return nil, status.Errorf(codes.FailedPrecondition, "fixer API error %d (%s): %s", e.Code, e.Type, e.Info)
		}
		return nil, status.Error(codes.FailedPrecondition, "fixer API reported failure")
	}

	rates := &domain.Rates{
		Base:   fixerResponse.Base,
		Date:   fixerResponse.Date,
		Values: fixerResponse.Rates,
	}
	if fixerResponse.Timestamp > 0 {
		rates.Timestamp = time.Unix(fixerResponse.Timestamp, 0).UTC()
	}

	for _, symbol := range symbols {
		if _, err := rates.Rate(symbol); err != nil {
			return nil, err
		}
	}

	return rates, nil
}

func (f *FixerProvider) latestURL(symbols []string) (string, error) {
	u, err := url.Parse(f.baseURL + "/latest")
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("access_key", f.accessKey)
	if len(symbols) > 0 {
		q.Set("symbols", strings.Join(symbols, ","))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// redactURL drops the request URL from transport errors so the access key
// never reaches logs.
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
