package dataflows

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/oak/sentiment-widget/internal/config"
	"github.com/oak/sentiment-widget/internal/metrics"
	"github.com/sony/gobreaker"
)

// maxResponseBytes caps how much of an upstream body is read
const maxResponseBytes = 1 << 20

// QueryRequest is the body sent to the analysis endpoint
type QueryRequest struct {
	Timeframe string `json:"timeframe"`
	QueryType string `json:"queryType"`
}

// Querier performs the remote sentiment query and returns the raw response body.
// A returned error is always a transport-level failure.
type Querier interface {
	Query(ctx context.Context, req QueryRequest) ([]byte, error)
}

// HTTPQuerier posts sentiment queries to an HTTP endpoint behind a circuit breaker
type HTTPQuerier struct {
	url     string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewHTTPQuerier creates an HTTPQuerier from config
func NewHTTPQuerier(cfg *config.Config) *HTTPQuerier {
	maxFailures := uint32(cfg.BreakerMaxFailures)
	if maxFailures == 0 {
		maxFailures = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sentiment-upstream",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// A caller giving up is not an upstream failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.Set(stateToFloat(to))
		},
	})

	return &HTTPQuerier{
		url:     cfg.SentimentAPIURL,
		apiKey:  cfg.SentimentAPIKey,
		client:  &http.Client{Timeout: cfg.SentimentTimeout},
		breaker: breaker,
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// State returns the current breaker state
func (q *HTTPQuerier) State() gobreaker.State {
	return q.breaker.State()
}

// Query sends req and returns the response body
func (q *HTTPQuerier) Query(ctx context.Context, req QueryRequest) ([]byte, error) {
	body, err := q.breaker.Execute(func() (interface{}, error) {
		return q.do(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("sentiment source unavailable: %w", err)
		}
		return nil, err
	}
	return body.([]byte), nil
}

func (q *HTTPQuerier) do(ctx context.Context, req QueryRequest) ([]byte, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, q.url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if q.apiKey != "" {
		httpReq.Header.Set("X-API-KEY", q.apiKey)
	}

	resp, err := q.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP request failed: status_code=%d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}

// QuerierFunc adapts a function to the Querier interface
type QuerierFunc func(ctx context.Context, req QueryRequest) ([]byte, error)

func (f QuerierFunc) Query(ctx context.Context, req QueryRequest) ([]byte, error) {
	return f(ctx, req)
}

var _ Querier = (*HTTPQuerier)(nil)
var _ Querier = QuerierFunc(nil)
