package dataflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oak/sentiment-widget/internal/metrics"
	"github.com/oak/sentiment-widget/internal/sentiment"
)

// QueryTypeMarketSentiment is the analysis query understood by the upstream endpoint
const QueryTypeMarketSentiment = "marketSentiment"

// reasonUnrecognized is surfaced when a response carries no sentiment object at all
const reasonUnrecognized = "unrecognized data format"

// ErrorKind classifies why live data could not be used
type ErrorKind int

const (
	// TransportError: the remote call itself failed (network, auth, server error)
	TransportError ErrorKind = iota + 1
	// ApplicationError: the call succeeded but the payload carries an error field
	ApplicationError
	// MalformedDataError: the call succeeded but no usable sentiment payload came back
	MalformedDataError
)

func (k ErrorKind) String() string {
	switch k {
	case TransportError:
		return "transport"
	case ApplicationError:
		return "application"
	case MalformedDataError:
		return "malformed"
	default:
		return "unknown"
	}
}

// FetchError is a classified fetch failure. Error() returns the user-facing reason.
type FetchError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *FetchError) Error() string { return e.Msg }
func (e *FetchError) Unwrap() error { return e.Err }

// Notifier receives user-visible notifications, keyed by severity
type Notifier interface {
	Warning(text string)
	Error(text string)
}

// OutcomeKind tells live data apart from simulated data
type OutcomeKind int

const (
	OutcomeLive OutcomeKind = iota
	OutcomeFallback
)

func (k OutcomeKind) String() string {
	if k == OutcomeLive {
		return "live"
	}
	return "fallback"
}

// Outcome is the result of one fetch for a period.
// Live outcomes may carry records for several periods; fallback outcomes carry exactly one.
type Outcome struct {
	Kind    OutcomeKind
	Period  sentiment.Period
	Records map[sentiment.Period]sentiment.Record
	Err     *FetchError
}

// Live builds a live outcome for the requested period
func Live(period sentiment.Period, records map[sentiment.Period]sentiment.Record) Outcome {
	return Outcome{Kind: OutcomeLive, Period: period, Records: records}
}

// Fallback builds a simulated-data outcome for the requested period.
// A nil fetchErr is recorded as malformed data with a generic reason.
func Fallback(period sentiment.Period, fetchErr *FetchError) Outcome {
	if fetchErr == nil {
		fetchErr = &FetchError{Kind: MalformedDataError, Msg: "using simulated data"}
	}
	return Outcome{
		Kind:    OutcomeFallback,
		Period:  period,
		Records: map[sentiment.Period]sentiment.Record{period: sentiment.Fallback(period)},
		Err:     fetchErr,
	}
}

// Record returns the record for the requested period
func (o Outcome) Record() sentiment.Record {
	return o.Records[o.Period]
}

// Reason returns the failure message, empty for live outcomes
func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Msg
}

// IsLive reports whether the outcome holds live data
func (o Outcome) IsLive() bool {
	return o.Kind == OutcomeLive
}

// Fetcher queries the remote sentiment source for one period and
// substitutes the static dataset when the answer is unusable
type Fetcher struct {
	querier  Querier
	notifier Notifier
}

// NewFetcher creates a new Fetcher. notifier may be nil.
func NewFetcher(q Querier, notifier Notifier) *Fetcher {
	return &Fetcher{querier: q, notifier: notifier}
}

// Fetch runs one query for period. It never fails: every error path ends in a Fallback outcome.
func (f *Fetcher) Fetch(ctx context.Context, period sentiment.Period) Outcome {
	if !period.Valid() {
		return f.fallback(period, &FetchError{
			Kind: MalformedDataError,
			Msg:  fmt.Sprintf("unsupported timeframe %q", period),
			Err:  sentiment.ErrUnknownPeriod,
		})
	}

	start := time.Now()
	body, err := f.querier.Query(ctx, QueryRequest{
		Timeframe: string(period),
		QueryType: QueryTypeMarketSentiment,
	})
	metrics.FetchDuration.WithLabelValues(string(period)).Observe(time.Since(start).Seconds())
	if err != nil {
		return f.fallback(period, &FetchError{Kind: TransportError, Msg: err.Error(), Err: err})
	}

	records, fetchErr := parseResponse(body, period)
	if fetchErr != nil {
		return f.fallback(period, fetchErr)
	}

	metrics.FetchOutcomesTotal.WithLabelValues(string(period), OutcomeLive.String()).Inc()
	return Live(period, records)
}

func (f *Fetcher) fallback(period sentiment.Period, fetchErr *FetchError) Outcome {
	metrics.FetchOutcomesTotal.WithLabelValues(string(period), fetchErr.Kind.String()).Inc()

	if f.notifier != nil {
		switch fetchErr.Kind {
		case MalformedDataError:
			f.notifier.Warning(fmt.Sprintf(
				"Showing simulated %s sentiment data. Connect a live sentiment source for real-time analysis.", period))
		default:
			f.notifier.Error(fmt.Sprintf(
				"Failed to fetch %s sentiment: %s. Using simulated data.", period, fetchErr.Msg))
		}
	}

	return Fallback(period, fetchErr)
}

// Response payload variants. A body is decoded exactly once into one of these.
type (
	payload interface{ isPayload() }

	// ErrorPayload: the upstream answered with an application-level error
	ErrorPayload struct{ Message string }

	// SinglePeriodPayload: a lone "sentiment" object for the requested period
	SinglePeriodPayload struct{ Record sentiment.Record }

	// MultiPeriodPayload: one or more of sentiment24h / sentiment7d / sentiment30d
	MultiPeriodPayload struct {
		Records map[sentiment.Period]sentiment.Record
	}
)

func (ErrorPayload) isPayload()        {}
func (SinglePeriodPayload) isPayload() {}
func (MultiPeriodPayload) isPayload()  {}

type rawResponse struct {
	Error        json.RawMessage   `json:"error"`
	Sentiment    *sentiment.Record `json:"sentiment"`
	Sentiment24h *sentiment.Record `json:"sentiment24h"`
	Sentiment7d  *sentiment.Record `json:"sentiment7d"`
	Sentiment30d *sentiment.Record `json:"sentiment30d"`
}

// decodePayload maps a raw body onto its payload variant
func decodePayload(body []byte, period sentiment.Period) (payload, error) {
	var raw rawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if msg := errorMessage(raw.Error); msg != "" {
		return ErrorPayload{Message: msg}, nil
	}

	multi := make(map[sentiment.Period]sentiment.Record, len(sentiment.Periods))
	for p, r := range map[sentiment.Period]*sentiment.Record{
		sentiment.Period24h: raw.Sentiment24h,
		sentiment.Period7d:  raw.Sentiment7d,
		sentiment.Period30d: raw.Sentiment30d,
	} {
		if r != nil {
			multi[p] = *r
		}
	}

	switch {
	case len(multi) > 0:
		// A lone "sentiment" object next to per-period objects still belongs to the requested period
		if raw.Sentiment != nil {
			multi[period] = *raw.Sentiment
		}
		return MultiPeriodPayload{Records: multi}, nil
	case raw.Sentiment != nil:
		return SinglePeriodPayload{Record: *raw.Sentiment}, nil
	default:
		return nil, errors.New(reasonUnrecognized)
	}
}

func errorMessage(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return trimmed
}

// parseResponse decodes and validates a response body into the canonical record mapping
func parseResponse(body []byte, period sentiment.Period) (map[sentiment.Period]sentiment.Record, *FetchError) {
	p, err := decodePayload(body, period)
	if err != nil {
		return nil, &FetchError{Kind: MalformedDataError, Msg: reasonUnrecognized, Err: err}
	}

	var records map[sentiment.Period]sentiment.Record
	switch v := p.(type) {
	case ErrorPayload:
		return nil, &FetchError{Kind: ApplicationError, Msg: v.Message}
	case SinglePeriodPayload:
		records = map[sentiment.Period]sentiment.Record{period: v.Record}
	case MultiPeriodPayload:
		records = v.Records
	}

	if _, ok := records[period]; !ok {
		return nil, &FetchError{
			Kind: MalformedDataError,
			Msg:  fmt.Sprintf("response has no %s sentiment", period),
		}
	}

	for p, r := range records {
		if r.Period == "" {
			r.Period = p
		}
		if r.Period != p {
			return nil, &FetchError{
				Kind: MalformedDataError,
				Msg:  fmt.Sprintf("%s sentiment labelled as %q", p, r.Period),
			}
		}
		if err := r.Validate(); err != nil {
			return nil, &FetchError{Kind: MalformedDataError, Msg: err.Error(), Err: err}
		}
		records[p] = r
	}

	return records, nil
}

// FormatSentimentReport renders an outcome as a readable report
func FormatSentimentReport(o Outcome) string {
	r := o.Record()
	source := "live"
	if !o.IsLive() {
		kind := ErrorKind(0)
		if o.Err != nil {
			kind = o.Err.Kind
		}
		source = fmt.Sprintf("simulated (%s: %s)", kind, o.Reason())
	}

	return fmt.Sprintf(`
# Market Sentiment (%s)

- **Source**: %s
- **Score**: %d/100
- **Classification**: %s (%s)
- **Tokens launched**: %d
- **Tokens over $100k**: %d (%.1f%%)
- **Tokens over $1M**: %d (%.1f%%)
- **Profitable tokens**: %.1f%%
`, r.Period, source, r.Score, r.Classification, r.Classification.Category(),
		r.TokensLaunched, r.TokensOver100k, r.Over100kRate(),
		r.TokensOver1m, r.Over1mRate(), r.ProfitablePercent)
}
