package widget

import (
	"context"
	"fmt"

	"github.com/oak/sentiment-widget/internal/dataflows"
	"github.com/oak/sentiment-widget/internal/sentiment"
)

// Fetcher is the remote side of the widget: one fetch per period, never failing
type Fetcher interface {
	Fetch(ctx context.Context, period sentiment.Period) dataflows.Outcome
}

// Logger is the subset of logger.ColorLogger the controller uses
type Logger interface {
	Debug(text string)
}

// FetchResult reports what a fetch produced and whether it reached the store
type FetchResult struct {
	Outcome dataflows.Outcome
	Applied bool
}

// Controller wires timeframe selection and refresh events to the fetcher and store
type Controller struct {
	store   *Store
	fetcher Fetcher
	logger  Logger
}

// NewController creates a new Controller. logger may be nil.
func NewController(store *Store, fetcher Fetcher, logger Logger) *Controller {
	return &Controller{store: store, fetcher: fetcher, logger: logger}
}

// Store returns the underlying store
func (c *Controller) Store() *Store {
	return c.store
}

// Mount performs the initial fetch for the selected period
func (c *Controller) Mount(ctx context.Context) FetchResult {
	return c.fetch(ctx, c.store.SelectedPeriod())
}

// SelectPeriod switches the timeframe and fetches it
func (c *Controller) SelectPeriod(ctx context.Context, period sentiment.Period) (FetchResult, error) {
	if !period.Valid() {
		return FetchResult{}, fmt.Errorf("%w: %q", sentiment.ErrUnknownPeriod, period)
	}
	c.store.SelectPeriod(period)
	return c.fetch(ctx, period), nil
}

// Refresh re-fetches the selected period (manual retry)
func (c *Controller) Refresh(ctx context.Context) FetchResult {
	return c.fetch(ctx, c.store.SelectedPeriod())
}

// View returns the display-ready state
func (c *Controller) View() View {
	return BuildView(c.store.Snapshot())
}

func (c *Controller) fetch(ctx context.Context, period sentiment.Period) FetchResult {
	ticket := c.store.BeginFetch(period)
	outcome := c.fetcher.Fetch(ctx, period)
	applied := c.store.Resolve(ticket, outcome)

	if c.logger != nil {
		if applied {
			c.logger.Debug(fmt.Sprintf("%s sentiment resolved (%s, seq %d)", period, outcome.Kind, ticket.Seq))
		} else {
			c.logger.Debug(fmt.Sprintf("%s sentiment response seq %d superseded, dropped", period, ticket.Seq))
		}
	}

	return FetchResult{Outcome: outcome, Applied: applied}
}
