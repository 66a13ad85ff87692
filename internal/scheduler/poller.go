package scheduler

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/jpillora/backoff"
	"github.com/oak/sentiment-widget/internal/widget"
)

// Refresher re-fetches the selected timeframe
type Refresher interface {
	Refresh(ctx context.Context) widget.FetchResult
}

// Poller refreshes on a fixed interval while the source is live and
// stretches the interval while it keeps answering with simulated data
type Poller struct {
	refresher Refresher
	interval  time.Duration
	clock     clockwork.Clock
	backoff   *backoff.Backoff
}

// NewPoller creates a new poller. maxInterval caps the stretched interval.
func NewPoller(r Refresher, interval, maxInterval time.Duration, clock clockwork.Clock) *Poller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if maxInterval < interval {
		maxInterval = interval
	}

	return &Poller{
		refresher: r,
		interval:  interval,
		clock:     clock,
		backoff: &backoff.Backoff{
			Min:    interval,
			Max:    maxInterval,
			Factor: 2,
			Jitter: false,
		},
	}
}

// NextWait returns how long to wait after res before the next refresh
func (p *Poller) NextWait(res widget.FetchResult) time.Duration {
	if res.Outcome.IsLive() {
		p.backoff.Reset()
		return p.interval
	}
	return p.backoff.Duration()
}

// Run refreshes until ctx is cancelled. onResult, if set, sees every result.
func (p *Poller) Run(ctx context.Context, onResult func(widget.FetchResult)) error {
	for {
		res := p.refresher.Refresh(ctx)
		if onResult != nil {
			onResult(res)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.clock.After(p.NextWait(res)):
		}
	}
}
