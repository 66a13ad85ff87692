package agents

import (
	"context"
	"sync"
	"testing"

	"github.com/oak/sentiment-widget/internal/dataflows"
	"github.com/oak/sentiment-widget/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// liveFetcher serves live data for 24h and fails every other timeframe
type liveFetcher struct {
	mu        sync.Mutex
	requested map[sentiment.Period]int
}

func (f *liveFetcher) Fetch(ctx context.Context, p sentiment.Period) dataflows.Outcome {
	f.mu.Lock()
	f.requested[p]++
	f.mu.Unlock()

	if p == sentiment.Period24h {
		r := sentiment.Fallback(p)
		r.Score = 75
		return dataflows.Live(p, map[sentiment.Period]sentiment.Record{p: r})
	}
	return dataflows.Fallback(p, &dataflows.FetchError{Kind: dataflows.TransportError, Msg: "offline"})
}

func TestSentimentGraphAllTimeframes(t *testing.T) {
	f := &liveFetcher{requested: make(map[sentiment.Period]int)}
	ctx := context.Background()

	runnable, err := BuildSentimentGraph(ctx, NewSentimentTool(f, sentiment.Period24h))
	require.NoError(t, err)

	reports, err := runnable.Invoke(ctx, nil)
	require.NoError(t, err)
	require.Len(t, reports, len(sentiment.Periods))

	assert.Contains(t, reports[sentiment.Period24h], "**Source**: live")
	assert.Contains(t, reports[sentiment.Period24h], "75/100")
	assert.Contains(t, reports[sentiment.Period7d], "simulated (transport: offline)")
	assert.Contains(t, reports[sentiment.Period30d], "Market Sentiment (30d)")

	for _, p := range sentiment.Periods {
		assert.Equal(t, 1, f.requested[p], "period %s", p)
	}
}

func TestSentimentGraphSelectedTimeframes(t *testing.T) {
	f := &liveFetcher{requested: make(map[sentiment.Period]int)}
	ctx := context.Background()

	runnable, err := BuildSentimentGraph(ctx, NewSentimentTool(f, sentiment.Period24h))
	require.NoError(t, err)

	reports, err := runnable.Invoke(ctx, []sentiment.Period{sentiment.Period7d})
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.Contains(t, reports, sentiment.Period7d)

	_, err = runnable.Invoke(ctx, []sentiment.Period{"1y"})
	assert.Error(t, err)
}
