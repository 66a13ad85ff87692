package widget

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/oak/sentiment-widget/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTimeout = 2 * time.Second
	testTick    = 5 * time.Millisecond
)

func TestBuildViewWithCurrentRecord(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := liveRecord(sentiment.Period24h, 75)
	r.Classification = sentiment.Bearish

	v := BuildView(Snapshot{
		SelectedPeriod: sentiment.Period24h,
		Records:        map[sentiment.Period]sentiment.Record{sentiment.Period24h: r},
		UpdatedAt:      map[sentiment.Period]time.Time{sentiment.Period24h: at},
		Live:           map[sentiment.Period]bool{sentiment.Period24h: true},
	})

	require.NotNil(t, v.Current)
	assert.Equal(t, sentiment.CategoryNegative, v.Current.Category)
	assert.InDelta(t, r.Over100kRate(), v.Current.Over100kRate, 1e-9)
	assert.True(t, v.Current.Live)
	assert.Equal(t, at, v.Current.UpdatedAt)
	assert.Empty(t, v.Placeholder)
	assert.Equal(t, sentiment.Periods, v.Timeframes)
	assert.Equal(t, []sentiment.Point{{Label: "24h", Score: 75}}, v.Series)
}

func TestBuildViewPlaceholder(t *testing.T) {
	tests := []struct {
		name        string
		loading     bool
		placeholder string
	}{
		{"idle without data", false, PlaceholderNoData},
		{"loading without data", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := BuildView(Snapshot{
				SelectedPeriod: sentiment.Period7d,
				Records: map[sentiment.Period]sentiment.Record{
					sentiment.Period24h: liveRecord(sentiment.Period24h, 75),
				},
				Loading: tt.loading,
			})
			assert.Nil(t, v.Current)
			assert.Equal(t, tt.placeholder, v.Placeholder)
			assert.Len(t, v.Series, 1)
		})
	}
}

func TestViewJSONShape(t *testing.T) {
	v := BuildView(Snapshot{
		SelectedPeriod: sentiment.Period24h,
		Records:        map[sentiment.Period]sentiment.Record{sentiment.Period24h: liveRecord(sentiment.Period24h, 75)},
		LastError:      "network timeout",
	})

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "network timeout", decoded["error"])
	current, ok := decoded["current"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "positive", current["category"])
	assert.EqualValues(t, 42, current["tokens_launched"])
	assert.EqualValues(t, 75, current["score"])
}
