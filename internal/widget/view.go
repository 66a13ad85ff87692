package widget

import (
	"time"

	"github.com/oak/sentiment-widget/internal/sentiment"
)

// PlaceholderNoData is shown when the selected period has nothing to display
const PlaceholderNoData = "no data"

// RecordView is a record plus the fields the render target derives from it
type RecordView struct {
	sentiment.Record
	Category     sentiment.Category `json:"category"`
	Over100kRate float64            `json:"over_100k_rate"`
	Over1mRate   float64            `json:"over_1m_rate"`
	Live         bool               `json:"live"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// View is everything the render target needs
type View struct {
	Loading     bool               `json:"loading"`
	Error       string             `json:"error,omitempty"`
	Selected    sentiment.Period   `json:"selected"`
	Timeframes  []sentiment.Period `json:"timeframes"`
	Current     *RecordView        `json:"current,omitempty"`
	Series      []sentiment.Point  `json:"series"`
	Placeholder string             `json:"placeholder,omitempty"`
}

// BuildView maps a snapshot to display-ready fields
func BuildView(s Snapshot) View {
	v := View{
		Loading:    s.Loading,
		Error:      s.LastError,
		Selected:   s.SelectedPeriod,
		Timeframes: sentiment.Periods,
		Series:     sentiment.BuildSeries(s.Records),
	}

	if r, ok := s.Records[s.SelectedPeriod]; ok {
		v.Current = &RecordView{
			Record:       r,
			Category:     r.Classification.Category(),
			Over100kRate: r.Over100kRate(),
			Over1mRate:   r.Over1mRate(),
			Live:         s.Live[s.SelectedPeriod],
			UpdatedAt:    s.UpdatedAt[s.SelectedPeriod],
		}
	} else if !s.Loading {
		v.Placeholder = PlaceholderNoData
	}

	return v
}
