package sentiment

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() Record {
	return Record{
		Period:            Period24h,
		Score:             75,
		Classification:    Bullish,
		TokensLaunched:    42,
		TokensOver100k:    18,
		TokensOver1m:      8,
		ProfitablePercent: 65,
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input   string
		want    Period
		wantErr bool
	}{
		{"24h", Period24h, false},
		{"7d", Period7d, false},
		{" 30D ", Period30d, false},
		{"1h", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Record)
		valid  bool
	}{
		{"valid", func(r *Record) {}, true},
		{"all zero counts", func(r *Record) { r.TokensLaunched, r.TokensOver100k, r.TokensOver1m = 0, 0, 0 }, true},
		{"score above 100", func(r *Record) { r.Score = 101 }, false},
		{"negative score", func(r *Record) { r.Score = -1 }, false},
		{"unknown classification", func(r *Record) { r.Classification = "Sideways" }, false},
		{"unknown period", func(r *Record) { r.Period = "1y" }, false},
		{"negative launched", func(r *Record) { r.TokensLaunched = -1 }, false},
		{"over100k exceeds launched", func(r *Record) { r.TokensOver100k = 50 }, false},
		{"over1m exceeds over100k", func(r *Record) { r.TokensOver1m = 19 }, false},
		{"profitable above 100", func(r *Record) { r.ProfitablePercent = 100.5 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)
			err := r.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidRecord), "expected ErrInvalidRecord, got %v", err)
		})
	}
}

func TestClassificationCategory(t *testing.T) {
	assert.Equal(t, CategoryPositive, Bullish.Category())
	assert.Equal(t, CategoryNegative, Bearish.Category())
	assert.Equal(t, CategoryNeutral, Neutral.Category())
}

func TestRecordUnmarshalSnakeCase(t *testing.T) {
	raw := `{"period":"7d","score":62,"classification":"bearish","tokens_launched":100,` +
		`"tokens_over_100k":20,"tokens_over_1m":3,"profitable_tokens_percent":41.5}`

	var r Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	assert.Equal(t, Period7d, r.Period)
	assert.Equal(t, Bearish, r.Classification)
	assert.Equal(t, 20, r.TokensOver100k)
	assert.Equal(t, 3, r.TokensOver1m)
	assert.InDelta(t, 41.5, r.ProfitablePercent, 1e-9)
	assert.NoError(t, r.Validate())
}

func TestRecordRates(t *testing.T) {
	r := validRecord()
	assert.InDelta(t, 18.0/42.0*100, r.Over100kRate(), 1e-9)
	assert.InDelta(t, 8.0/42.0*100, r.Over1mRate(), 1e-9)

	r.TokensLaunched, r.TokensOver100k, r.TokensOver1m = 0, 0, 0
	assert.Zero(t, r.Over100kRate())
	assert.Zero(t, r.Over1mRate())
}

func TestFallbackDatasetIsValid(t *testing.T) {
	for _, p := range Periods {
		r := Fallback(p)
		assert.Equal(t, p, r.Period)
		assert.NoError(t, r.Validate(), "fallback record for %s", p)
	}

	set := FallbackSet()
	require.Len(t, set, len(Periods))

	// Mutating the copy must not leak into the dataset
	set[Period24h] = Record{}
	assert.Equal(t, 68, Fallback(Period24h).Score)
}
