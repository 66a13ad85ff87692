package sentiment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Period is one of the fixed observation windows
type Period string

const (
	Period24h Period = "24h"
	Period7d  Period = "7d"
	Period30d Period = "30d"
)

// Periods lists the supported windows in canonical order (short, medium, long)
var Periods = []Period{Period24h, Period7d, Period30d}

var (
	ErrUnknownPeriod = errors.New("unknown period")
	ErrInvalidRecord = errors.New("invalid sentiment record")
)

// ParsePeriod converts "24h" / "7d" / "30d" into a Period
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
	return p, nil
}

// Valid reports whether p is a supported window
func (p Period) Valid() bool {
	switch p {
	case Period24h, Period7d, Period30d:
		return true
	}
	return false
}

// Label returns the chart label for the period
func (p Period) Label() string {
	return string(p)
}

// Classification is the coarse market mood label
type Classification string

const (
	Bullish Classification = "Bullish"
	Bearish Classification = "Bearish"
	Neutral Classification = "Neutral"
)

// Category is the semantic display bucket of a classification
type Category string

const (
	CategoryPositive Category = "positive"
	CategoryNegative Category = "negative"
	CategoryNeutral  Category = "neutral"
)

// Valid reports whether c is a known classification
func (c Classification) Valid() bool {
	switch c {
	case Bullish, Bearish, Neutral:
		return true
	}
	return false
}

// Category maps the classification to its display bucket
func (c Classification) Category() Category {
	switch c {
	case Bullish:
		return CategoryPositive
	case Bearish:
		return CategoryNegative
	default:
		return CategoryNeutral
	}
}

// UnmarshalJSON accepts any casing ("bullish", "BULLISH", "Bullish").
// Unknown labels are kept as-is so Validate can reject them.
func (c *Classification) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bullish":
		*c = Bullish
	case "bearish":
		*c = Bearish
	case "neutral":
		*c = Neutral
	default:
		*c = Classification(s)
	}
	return nil
}

// Record is one sentiment observation for a period
type Record struct {
	Period            Period         `json:"period"`
	Score             int            `json:"score"`
	Classification    Classification `json:"classification"`
	TokensLaunched    int            `json:"tokens_launched"`
	TokensOver100k    int            `json:"tokens_over_100k"`
	TokensOver1m      int            `json:"tokens_over_1m"`
	ProfitablePercent float64        `json:"profitable_tokens_percent"`
}

// Validate checks ranges and the tokensOver1m <= tokensOver100k <= tokensLaunched ordering
func (r Record) Validate() error {
	if !r.Period.Valid() {
		return fmt.Errorf("%w: period %q", ErrInvalidRecord, r.Period)
	}
	if r.Score < 0 || r.Score > 100 {
		return fmt.Errorf("%w: score %d out of range 0-100", ErrInvalidRecord, r.Score)
	}
	if !r.Classification.Valid() {
		return fmt.Errorf("%w: classification %q", ErrInvalidRecord, r.Classification)
	}
	if r.TokensLaunched < 0 || r.TokensOver100k < 0 || r.TokensOver1m < 0 {
		return fmt.Errorf("%w: negative token count", ErrInvalidRecord)
	}
	if r.TokensOver100k > r.TokensLaunched {
		return fmt.Errorf("%w: tokens_over_100k %d exceeds tokens_launched %d",
			ErrInvalidRecord, r.TokensOver100k, r.TokensLaunched)
	}
	if r.TokensOver1m > r.TokensOver100k {
		return fmt.Errorf("%w: tokens_over_1m %d exceeds tokens_over_100k %d",
			ErrInvalidRecord, r.TokensOver1m, r.TokensOver100k)
	}
	if r.ProfitablePercent < 0 || r.ProfitablePercent > 100 {
		return fmt.Errorf("%w: profitable percent %.2f out of range 0-100", ErrInvalidRecord, r.ProfitablePercent)
	}
	return nil
}

// Over100kRate returns the share of launched tokens that passed 100k, in percent
func (r Record) Over100kRate() float64 {
	if r.TokensLaunched == 0 {
		return 0
	}
	return float64(r.TokensOver100k) / float64(r.TokensLaunched) * 100
}

// Over1mRate returns the share of launched tokens that passed 1m, in percent
func (r Record) Over1mRate() float64 {
	if r.TokensLaunched == 0 {
		return 0
	}
	return float64(r.TokensOver1m) / float64(r.TokensLaunched) * 100
}
