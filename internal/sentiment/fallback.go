package sentiment

// fallbackDataset is the simulated data shown when no live source answers.
// Every entry must pass Validate.
var fallbackDataset = map[Period]Record{
	Period24h: {
		Period:            Period24h,
		Score:             68,
		Classification:    Bullish,
		TokensLaunched:    156,
		TokensOver100k:    42,
		TokensOver1m:      7,
		ProfitablePercent: 58.3,
	},
	Period7d: {
		Period:            Period7d,
		Score:             54,
		Classification:    Neutral,
		TokensLaunched:    1024,
		TokensOver100k:    231,
		TokensOver1m:      38,
		ProfitablePercent: 47.6,
	},
	Period30d: {
		Period:            Period30d,
		Score:             41,
		Classification:    Bearish,
		TokensLaunched:    4389,
		TokensOver100k:    812,
		TokensOver1m:      119,
		ProfitablePercent: 36.9,
	},
}

// Fallback returns the static record for a period.
// Unknown periods get the 24h record relabelled, so callers never end up without data.
func Fallback(p Period) Record {
	if r, ok := fallbackDataset[p]; ok {
		return r
	}
	r := fallbackDataset[Period24h]
	r.Period = p
	return r
}

// FallbackSet returns a fresh copy of the whole static table
func FallbackSet() map[Period]Record {
	out := make(map[Period]Record, len(fallbackDataset))
	for p, r := range fallbackDataset {
		out[p] = r
	}
	return out
}
