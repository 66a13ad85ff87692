package sentiment

// Point is one chart sample
type Point struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

// BuildSeries returns one point per known period in canonical order.
// Missing periods are skipped, not zero-filled.
func BuildSeries(records map[Period]Record) []Point {
	series := make([]Point, 0, len(Periods))
	for _, p := range Periods {
		r, ok := records[p]
		if !ok {
			continue
		}
		series = append(series, Point{Label: p.Label(), Score: r.Score})
	}
	return series
}
