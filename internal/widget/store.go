package widget

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/oak/sentiment-widget/internal/dataflows"
	"github.com/oak/sentiment-widget/internal/metrics"
	"github.com/oak/sentiment-widget/internal/sentiment"
)

// Ticket identifies one outstanding fetch. Only the newest ticket per period may write.
type Ticket struct {
	Period sentiment.Period
	Seq    uint64
}

// Snapshot is a consistent copy of the store state
type Snapshot struct {
	SelectedPeriod sentiment.Period
	Records        map[sentiment.Period]sentiment.Record
	UpdatedAt      map[sentiment.Period]time.Time
	Live           map[sentiment.Period]bool
	Loading        bool
	LastError      string
}

// Store holds the latest record per period plus the selected period.
// One mutex guards every field; fetches may resolve from any goroutine.
type Store struct {
	mu    sync.Mutex
	clock clockwork.Clock

	selected  sentiment.Period
	records   map[sentiment.Period]sentiment.Record
	updatedAt map[sentiment.Period]time.Time
	live      map[sentiment.Period]bool
	loading   bool
	lastError string

	next      uint64                      // last ticket sequence issued, across all periods
	seq       map[sentiment.Period]uint64 // newest ticket issued per period
	writtenBy map[sentiment.Period]uint64 // ticket whose response wrote the stored record
	requested sentiment.Period            // period of the most recent BeginFetch
}

// NewStore creates an empty store with selected as the initial period
func NewStore(selected sentiment.Period, clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		clock:     clock,
		selected:  selected,
		records:   make(map[sentiment.Period]sentiment.Record),
		updatedAt: make(map[sentiment.Period]time.Time),
		live:      make(map[sentiment.Period]bool),
		seq:       make(map[sentiment.Period]uint64),
		writtenBy: make(map[sentiment.Period]uint64),
	}
}

// BeginFetch marks the store as loading and issues a ticket for period
func (s *Store) BeginFetch(period sentiment.Period) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	s.seq[period] = s.next
	s.requested = period
	s.loading = true
	s.lastError = ""

	return Ticket{Period: period, Seq: s.next}
}

// Resolve applies an outcome for ticket. It returns false, leaving the store
// untouched, when a newer fetch for the same period has been issued since.
//
// A record is written only when no newer ticket has been issued for its period
// and no newer response wrote it, so extra periods carried by a slow
// multi-period response never replace fresher data.
//
// loading and lastError follow the most recently requested period only. A
// fallback for a period that is no longer the requested one caches the
// simulated record (Live=false in the snapshot) but leaves lastError as the
// current request set it, which may be empty.
func (s *Store) Resolve(ticket Ticket, outcome dataflows.Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq[ticket.Period] != ticket.Seq {
		metrics.StaleResponsesTotal.WithLabelValues(string(ticket.Period)).Inc()
		return false
	}

	now := s.clock.Now()
	current := ticket.Period == s.requested

	if outcome.IsLive() {
		for p, r := range outcome.Records {
			if !s.writable(p, ticket.Seq) {
				metrics.StaleResponsesTotal.WithLabelValues(string(p)).Inc()
				continue
			}
			s.put(p, r, true, now, ticket.Seq)
		}
		if current {
			s.lastError = ""
		}
	} else {
		if s.writable(ticket.Period, ticket.Seq) {
			s.put(ticket.Period, outcome.Record(), false, now, ticket.Seq)
		}
		// Any failure degrades the whole dashboard: seed periods that have nothing yet.
		// Seeds carry no writer so a pending fetch for that period can still land.
		for p, r := range sentiment.FallbackSet() {
			if _, ok := s.records[p]; !ok {
				s.put(p, r, false, now, 0)
			}
		}
		if current {
			s.lastError = outcome.Reason()
			if s.lastError == "" {
				s.lastError = "using simulated data"
			}
		}
	}

	if current {
		s.loading = false
	}
	return true
}

// writable reports whether a response issued as seq may overwrite period p
func (s *Store) writable(p sentiment.Period, seq uint64) bool {
	return s.seq[p] <= seq && s.writtenBy[p] <= seq
}

func (s *Store) put(p sentiment.Period, r sentiment.Record, live bool, at time.Time, seq uint64) {
	s.records[p] = r
	s.live[p] = live
	s.updatedAt[p] = at
	s.writtenBy[p] = seq
}

// SelectPeriod changes the selected period. It does not fetch.
func (s *Store) SelectPeriod(period sentiment.Period) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = period
}

// SelectedPeriod returns the selected period
func (s *Store) SelectedPeriod() sentiment.Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// CurrentRecord returns the record for the selected period, if any
func (s *Store) CurrentRecord() (sentiment.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[s.selected]
	return r, ok
}

// Records returns a copy of the cached records
func (s *Store) Records() map[sentiment.Period]sentiment.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMap(s.records)
}

// Loading reports whether the most recent fetch is still outstanding
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the failure reason of the latest resolved fetch
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Snapshot returns a consistent copy of the whole state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		SelectedPeriod: s.selected,
		Records:        copyMap(s.records),
		UpdatedAt:      copyMap(s.updatedAt),
		Live:           copyMap(s.live),
		Loading:        s.loading,
		LastError:      s.lastError,
	}
}

func copyMap[V any](m map[sentiment.Period]V) map[sentiment.Period]V {
	out := make(map[sentiment.Period]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// seqFor returns the newest ticket sequence issued for period
func (s *Store) seqFor(period sentiment.Period) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq[period]
}
