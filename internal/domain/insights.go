package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Insights holds the statistics computed over one run's cleaned records
type Insights struct {
	TotalOriginal     int
	TotalCleaned      int
	DuplicatesRemoved int
	DroppedRows       int
	UniqueStyles      int
	Found             int
	NotFound          int
	MatchRate         decimal.Decimal // percent, one decimal place
	AlreadyFlagged    int
	NeedFlag          int
	Discontinued      int

	ByVendor         map[string]int
	ByCategory       map[string]int
	ByDecoration     map[string]int
	FoundByVendor    map[string]int
	NotFoundByVendor map[string]int
}

// RunResult is everything a report writer needs from one run
type RunResult struct {
	RunID       string
	GeneratedAt time.Time
	Profile     Profile
	Records     []*Record
	Insights    *Insights
}

// NotFound returns the records whose base code is missing from the catalog
func (r *RunResult) NotFound() []*Record {
	return r.filter(func(rec *Record) bool { return !rec.Exists() })
}

// NeedFlag returns the records that exist but lack the profile's flag
func (r *RunResult) NeedFlag() []*Record {
	return r.filter(func(rec *Record) bool { return rec.Exists() && !r.Profile.Flagged(rec.Result) })
}

// AlreadyFlagged returns the records that exist and already carry the flag
func (r *RunResult) AlreadyFlagged() []*Record {
	return r.filter(func(rec *Record) bool { return rec.Exists() && r.Profile.Flagged(rec.Result) })
}

func (r *RunResult) filter(keep func(*Record) bool) []*Record {
	out := make([]*Record, 0, len(r.Records))
	for _, rec := range r.Records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Count is one label with its tally
type Count struct {
	Label string
	N     int
}

// SortedCounts orders a tally by count descending, then label ascending
func SortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for label, n := range m {
		out = append(out, Count{Label: label, N: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Label < out[j].Label
	})
	return out
}
