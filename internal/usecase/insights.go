package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/stylecheck/reconciler/internal/domain"
)

// InsightService computes run statistics over validated records
type InsightService struct {
	profile domain.Profile
}

// NewInsightService creates an InsightService for one profile
func NewInsightService(profile domain.Profile) *InsightService {
	return &InsightService{profile: profile}
}

// Generate tallies the records. Counts are per cleaned record, so a style
// listed under two groupings counts twice, while UniqueStyles counts it once.
func (s *InsightService) Generate(records []*domain.Record, clean CleanStats) *domain.Insights {
	in := &domain.Insights{
		TotalOriginal:     clean.TotalOriginal,
		TotalCleaned:      len(records),
		DuplicatesRemoved: clean.DuplicatesRemoved,
		DroppedRows:       clean.Dropped,
		UniqueStyles:      len(UniqueBaseCodes(records)),
		MatchRate:         decimal.Zero,
		ByVendor:          make(map[string]int),
		ByCategory:        make(map[string]int),
		ByDecoration:      make(map[string]int),
		FoundByVendor:     make(map[string]int),
		NotFoundByVendor:  make(map[string]int),
	}

	for _, rec := range records {
		in.ByVendor[rec.Vendor]++
		if rec.GroupingKey != "" {
			in.ByCategory[rec.GroupingKey]++
		}
		if rec.DecorationMethod != "" {
			in.ByDecoration[rec.DecorationMethod]++
		}

		if !rec.Exists() {
			in.NotFound++
			in.NotFoundByVendor[rec.Vendor]++
			continue
		}

		in.Found++
		in.FoundByVendor[rec.Vendor]++
		if s.profile.Flagged(rec.Result) {
			in.AlreadyFlagged++
		} else {
			in.NeedFlag++
		}
		if rec.Result.Status == domain.StatusDiscontinued {
			in.Discontinued++
		}
	}

	in.MatchRate = matchRate(in.Found, in.TotalCleaned)
	return in
}

// matchRate returns found/total as a percentage rounded to one decimal place
func matchRate(found, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(found)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(1)
}
