package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stylecheck/reconciler/internal/domain"
)

const lineWidth = 70

var titleCaser = cases.Title(language.English)

// Label turns a snake_case key into a title-cased label
func Label(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// RenderText writes the human-readable validation report
func RenderText(out io.Writer, run *domain.RunResult) error {
	w := bufio.NewWriter(out)
	in := run.Insights
	heavy := strings.Repeat("=", lineWidth)
	rule := strings.Repeat("-", lineWidth)
	flag := run.Profile.FlagLabel()

	section := func(title string) {
		fmt.Fprintf(w, "%s\n%s\n", title, rule)
	}
	counts := func(title string, m map[string]int, labelCase bool) {
		if len(m) == 0 {
			return
		}
		section(title)
		for _, c := range domain.SortedCounts(m) {
			label := c.Label
			if labelCase {
				label = titleCaser.String(label)
			}
			fmt.Fprintf(w, "%s: %d\n", label, c.N)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\n%s\n%s\n\n", heavy, run.Profile.Title, heavy)
	fmt.Fprintf(w, "Generated: %s\n", run.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Run ID: %s\n\n", run.RunID)

	section("SUMMARY STATISTICS")
	summary := []struct {
		key   string
		value string
	}{
		{"total_original", fmt.Sprint(in.TotalOriginal)},
		{"total_cleaned", fmt.Sprint(in.TotalCleaned)},
		{"duplicates_removed", fmt.Sprint(in.DuplicatesRemoved)},
		{"rows_dropped", fmt.Sprint(in.DroppedRows)},
		{"unique_styles", fmt.Sprint(in.UniqueStyles)},
		{"found_in_api", fmt.Sprint(in.Found)},
		{"not_found_in_api", fmt.Sprint(in.NotFound)},
		{"match_rate", in.MatchRate.StringFixed(1) + "%"},
		{"already_flagged", fmt.Sprint(in.AlreadyFlagged)},
		{"need_flag", fmt.Sprint(in.NeedFlag)},
		{"discontinued", fmt.Sprint(in.Discontinued)},
	}
	for _, s := range summary {
		fmt.Fprintf(w, "%s: %s\n", Label(s.key), s.value)
	}
	fmt.Fprintln(w)

	counts("PRODUCTS BY VENDOR", in.ByVendor, false)
	counts("PRODUCTS BY "+strings.ToUpper(run.Profile.GroupingColumn), in.ByCategory, false)
	counts("PRODUCTS BY DECORATION METHOD", in.ByDecoration, true)
	counts("FOUND IN API BY VENDOR", in.FoundByVendor, false)
	counts("NOT FOUND IN API BY VENDOR", in.NotFoundByVendor, false)

	if needFlag := run.NeedFlag(); len(needFlag) > 0 {
		section(fmt.Sprintf("PRODUCTS NEEDING %s FLAG", strings.ToUpper(flag)))
		fmt.Fprintf(w, "Total: %d products\n\n", len(needFlag))
		for _, rec := range needFlag {
			fmt.Fprintf(w, "Style: %s\n", rec.BaseCode)
			fmt.Fprintf(w, "  Description: %s\n", rec.Description)
			fmt.Fprintf(w, "  %s: %s\n", run.Profile.GroupingColumn, rec.GroupingKey)
			fmt.Fprintf(w, "  Vendor: %s\n", rec.Vendor)
			fmt.Fprintf(w, "  API Title: %s\n\n", rec.Result.Title)
		}
	}

	if notFound := run.NotFound(); len(notFound) > 0 {
		section("PRODUCTS NOT FOUND IN API")
		fmt.Fprintf(w, "Total: %d products\n", len(notFound))

		vendors, byVendor := groupByVendor(notFound)
		for _, vendor := range vendors {
			recs := byVendor[vendor]
			fmt.Fprintf(w, "\n%s (%d products):\n%s\n", vendor, len(recs), rule)
			for _, rec := range recs {
				fmt.Fprintf(w, "\nStyle: %s\n", rec.BaseCode)
				if rec.Original != rec.BaseCode {
					fmt.Fprintf(w, "  Original: %s\n", rec.Original)
				}
				fmt.Fprintf(w, "  Description: %s\n", rec.Description)
				fmt.Fprintf(w, "  %s: %s\n", run.Profile.GroupingColumn, rec.GroupingKey)
				if rec.Result != nil && rec.Result.Error != "" {
					fmt.Fprintf(w, "  Error: %s\n", rec.Result.Error)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%s\nRECOMMENDATIONS\n%s\n\n", heavy, heavy)
	for i, r := range Recommendations(run) {
		fmt.Fprintf(w, "%d. %s:\n   %s\n", i+1, r.Title, r.Detail)
		if r.File != "" {
			fmt.Fprintf(w, "   See: %s\n", r.File)
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}

// Recommendation is one operator follow-up derived from a run
type Recommendation struct {
	Title  string
	Detail string
	File   string
}

// Recommendations lists the follow-ups a run calls for, most urgent first
func Recommendations(run *domain.RunResult) []Recommendation {
	in := run.Insights
	names := NamesFor(run.Profile)
	flag := run.Profile.FlagLabel()
	var out []Recommendation

	if in.NeedFlag > 0 {
		out = append(out, Recommendation{
			Title:  "UPDATE DATABASE",
			Detail: fmt.Sprintf("%d products need the %s flag set (%s)", in.NeedFlag, string(run.Profile.Flag), names.SQL),
			File:   names.NeedFlag,
		})
	}
	if in.NotFound > 0 {
		out = append(out, Recommendation{
			Title:  "ADD MISSING PRODUCTS",
			Detail: fmt.Sprintf("%d products not found in API", in.NotFound),
			File:   names.NotFound,
		})
	}
	if in.AlreadyFlagged > 0 {
		out = append(out, Recommendation{
			Title:  "ALREADY CONFIGURED",
			Detail: fmt.Sprintf("%d products already marked as %s", in.AlreadyFlagged, flag),
			File:   names.AlreadyFlagged,
		})
	}
	if in.Discontinued > 0 {
		out = append(out, Recommendation{
			Title:  "REVIEW DISCONTINUED",
			Detail: fmt.Sprintf("%d products marked as discontinued; consider removing them from the list", in.Discontinued),
		})
	}
	return out
}

// groupByVendor keeps vendors in first-seen order
func groupByVendor(records []*domain.Record) ([]string, map[string][]*domain.Record) {
	var order []string
	groups := make(map[string][]*domain.Record)
	for _, rec := range records {
		if _, ok := groups[rec.Vendor]; !ok {
			order = append(order, rec.Vendor)
		}
		groups[rec.Vendor] = append(groups[rec.Vendor], rec)
	}
	return order, groups
}
