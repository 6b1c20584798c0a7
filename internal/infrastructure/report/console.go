package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/stylecheck/reconciler/internal/domain"
)

const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorHeader  = "\033[1;35m"
	colorSection = "\033[1;33m"
	colorGood    = "\033[1;32m"
	colorWarn    = "\033[1;31m"
)

// PrintSummary writes the colored end-of-run summary
func PrintSummary(out io.Writer, run *domain.RunResult, files []string) {
	in := run.Insights
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(out, "\n%s%s%s\n", colorHeader, sep, colorReset)
	fmt.Fprintf(out, "%s  %s%s\n", colorHeader, run.Profile.Title, colorReset)
	fmt.Fprintf(out, "%s%s%s\n\n", colorHeader, sep, colorReset)

	fmt.Fprintf(out, "%s  Summary%s\n", colorSection, colorReset)
	fmt.Fprintf(out, "  %s\n", thin)
	fmt.Fprintf(out, "  Processed        : %s%d%s\n", colorBold, in.TotalCleaned, colorReset)
	fmt.Fprintf(out, "  Unique styles    : %s%d%s\n", colorBold, in.UniqueStyles, colorReset)
	fmt.Fprintf(out, "  Found in API     : %s%d%s\n", colorGood, in.Found, colorReset)
	fmt.Fprintf(out, "  Not found        : %s%d%s\n", notZero(in.NotFound), in.NotFound, colorReset)
	fmt.Fprintf(out, "  Match rate       : %s%s%%%s\n", colorBold, in.MatchRate.StringFixed(1), colorReset)
	fmt.Fprintf(out, "  Already flagged  : %d (%s)\n", in.AlreadyFlagged, run.Profile.FlagLabel())
	fmt.Fprintf(out, "  Need flag        : %s%d%s\n", notZero(in.NeedFlag), in.NeedFlag, colorReset)
	fmt.Fprintln(out)

	if recs := Recommendations(run); len(recs) > 0 {
		fmt.Fprintf(out, "%s  Recommendations%s\n", colorSection, colorReset)
		fmt.Fprintf(out, "  %s\n", thin)
		for _, r := range recs {
			fmt.Fprintf(out, "  %s•%s %s\n", colorWarn, colorReset, r.Detail)
			if r.File != "" {
				fmt.Fprintf(out, "    -> %s\n", r.File)
			}
		}
		fmt.Fprintln(out)
	}

	if len(files) > 0 {
		fmt.Fprintf(out, "%s  Output files%s\n", colorSection, colorReset)
		fmt.Fprintf(out, "  %s\n", thin)
		for i, f := range files {
			fmt.Fprintf(out, "  %s%d.%s %s\n", colorBold, i+1, colorReset, f)
		}
	}

	fmt.Fprintf(out, "\n%s%s%s\n\n", colorHeader, sep, colorReset)
}

func notZero(n int) string {
	if n > 0 {
		return colorWarn
	}
	return colorGood
}
