package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/stylecheck/reconciler/internal/domain"
)

// RenderSQL writes one UPDATE per base style that exists but lacks the flag
func RenderSQL(out io.Writer, run *domain.RunResult, table string) error {
	w := bufio.NewWriter(out)

	var styles []string
	seen := make(map[string]struct{})
	for _, rec := range run.NeedFlag() {
		if _, ok := seen[rec.BaseCode]; ok {
			continue
		}
		seen[rec.BaseCode] = struct{}{}
		styles = append(styles, rec.BaseCode)
	}

	fmt.Fprintf(w, "-- %s: set %s on %d styles\n", run.Profile.Title, run.Profile.Flag, len(styles))
	fmt.Fprintf(w, "-- run %s generated %s\n\n", run.RunID, run.GeneratedAt.Format("2006-01-02 15:04:05"))
	for _, style := range styles {
		fmt.Fprintf(w, "UPDATE %s SET %s = 1 WHERE STYLE = %s;\n", table, run.Profile.Flag, quote(style))
	}
	return w.Flush()
}

// quote renders a SQL string literal
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
