package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/stylecheck/reconciler/internal/domain"
)

// Header returns the CSV columns for a profile's record exports
func Header(profile domain.Profile) []string {
	cols := []string{
		"Style_Original", "Style_Cleaned", "Size_Extracted", "Description",
		profile.GroupingColumn, "Vendor_Detected",
	}
	if len(profile.DecorationMethods) > 0 {
		cols = append(cols, "Decoration_Method")
	}
	return append(cols,
		"API_Exists", "API_IsNew", "API_BestSeller", "API_Title",
		"API_Brand", "API_Category", "API_Status", "API_Error",
	)
}

// WriteRecordsCSV writes the header and one line per record
func WriteRecordsCSV(out io.Writer, profile domain.Profile, records []*domain.Record) error {
	w := csv.NewWriter(out)
	if err := w.Write(Header(profile)); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	withDecoration := len(profile.DecorationMethods) > 0
	for _, rec := range records {
		if err := w.Write(recordRow(rec, withDecoration)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func recordRow(rec *domain.Record, withDecoration bool) []string {
	row := []string{
		rec.Original, rec.BaseCode, rec.VariantSuffix, rec.Description,
		rec.GroupingKey, rec.Vendor,
	}
	if withDecoration {
		row = append(row, rec.DecorationMethod)
	}

	res := rec.Result
	if res == nil {
		res = &domain.ValidationResult{}
	}
	return append(row,
		strconv.FormatBool(res.Exists),
		strconv.FormatBool(res.IsNew),
		strconv.FormatBool(res.IsBestSeller),
		res.Title,
		res.Brand,
		res.Category,
		res.Status,
		res.Error,
	)
}
