package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylecheck/reconciler/internal/domain"
)

func testRun(t *testing.T, profileName string) *domain.RunResult {
	t.Helper()
	profile, err := domain.LookupProfile(profileName)
	require.NoError(t, err)

	c112 := &domain.ValidationResult{Code: "C112", Kind: domain.KindFound, Exists: true, Title: "Snapback Trucker Cap", Status: "Active"}
	pc54 := &domain.ValidationResult{Code: "PC54", Kind: domain.KindFound, Exists: true, IsNew: true, IsBestSeller: true, Title: "Core Cotton Tee", Status: "Active"}
	missing := domain.FailureResult("UNKNOWN99", domain.KindHTTPError, domain.StatusError, "HTTP 500")

	return &domain.RunResult{
		RunID:       "run-1",
		GeneratedAt: time.Date(2025, 1, 27, 10, 30, 0, 0, time.UTC),
		Profile:     profile,
		Records: []*domain.Record{
			{Original: "C112_OSFA", BaseCode: "C112", VariantSuffix: "OSFA", Description: "Snapback Trucker Cap", GroupingKey: "Cap Order", DecorationMethod: "caps", Vendor: "Port Authority", Result: c112},
			{Original: "C112_OSFA", BaseCode: "C112", VariantSuffix: "OSFA", Description: "Snapback Trucker Cap", GroupingKey: "Custom Embroidery", DecorationMethod: "embroidery", Vendor: "Port Authority", Result: c112},
			{Original: "PC54", BaseCode: "PC54", Description: "Core Cotton Tee", GroupingKey: "Screenprinting", DecorationMethod: "screenprint", Vendor: "Port & Company", Result: pc54},
			{Original: "UNKNOWN99", BaseCode: "UNKNOWN99", Description: "Mystery, item", GroupingKey: "Screenprinting", DecorationMethod: "screenprint", Vendor: "Unknown", Result: missing},
		},
		Insights: &domain.Insights{
			TotalOriginal: 5, TotalCleaned: 4, DuplicatesRemoved: 1, UniqueStyles: 3,
			Found: 3, NotFound: 1, MatchRate: decimal.NewFromFloat(75), AlreadyFlagged: 1, NeedFlag: 2,
			ByVendor:         map[string]int{"Port Authority": 2, "Port & Company": 1, "Unknown": 1},
			ByCategory:       map[string]int{"Cap Order": 1, "Custom Embroidery": 1, "Screenprinting": 2},
			ByDecoration:     map[string]int{"caps": 1, "embroidery": 1, "screenprint": 2},
			FoundByVendor:    map[string]int{"Port Authority": 2, "Port & Company": 1},
			NotFoundByVendor: map[string]int{"Unknown": 1},
		},
	}
}

func TestNamesFor(t *testing.T) {
	profile, err := domain.LookupProfile("new-products")
	require.NoError(t, err)

	names := NamesFor(profile)

	assert.Equal(t, "cleaned_new_products.csv", names.Cleaned)
	assert.Equal(t, "new_products_not_found.csv", names.NotFound)
	assert.Equal(t, "new_products_need_flag.csv", names.NeedFlag)
	assert.Equal(t, "new_products_already_flagged.csv", names.AlreadyFlagged)
	assert.Equal(t, "new_products_validation_report.txt", names.Report)
	assert.Equal(t, "new_products_flag_updates.sql", names.SQL)
}

func TestFileWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	run := testRun(t, "top-sellers")

	files, err := NewFileWriter(dir).Write(context.Background(), run)

	require.NoError(t, err)
	require.Len(t, files, 6)
	for _, f := range files {
		assert.FileExists(t, f)
	}
	assert.Equal(t, filepath.Join(dir, "top_sellers_flag_updates.sql"), files[5])

	data, err := os.ReadFile(filepath.Join(dir, "cleaned_top_sellers.csv"))
	require.NoError(t, err)
	lines, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 5)
	assert.Equal(t, Header(run.Profile), lines[0])
	assert.Equal(t, "Mystery, item", lines[4][3])

	needFlag, err := os.ReadFile(filepath.Join(dir, "top_sellers_need_flag.csv"))
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(needFlag), "\n"))
}

func TestFileWriter_SkipsSQLWhenNothingNeedsFlag(t *testing.T) {
	run := testRun(t, "top-sellers")
	run.Records = run.Records[2:]

	files, err := NewFileWriter(t.TempDir()).Write(context.Background(), run)

	require.NoError(t, err)
	assert.Len(t, files, 5)
	for _, f := range files {
		assert.NotContains(t, f, ".sql")
	}
}

func TestFileWriter_UnwritableDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0o644))

	_, err := NewFileWriter(filepath.Join(base, "sub")).Write(context.Background(), testRun(t, "top-sellers"))

	assert.ErrorIs(t, err, domain.ErrReportWrite)
}

func TestFileWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files, err := NewFileWriter(t.TempDir()).Write(ctx, testRun(t, "top-sellers"))

	assert.Empty(t, files)
	assert.ErrorIs(t, err, domain.ErrReportWrite)
}

func TestHeader(t *testing.T) {
	top, _ := domain.LookupProfile("top-sellers")
	newProducts, _ := domain.LookupProfile("new-products")

	assert.Contains(t, Header(top), "Decoration_Method")
	assert.Contains(t, Header(top), "Order Type")
	assert.NotContains(t, Header(newProducts), "Decoration_Method")
	assert.Contains(t, Header(newProducts), "Category")
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, testRun(t, "top-sellers")))
	out := buf.String()

	assert.Contains(t, out, "TOP SELLERS VALIDATION REPORT")
	assert.Contains(t, out, "Generated: 2025-01-27 10:30:00")
	assert.Contains(t, out, "Run ID: run-1")
	assert.Contains(t, out, "Total Original: 5")
	assert.Contains(t, out, "Match Rate: 75.0%")
	assert.Contains(t, out, "Not Found In Api: 1")
	assert.Contains(t, out, "PRODUCTS BY ORDER TYPE")
	assert.Contains(t, out, "PRODUCTS BY DECORATION METHOD\n"+strings.Repeat("-", 70)+"\nScreenprint: 2\nCaps: 1\nEmbroidery: 1\n")
	assert.Contains(t, out, "PRODUCTS NEEDING BEST SELLERS FLAG")
	assert.Contains(t, out, "Unknown (1 products):")
	assert.Contains(t, out, "  Error: HTTP 500")
	assert.Contains(t, out, "1. UPDATE DATABASE:")
	assert.Contains(t, out, "See: top_sellers_not_found.csv")
}

func TestRenderSQL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSQL(&buf, testRun(t, "top-sellers"), "products"))
	out := buf.String()

	// C112 appears under two groupings but gets one statement
	assert.Equal(t, 1, strings.Count(out, "UPDATE "))
	assert.Contains(t, out, "UPDATE products SET isBestSeller = 1 WHERE STYLE = 'C112';")
	assert.Contains(t, out, "-- run run-1")
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "'PC54'", quote("PC54"))
	assert.Equal(t, "'O''Neil'", quote("O'Neil"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Total Original", Label("total_original"))
	assert.Equal(t, "Match Rate", Label("match_rate"))
}

func TestRecommendations(t *testing.T) {
	run := testRun(t, "new-products")
	run.Insights.Discontinued = 1

	recs := Recommendations(run)

	require.Len(t, recs, 4)
	assert.Equal(t, "UPDATE DATABASE", recs[0].Title)
	assert.Equal(t, "new_products_need_flag.csv", recs[0].File)
	assert.Equal(t, "ADD MISSING PRODUCTS", recs[1].Title)
	assert.Equal(t, "ALREADY CONFIGURED", recs[2].Title)
	assert.Contains(t, recs[2].Detail, "already marked as new")
	assert.Equal(t, "REVIEW DISCONTINUED", recs[3].Title)
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, testRun(t, "top-sellers"), []string{"out/cleaned_top_sellers.csv"})
	out := buf.String()

	assert.Contains(t, out, "TOP SELLERS VALIDATION REPORT")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "out/cleaned_top_sellers.csv")
	assert.Contains(t, out, "products not found in API")
}
