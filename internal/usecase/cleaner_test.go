package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylecheck/reconciler/internal/domain"
)

func mustProfile(t *testing.T, name string) domain.Profile {
	t.Helper()
	p, err := domain.LookupProfile(name)
	require.NoError(t, err)
	return p
}

func TestCleaner_Clean(t *testing.T) {
	cleaner := NewCleaner(mustProfile(t, "new-products"), nil)

	rows := []domain.Row{
		{Identifier: "C112_OSFA", Description: "Port Authority  Snapback Cap", GroupingKey: "Caps"},
		{Identifier: "C112_S/M", Description: "Port Authority Snapback Cap", GroupingKey: "Caps"},
		{Identifier: "C112", Description: "Port Authority Snapback Cap", GroupingKey: "Headwear"},
		{Identifier: "  ", Description: "blank style", GroupingKey: "Caps"},
		{Identifier: " EB120 ", Description: "Eddie Bauer 1/4-Zip", GroupingKey: " Outerwear "},
	}

	records, stats := cleaner.Clean(rows)

	require.Len(t, records, 3)
	assert.Equal(t, CleanStats{TotalOriginal: 5, Dropped: 1, DuplicatesRemoved: 1, TotalCleaned: 3}, stats)

	first := records[0]
	assert.Equal(t, "C112_OSFA", first.Original)
	assert.Equal(t, "C112", first.BaseCode)
	assert.Equal(t, "OSFA", first.VariantSuffix)
	assert.Equal(t, "Port Authority", first.Vendor)
	assert.Equal(t, "Port Authority Snapback Cap", first.Description)
	assert.Nil(t, first.Result)

	// same base code under another grouping is kept
	assert.Equal(t, "Headwear", records[1].GroupingKey)

	assert.Equal(t, "EB120", records[2].BaseCode)
	assert.Equal(t, "Outerwear", records[2].GroupingKey)
	assert.Equal(t, "Eddie Bauer", records[2].Vendor)
}

func TestCleaner_KeepsFirstOccurrence(t *testing.T) {
	cleaner := NewCleaner(mustProfile(t, "new-products"), nil)

	records, _ := cleaner.Clean([]domain.Row{
		{Identifier: "PC54_S", Description: "first", GroupingKey: "T-Shirts"},
		{Identifier: "PC54_XL", Description: "second", GroupingKey: "T-Shirts"},
	})

	require.Len(t, records, 1)
	assert.Equal(t, "first", records[0].Description)
	assert.Equal(t, "PC54_S", records[0].Original)
}

func TestCleaner_DecorationMethod(t *testing.T) {
	cleaner := NewCleaner(mustProfile(t, "top-sellers"), nil)

	records, _ := cleaner.Clean([]domain.Row{
		{Identifier: "PC54", GroupingKey: "Screenprinting"},
		{Identifier: "J317", GroupingKey: "Custom Embroidery"},
		{Identifier: "C112", GroupingKey: "Cap Order"},
		{Identifier: "ST350", GroupingKey: "Transfers"},
	})

	require.Len(t, records, 4)
	assert.Equal(t, "screenprint", records[0].DecorationMethod)
	assert.Equal(t, "embroidery", records[1].DecorationMethod)
	assert.Equal(t, "caps", records[2].DecorationMethod)
	assert.Empty(t, records[3].DecorationMethod)
}

func TestCleaner_InvalidRow(t *testing.T) {
	cleaner := NewCleaner(mustProfile(t, "new-products"), nil)

	_, _, err := cleaner.parseRow(domain.Row{Description: "no style"})
	assert.ErrorIs(t, err, domain.ErrInvalidRow)

	_, _, err = cleaner.parseRow(domain.Row{Identifier: "_OSFA"})
	assert.ErrorIs(t, err, domain.ErrInvalidRow)
}

func TestCleaner_DropsSuffixOnlyIdentifiers(t *testing.T) {
	cleaner := NewCleaner(mustProfile(t, "new-products"), nil)

	records, stats := cleaner.Clean([]domain.Row{
		{Identifier: "_OSFA", GroupingKey: "Caps"},
		{Identifier: " _ ", GroupingKey: "Caps"},
		{Identifier: "C112_OSFA", GroupingKey: "Caps"},
	})

	require.Len(t, records, 1)
	assert.Equal(t, CleanStats{TotalOriginal: 3, Dropped: 2, TotalCleaned: 1}, stats)
	assert.Equal(t, []string{"C112"}, UniqueBaseCodes(records))
}

func TestUniqueBaseCodes(t *testing.T) {
	records := []*domain.Record{
		{BaseCode: "C112"}, {BaseCode: "PC54"}, {BaseCode: "C112"}, {BaseCode: "EB120"},
	}

	assert.Equal(t, []string{"C112", "PC54", "EB120"}, UniqueBaseCodes(records))
}
