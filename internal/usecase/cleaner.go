package usecase

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/stylecheck/reconciler/internal/domain"
)

// CleanStats counts what the cleaner kept and discarded
type CleanStats struct {
	TotalOriginal     int
	Dropped           int
	DuplicatesRemoved int
	TotalCleaned      int
}

// Cleaner turns raw dataset rows into parsed, deduplicated records
type Cleaner struct {
	profile  domain.Profile
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCleaner creates a Cleaner for one profile
func NewCleaner(profile domain.Profile, logger *zap.Logger) *Cleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cleaner{
		profile:  profile,
		validate: validator.New(),
		logger:   logger,
	}
}

// Clean parses every row, drops rows without a base style and removes
// repeated (base code, grouping key) pairs keeping the first occurrence.
func (c *Cleaner) Clean(rows []domain.Row) ([]*domain.Record, CleanStats) {
	stats := CleanStats{TotalOriginal: len(rows)}
	seen := make(map[string]struct{}, len(rows))
	records := make([]*domain.Record, 0, len(rows))

	for i, raw := range rows {
		row := normaliseRow(raw)
		base, suffix, err := c.parseRow(row)
		if err != nil {
			c.logger.Warn("dropping row",
				zap.Int("line", i+2),
				zap.String("description", row.Description),
				zap.Error(err),
			)
			stats.Dropped++
			continue
		}

		key := base + "\x00" + row.GroupingKey
		if _, dup := seen[key]; dup {
			c.logger.Debug("duplicate style skipped",
				zap.String("style", base),
				zap.String("group", row.GroupingKey),
			)
			stats.DuplicatesRemoved++
			continue
		}
		seen[key] = struct{}{}

		records = append(records, &domain.Record{
			Original:         row.Identifier,
			Description:      row.Description,
			GroupingKey:      row.GroupingKey,
			BaseCode:         base,
			VariantSuffix:    suffix,
			Vendor:           DetectVendor(base),
			DecorationMethod: c.profile.DecorationMethods[row.GroupingKey],
		})
	}

	stats.TotalCleaned = len(records)
	c.logger.Info("cleaned dataset",
		zap.Int("original", stats.TotalOriginal),
		zap.Int("cleaned", stats.TotalCleaned),
		zap.Int("duplicates", stats.DuplicatesRemoved),
		zap.Int("dropped", stats.Dropped),
	)
	return records, stats
}

// parseRow validates a normalised row and splits its identifier.
// An identifier that is only a suffix ("_OSFA") has no base style to look up.
func (c *Cleaner) parseRow(row domain.Row) (base, suffix string, err error) {
	if err := c.validate.Struct(row); err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrInvalidRow, err)
	}
	base, suffix = SplitStyle(row.Identifier)
	if base == "" {
		return "", "", fmt.Errorf("%w: no base style in %q", domain.ErrInvalidRow, row.Identifier)
	}
	return base, suffix, nil
}

// UniqueBaseCodes lists each base code once, in first-seen order
func UniqueBaseCodes(records []*domain.Record) []string {
	codes := make([]string, 0, len(records))
	for _, rec := range records {
		codes = append(codes, rec.BaseCode)
	}
	return dedupeCodes(codes)
}

func normaliseRow(r domain.Row) domain.Row {
	return domain.Row{
		Identifier:  strings.TrimSpace(r.Identifier),
		Description: strings.Join(strings.Fields(r.Description), " "),
		GroupingKey: strings.TrimSpace(r.GroupingKey),
	}
}
