package dataset

import (
	"context"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/stylecheck/reconciler/internal/domain"
)

//go:embed data/*.csv
var embedded embed.FS

// Column names shared by every dataset
const (
	ColumnStyle       = "Style"
	ColumnDescription = "Description"
)

// Loader reads profile datasets from the embedded copies or, when a path is
// set, from an external CSV with the same header.
type Loader struct {
	path   string
	logger *zap.Logger
}

// NewLoader creates a Loader. An empty path selects the embedded dataset.
func NewLoader(path string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{path: path, logger: logger}
}

// Load returns every data row of the profile's dataset in file order
func (l *Loader) Load(ctx context.Context, profile domain.Profile) ([]domain.Row, error) {
	r, source, err := l.open(profile)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	rows, err := Parse(r, profile.GroupingColumn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDatasetLoad, source, err)
	}

	l.logger.Info("loaded dataset",
		zap.String("source", source),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

func (l *Loader) open(profile domain.Profile) (io.ReadCloser, string, error) {
	if l.path != "" {
		f, err := os.Open(l.path)
		if err != nil {
			return nil, l.path, fmt.Errorf("%w: %v", domain.ErrDatasetLoad, err)
		}
		return f, l.path, nil
	}

	name := "data/" + profile.Dataset
	f, err := embedded.Open(name)
	if err != nil {
		return nil, name, fmt.Errorf("%w: no embedded dataset for profile %q: %v", domain.ErrDatasetLoad, profile.Name, err)
	}
	return f, "embedded:" + profile.Dataset, nil
}

// Parse reads a headed CSV into rows. The grouping column is optional;
// the Style column is required.
func Parse(r io.Reader, groupingColumn string) ([]domain.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty dataset")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	styleCol, ok := index[ColumnStyle]
	if !ok {
		return nil, fmt.Errorf("missing %q column", ColumnStyle)
	}

	field := func(record []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []domain.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if styleCol >= len(record) {
			record = append(record, make([]string, styleCol-len(record)+1)...)
		}

		rows = append(rows, domain.Row{
			Identifier:  record[styleCol],
			Description: field(record, ColumnDescription),
			GroupingKey: field(record, groupingColumn),
		})
	}
	return rows, nil
}
