package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/stylecheck/reconciler/internal/domain"
)

// DefaultSQLTable is the catalog table the flag update script targets
const DefaultSQLTable = "products"

// FileWriter writes a run's CSV subsets, text report and SQL script into a directory
type FileWriter struct {
	dir      string
	sqlTable string
	logger   *zap.Logger
}

// Option configures a FileWriter
type Option func(*FileWriter)

// WithSQLTable sets the table name used in the flag update script
func WithSQLTable(table string) Option {
	return func(w *FileWriter) {
		if table != "" {
			w.sqlTable = table
		}
	}
}

// WithLogger sets the writer logger
func WithLogger(logger *zap.Logger) Option {
	return func(w *FileWriter) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewFileWriter creates a FileWriter rooted at dir
func NewFileWriter(dir string, opts ...Option) *FileWriter {
	if dir == "" {
		dir = "."
	}
	w := &FileWriter{
		dir:      dir,
		sqlTable: DefaultSQLTable,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// FileNames lists the output file names for a profile in write order
type FileNames struct {
	Cleaned        string
	NotFound       string
	NeedFlag       string
	AlreadyFlagged string
	Report         string
	SQL            string
}

// NamesFor derives the output file names from the profile prefix
func NamesFor(profile domain.Profile) FileNames {
	p := profile.OutputPrefix
	return FileNames{
		Cleaned:        "cleaned_" + p + ".csv",
		NotFound:       p + "_not_found.csv",
		NeedFlag:       p + "_need_flag.csv",
		AlreadyFlagged: p + "_already_flagged.csv",
		Report:         p + "_validation_report.txt",
		SQL:            p + "_flag_updates.sql",
	}
}

// Write produces every output file and returns their paths. The SQL script
// is only written when at least one style needs the flag.
func (w *FileWriter) Write(ctx context.Context, run *domain.RunResult) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create output dir: %v", domain.ErrReportWrite, err)
	}

	names := NamesFor(run.Profile)
	needFlag := run.NeedFlag()

	outputs := []output{
		{names.Cleaned, func(out io.Writer) error { return WriteRecordsCSV(out, run.Profile, run.Records) }},
		{names.NotFound, func(out io.Writer) error { return WriteRecordsCSV(out, run.Profile, run.NotFound()) }},
		{names.NeedFlag, func(out io.Writer) error { return WriteRecordsCSV(out, run.Profile, needFlag) }},
		{names.AlreadyFlagged, func(out io.Writer) error { return WriteRecordsCSV(out, run.Profile, run.AlreadyFlagged()) }},
		{names.Report, func(out io.Writer) error { return RenderText(out, run) }},
	}
	if len(needFlag) > 0 {
		outputs = append(outputs, output{names.SQL, func(out io.Writer) error { return RenderSQL(out, run, w.sqlTable) }})
	}

	written := make([]string, 0, len(outputs))
	for _, o := range outputs {
		if err := ctx.Err(); err != nil {
			return written, fmt.Errorf("%w: %v", domain.ErrReportWrite, err)
		}

		path := filepath.Join(w.dir, o.name)
		if err := writeFile(path, o.render); err != nil {
			return written, err
		}
		written = append(written, path)
		w.logger.Info("saved output file", zap.String("path", path))
	}
	return written, nil
}

type output struct {
	name   string
	render func(io.Writer) error
}

// writeFile renders into memory first so a failed render leaves no partial file
func writeFile(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("%w: render %s: %v", domain.ErrReportWrite, filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrReportWrite, err)
	}
	return nil
}
