package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stylecheck/reconciler/internal/domain"
)

// Reconciler runs one profile end to end:
// load -> clean -> validate unique styles -> join -> statistics -> reports
type Reconciler struct {
	profile      domain.Profile
	loader       domain.DatasetLoader
	cleaner      *Cleaner
	orchestrator *BatchOrchestrator
	insights     *InsightService
	writer       domain.ReportWriter
	logger       *zap.Logger
	now          func() time.Time
}

// NewReconciler wires the pipeline stages together
func NewReconciler(
	profile domain.Profile,
	loader domain.DatasetLoader,
	orchestrator *BatchOrchestrator,
	writer domain.ReportWriter,
	logger *zap.Logger,
) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		profile:      profile,
		loader:       loader,
		cleaner:      NewCleaner(profile, logger),
		orchestrator: orchestrator,
		insights:     NewInsightService(profile),
		writer:       writer,
		logger:       logger,
		now:          time.Now,
	}
}

// Run executes the pipeline. Validation failures are recorded per style and
// never abort the run; only dataset loading and report writing are fatal.
func (r *Reconciler) Run(ctx context.Context) (*domain.RunResult, []string, error) {
	runID := uuid.NewString()
	log := r.logger.With(
		zap.String("run_id", runID),
		zap.String("profile", r.profile.Name),
	)

	rows, err := r.loader.Load(ctx, r.profile)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}
	log.Info("dataset loaded", zap.Int("rows", len(rows)))

	records, cleanStats := r.cleaner.Clean(rows)

	codes := UniqueBaseCodes(records)
	log.Info("validating styles against catalog", zap.Int("unique_styles", len(codes)))
	results := r.orchestrator.ValidateAll(ctx, codes)
	for _, rec := range records {
		rec.Result = results[rec.BaseCode]
	}

	run := &domain.RunResult{
		RunID:       runID,
		GeneratedAt: r.now(),
		Profile:     r.profile,
		Records:     records,
		Insights:    r.insights.Generate(records, cleanStats),
	}
	log.Info("validation complete",
		zap.Int("found", run.Insights.Found),
		zap.Int("not_found", run.Insights.NotFound),
		zap.String("match_rate", run.Insights.MatchRate.StringFixed(1)+"%"),
	)

	files, err := r.writer.Write(ctx, run)
	if err != nil {
		return run, files, fmt.Errorf("write reports: %w", err)
	}
	log.Info("reports written", zap.Strings("files", files))
	return run, files, nil
}
