package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/stylecheck/reconciler/internal/domain"
)

// Batch defaults
const (
	DefaultConcurrency = 5
	DefaultGroupPause  = 500 * time.Millisecond
)

// Validator is the per-code operation the orchestrator fans out
type Validator interface {
	Validate(ctx context.Context, code string) *domain.ValidationResult
}

// BatchConfig holds orchestration settings
type BatchConfig struct {
	Concurrency int
	GroupPause  time.Duration
}

// BatchOrchestrator validates many codes in fixed-size concurrent groups
type BatchOrchestrator struct {
	validator   Validator
	concurrency int
	pacer       *rate.Limiter
	logger      *zap.Logger
}

// NewBatchOrchestrator creates an orchestrator. A zero GroupPause disables
// pacing between groups.
func NewBatchOrchestrator(validator Validator, config BatchConfig, logger *zap.Logger) *BatchOrchestrator {
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	o := &BatchOrchestrator{
		validator:   validator,
		concurrency: config.Concurrency,
		logger:      logger,
	}
	if config.GroupPause > 0 {
		o.pacer = rate.NewLimiter(rate.Every(config.GroupPause), 1)
	}
	return o
}

// ValidateAll returns exactly one result per distinct input code. Groups of
// at most Concurrency codes run concurrently; a group finishes before the
// next one starts.
func (o *BatchOrchestrator) ValidateAll(ctx context.Context, codes []string) map[string]*domain.ValidationResult {
	unique := dedupeCodes(codes)
	results := make(map[string]*domain.ValidationResult, len(unique))
	if len(unique) == 0 {
		return results
	}

	batches := partition(unique, o.concurrency)
	var mu sync.Mutex

	for i, batch := range batches {
		if o.pacer != nil {
			// spaces group starts by at least GroupPause
			if err := o.pacer.Wait(ctx); err != nil {
				o.logger.Warn("group pacing interrupted", zap.Error(err))
			}
		}

		o.logger.Info("validating batch",
			zap.Int("batch", i+1),
			zap.Int("batches", len(batches)),
			zap.Int("styles", len(batch)),
		)

		var g errgroup.Group
		for _, code := range batch {
			g.Go(func() error {
				result := o.validator.Validate(ctx, code)
				mu.Lock()
				results[code] = result
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}

	return results
}

// dedupeCodes drops repeated codes while keeping first-seen order
func dedupeCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

// partition splits codes into consecutive groups of at most size
func partition(codes []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(codes); start += size {
		end := min(start+size, len(codes))
		out = append(out, codes[start:end])
	}
	return out
}
