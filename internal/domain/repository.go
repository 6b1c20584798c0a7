package domain

import "context"

// CacheRepository stores validation results by base code for one run
type CacheRepository interface {
	Get(ctx context.Context, code string) (*ValidationResult, error)
	Set(ctx context.Context, code string, result *ValidationResult) error
	Delete(ctx context.Context, code string) error
	Exists(ctx context.Context, code string) (bool, error)
}

// CatalogClient issues single catalog requests. Implementations do not retry;
// failures come back wrapped in ErrRateLimited, ErrRequestTimeout,
// ErrHTTPStatus or ErrTransport.
type CatalogClient interface {
	ProductDetails(ctx context.Context, style string) ([]VariantRecord, error)
	SearchProducts(ctx context.Context, query string) (*SearchResponse, error)
}

// Admitter gates outgoing requests
type Admitter interface {
	Admit(ctx context.Context) error
}

// ReportWriter persists the outcome of a run
type ReportWriter interface {
	Write(ctx context.Context, run *RunResult) ([]string, error)
}

// DatasetLoader reads the input rows for a profile
type DatasetLoader interface {
	Load(ctx context.Context, profile Profile) ([]Row, error)
}
