package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/stylecheck/reconciler/internal/domain"
	"github.com/stylecheck/reconciler/internal/infrastructure/catalog"
	"github.com/stylecheck/reconciler/internal/infrastructure/ratelimit"
)

// Retry defaults applied when the config leaves a field at zero
const (
	DefaultMaxRateLimitRetries = 3
	DefaultRateLimitBackoff    = 5 * time.Second
	DefaultMaxTimeoutRetries   = 2
	DefaultTimeoutBackoff      = time.Second
)

// ValidationServiceConfig holds the retry policy and endpoint choice
type ValidationServiceConfig struct {
	Mode                domain.LookupMode
	MaxRateLimitRetries int
	RateLimitBackoff    time.Duration
	MaxTimeoutRetries   int
	TimeoutBackoff      time.Duration
}

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// ValidationService validates base style codes against the catalog with
// caching, rate limiting and bounded retries
type ValidationService struct {
	cache   domain.CacheRepository
	client  domain.CatalogClient
	limiter domain.Admitter
	config  ValidationServiceConfig
	group   singleflight.Group
	sleep   SleepFunc
	logger  *zap.Logger
	fetches atomic.Int64
}

// ValidationOption configures a ValidationService
type ValidationOption func(*ValidationService)

// WithSleep replaces the backoff sleep, mainly for tests
func WithSleep(sleep SleepFunc) ValidationOption {
	return func(s *ValidationService) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// WithValidationLogger sets the service logger
func WithValidationLogger(logger *zap.Logger) ValidationOption {
	return func(s *ValidationService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewValidationService creates a new validation service with dependencies
func NewValidationService(
	cache domain.CacheRepository,
	client domain.CatalogClient,
	limiter domain.Admitter,
	config ValidationServiceConfig,
	opts ...ValidationOption,
) *ValidationService {
	if config.Mode == "" {
		config.Mode = domain.ModeLookup
	}
	if config.MaxRateLimitRetries == 0 {
		config.MaxRateLimitRetries = DefaultMaxRateLimitRetries
	}
	if config.RateLimitBackoff == 0 {
		config.RateLimitBackoff = DefaultRateLimitBackoff
	}
	if config.MaxTimeoutRetries == 0 {
		config.MaxTimeoutRetries = DefaultMaxTimeoutRetries
	}
	if config.TimeoutBackoff == 0 {
		config.TimeoutBackoff = DefaultTimeoutBackoff
	}
	if limiter == nil {
		limiter = ratelimit.NewWindowLimiter(0)
	}

	s := &ValidationService{
		cache:   cache,
		client:  client,
		limiter: limiter,
		config:  config,
		sleep:   ratelimit.Sleep,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate returns the catalog verdict for one base code.
// Flow: check cache -> fetch with retries -> cache -> return.
// It never returns an error; every failure becomes a recorded result.
func (s *ValidationService) Validate(ctx context.Context, code string) *domain.ValidationResult {
	if cached, err := s.cache.Get(ctx, code); err == nil && cached != nil {
		return cached
	}

	// concurrent first requests for one code share a single fetch
	v, _, _ := s.group.Do(code, func() (interface{}, error) {
		if cached, err := s.cache.Get(ctx, code); err == nil && cached != nil {
			return cached, nil
		}

		result := s.fetch(ctx, code)
		if err := s.cache.Set(ctx, code, result); err != nil {
			s.logger.Warn("failed to cache validation result",
				zap.String("style", code),
				zap.Error(err),
			)
		}
		return result, nil
	})
	return v.(*domain.ValidationResult)
}

// Fetches reports how many codes went to the catalog (cache misses)
func (s *ValidationService) Fetches() int64 {
	return s.fetches.Load()
}

// fetch runs the attempt loop for one code
func (s *ValidationService) fetch(ctx context.Context, code string) *domain.ValidationResult {
	s.fetches.Add(1)

	rateLimitRetries, timeoutRetries := 0, 0
	for {
		if err := s.limiter.Admit(ctx); err != nil {
			return domain.FailureResult(code, domain.KindTransportError, domain.StatusError, err.Error())
		}

		result, err := s.lookup(ctx, code)
		if err == nil {
			return result
		}

		var statusErr *domain.HTTPStatusError
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			if rateLimitRetries >= s.config.MaxRateLimitRetries {
				s.logger.Warn("giving up on rate limited style",
					zap.String("style", code),
					zap.Int("retries", rateLimitRetries),
				)
				return domain.FailureResult(code, domain.KindRateLimited, domain.StatusError,
					fmt.Sprintf("rate limited after %d retries", rateLimitRetries))
			}
			rateLimitRetries++
			wait := time.Duration(rateLimitRetries) * s.config.RateLimitBackoff
			s.logger.Info("rate limited, backing off",
				zap.String("style", code),
				zap.Int("attempt", rateLimitRetries),
				zap.Duration("wait", wait),
			)
			if err := s.sleep(ctx, wait); err != nil {
				return domain.FailureResult(code, domain.KindRateLimited, domain.StatusError, err.Error())
			}

		case errors.Is(err, domain.ErrRequestTimeout):
			if timeoutRetries >= s.config.MaxTimeoutRetries {
				s.logger.Warn("giving up on timed out style",
					zap.String("style", code),
					zap.Int("retries", timeoutRetries),
				)
				return domain.FailureResult(code, domain.KindTimeout, domain.StatusTimeout, domain.ErrRequestTimeout.Error())
			}
			timeoutRetries++
			s.logger.Info("request timed out, retrying",
				zap.String("style", code),
				zap.Int("attempt", timeoutRetries),
			)
			if err := s.sleep(ctx, s.config.TimeoutBackoff); err != nil {
				return domain.FailureResult(code, domain.KindTimeout, domain.StatusTimeout, err.Error())
			}

		case errors.As(err, &statusErr):
			s.logger.Warn("catalog returned error status",
				zap.String("style", code),
				zap.Int("status", statusErr.Code),
			)
			return domain.FailureResult(code, domain.KindHTTPError, domain.StatusError, statusErr.Error())

		default:
			s.logger.Warn("catalog request failed",
				zap.String("style", code),
				zap.Error(err),
			)
			return domain.FailureResult(code, domain.KindTransportError, domain.StatusError, err.Error())
		}
	}
}

// lookup issues exactly one catalog request in the configured mode
func (s *ValidationService) lookup(ctx context.Context, code string) (*domain.ValidationResult, error) {
	if s.config.Mode == domain.ModeSearch {
		resp, err := s.client.SearchProducts(ctx, code)
		if err != nil {
			return nil, err
		}
		return catalog.MapSearch(code, resp), nil
	}

	variants, err := s.client.ProductDetails(ctx, code)
	if err != nil {
		return nil, err
	}
	return catalog.MapVariants(code, variants), nil
}
