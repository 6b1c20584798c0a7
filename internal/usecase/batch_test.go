package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylecheck/reconciler/internal/domain"
)

// trackingValidator records concurrency and call order
type trackingValidator struct {
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	delay       time.Duration

	mu    sync.Mutex
	calls []string
}

func (v *trackingValidator) Validate(ctx context.Context, code string) *domain.ValidationResult {
	n := v.inFlight.Add(1)
	for {
		m := v.maxInFlight.Load()
		if n <= m || v.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(v.delay)
	v.inFlight.Add(-1)

	v.mu.Lock()
	v.calls = append(v.calls, code)
	v.mu.Unlock()

	if code == "UNKNOWN99" {
		return domain.NotFoundResult(code, "")
	}
	return &domain.ValidationResult{Code: code, Kind: domain.KindFound, Exists: true, Status: "Active"}
}

func TestNewBatchOrchestrator_Defaults(t *testing.T) {
	o := NewBatchOrchestrator(&trackingValidator{}, BatchConfig{}, nil)

	assert.Equal(t, DefaultConcurrency, o.concurrency)
	assert.Nil(t, o.pacer)
	assert.NotNil(t, o.logger)
}

func TestValidateAll_OneResultPerCode(t *testing.T) {
	v := &trackingValidator{}
	o := NewBatchOrchestrator(v, BatchConfig{Concurrency: 2}, nil)

	results := o.ValidateAll(context.Background(), []string{"C112", "UNKNOWN99", "C112", "PC54", "PC54"})

	require.Len(t, results, 3)
	assert.True(t, results["C112"].Exists)
	assert.False(t, results["UNKNOWN99"].Exists)
	assert.True(t, results["PC54"].Exists)
	assert.Len(t, v.calls, 3, "duplicates collapse before validation")
}

func TestValidateAll_Empty(t *testing.T) {
	o := NewBatchOrchestrator(&trackingValidator{}, BatchConfig{}, nil)

	results := o.ValidateAll(context.Background(), nil)

	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestValidateAll_BoundedConcurrency(t *testing.T) {
	v := &trackingValidator{delay: 10 * time.Millisecond}
	o := NewBatchOrchestrator(v, BatchConfig{Concurrency: 3}, nil)

	codes := make([]string, 10)
	for i := range codes {
		codes[i] = fmt.Sprintf("PC%d", i)
	}

	results := o.ValidateAll(context.Background(), codes)

	assert.Len(t, results, 10)
	assert.LessOrEqual(t, v.maxInFlight.Load(), int32(3))
	assert.Greater(t, v.maxInFlight.Load(), int32(1))
}

func TestValidateAll_GroupsRunInOrder(t *testing.T) {
	v := &trackingValidator{delay: 5 * time.Millisecond}
	o := NewBatchOrchestrator(v, BatchConfig{Concurrency: 2}, nil)

	o.ValidateAll(context.Background(), []string{"A1", "A2", "B1", "B2", "C1"})

	require.Len(t, v.calls, 5)
	assert.ElementsMatch(t, []string{"A1", "A2"}, v.calls[:2])
	assert.ElementsMatch(t, []string{"B1", "B2"}, v.calls[2:4])
	assert.Equal(t, "C1", v.calls[4])
}

func TestValidateAll_GroupPause(t *testing.T) {
	v := &trackingValidator{}
	o := NewBatchOrchestrator(v, BatchConfig{Concurrency: 1, GroupPause: 30 * time.Millisecond}, nil)

	start := time.Now()
	o.ValidateAll(context.Background(), []string{"A", "B", "C"})

	// three group starts need two pauses
	assert.GreaterOrEqual(t, time.Since(start), 55*time.Millisecond)
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name  string
		codes []string
		size  int
		want  [][]string
	}{
		{"exact", []string{"a", "b", "c", "d"}, 2, [][]string{{"a", "b"}, {"c", "d"}}},
		{"remainder", []string{"a", "b", "c"}, 2, [][]string{{"a", "b"}, {"c"}}},
		{"larger than input", []string{"a"}, 5, [][]string{{"a"}}},
		{"empty", nil, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, partition(tt.codes, tt.size))
		})
	}
}
