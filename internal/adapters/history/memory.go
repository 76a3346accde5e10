package history

import (
	"context"
	"sync"

	"github.com/mikey/phish-analyzer/internal/core"
	"go.uber.org/zap"
)

// MemorySink is an in-memory append-only history store. Appends are
// serialized by a mutex so concurrent analyses never interleave records.
type MemorySink struct {
	mu      sync.RWMutex
	results []*core.AnalysisResult
	logger  *zap.Logger
}

// NewMemorySink creates a new in-memory history sink.
func NewMemorySink(logger *zap.Logger) *MemorySink {
	return &MemorySink{
		results: make([]*core.AnalysisResult, 0),
		logger:  logger,
	}
}

// Append records a result. Results are immutable after assembly, so the
// sink stores the pointer directly.
func (s *MemorySink) Append(ctx context.Context, result *core.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = append(s.results, result)
	return nil
}

// LoadAll returns every recorded result in append order.
func (s *MemorySink) LoadAll(ctx context.Context) ([]*core.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.AnalysisResult, len(s.results))
	copy(out, s.results)
	return out, nil
}
