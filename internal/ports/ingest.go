package ports

import (
	"context"

	"github.com/mikey/phish-analyzer/internal/core"
)

// MessageIngest defines the interface for a message intake front end.
type MessageIngest interface {
	// ProcessMessage analyzes one raw message and returns the result.
	ProcessMessage(ctx context.Context, raw []byte, source string) (*core.AnalysisResult, error)

	// Start starts the ingest service.
	Start() error

	// Stop stops the ingest service.
	Stop() error
}
