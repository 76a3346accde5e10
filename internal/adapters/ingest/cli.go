package ingest

import (
	"context"
	"fmt"

	"github.com/mikey/phish-analyzer/internal/core"
	"github.com/mikey/phish-analyzer/internal/report"
	"go.uber.org/zap"
)

// CLIIngest analyzes a single message and prints the text report.
type CLIIngest struct {
	service *core.AnalysisService
	logger  *zap.Logger
	modelID string
}

// NewCLIIngest creates a new CLI ingest.
func NewCLIIngest(service *core.AnalysisService, logger *zap.Logger, modelID string) (*CLIIngest, error) {
	return &CLIIngest{
		service: service,
		logger:  logger,
		modelID: modelID,
	}, nil
}

// ProcessMessage analyzes one raw message and prints the report.
func (f *CLIIngest) ProcessMessage(ctx context.Context, raw []byte, source string) (*core.AnalysisResult, error) {
	f.logger.Debug("Analyzing message", zap.String("source", source))

	result, err := f.service.AnalyzeMessage(ctx, raw, source, f.modelID)
	if err != nil {
		return nil, err
	}

	fmt.Print(report.FormatText(result))
	return result, nil
}

// Start is a no-op for the CLI ingest.
func (f *CLIIngest) Start() error {
	return nil
}

// Stop is a no-op for the CLI ingest.
func (f *CLIIngest) Stop() error {
	return nil
}
