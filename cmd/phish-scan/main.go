package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mikey/phish-analyzer/internal/core"
	"github.com/mikey/phish-analyzer/internal/di"
	"github.com/mikey/phish-analyzer/internal/ports"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the analysis
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Analysis error: %v\n", err)
		os.Exit(1)
	}
}

// run reads one message from the configured input and analyzes it
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	ingest ports.MessageIngest,
	advisor core.Advisor,
) error {
	defer logger.Sync()

	// Read message from file or stdin
	var raw []byte
	var source string
	var err error
	if flags.InputFile != "" {
		raw, err = os.ReadFile(flags.InputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file %s: %w", flags.InputFile, err)
		}
		source = flags.InputFile
		logger.Info("Reading message from file", zap.String("file", flags.InputFile))
	} else {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		source = "stdin"
		logger.Info("Reading message from stdin")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	startTime := time.Now()
	result, err := ingest.ProcessMessage(ctx, raw, source)
	if err != nil {
		return fmt.Errorf("failed to analyze message: %w", err)
	}

	logger.Info("Analysis complete",
		zap.String("label", string(result.Classification.Label)),
		zap.String("action", string(result.Classification.Action)),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("duration", time.Since(startTime)))

	// Close any resources that need closing
	if closer, ok := advisor.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close advisor", zap.Error(err))
		}
	}

	return nil
}
