package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	historystats "github.com/mikey/phish-analyzer/internal/adapters/history"
	"github.com/mikey/phish-analyzer/internal/core"
	"github.com/mikey/phish-analyzer/internal/di"
	"github.com/mikey/phish-analyzer/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	ingest ports.MessageIngest,
	advisor core.Advisor,
	history core.HistorySink,
) error {
	defer logger.Sync()

	// Start the ingest
	if err := ingest.Start(); err != nil {
		logger.Fatal("Failed to start ingest", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the ingest
	if err := ingest.Stop(); err != nil {
		logger.Error("Failed to stop ingest", zap.Error(err))
	}

	// Log a usage summary before releasing the history sink
	if history != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if stats, err := historystats.ComputeStats(ctx, history); err != nil {
			logger.Warn("Failed to compute history statistics", zap.Error(err))
		} else if stats.TotalAnalyzed > 0 {
			logger.Info("Session statistics",
				zap.Int("total_analyzed", stats.TotalAnalyzed),
				zap.Int("phishing_detected", stats.PhishingDetected),
				zap.Float64("detection_rate_pct", stats.DetectionRate),
				zap.Float64("avg_confidence", stats.AvgConfidence))
		}
		cancel()
	}

	// Close any resources that need closing
	if closer, ok := advisor.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close advisor", zap.Error(err))
		}
	}
	if closer, ok := history.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close history sink", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
