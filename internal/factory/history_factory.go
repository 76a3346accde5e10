package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/phish-analyzer/internal/adapters/history"
	"github.com/mikey/phish-analyzer/internal/config"
	"github.com/mikey/phish-analyzer/internal/core"
	"go.uber.org/zap"
)

// HistoryFactory creates history sinks based on configuration
type HistoryFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewHistoryFactory creates a new history factory
func NewHistoryFactory(cfg *config.Config, logger *zap.Logger) *HistoryFactory {
	return &HistoryFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateHistorySink creates a history sink based on the configuration
func (f *HistoryFactory) CreateHistorySink() (core.HistorySink, error) {
	historyCfg := f.cfg.GetHistory()

	switch historyCfg.Type {
	case "memory":
		return history.NewMemorySink(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(historyCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return history.NewSQLiteSink(historyCfg.SQLitePath, f.logger)
	case "mysql":
		return history.NewMySQLSink(historyCfg.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported history type: %s", historyCfg.Type)
	}
}
