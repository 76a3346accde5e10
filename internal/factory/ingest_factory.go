package factory

import (
	"fmt"

	"github.com/mikey/phish-analyzer/internal/adapters/ingest"
	"github.com/mikey/phish-analyzer/internal/config"
	"github.com/mikey/phish-analyzer/internal/core"
	"github.com/mikey/phish-analyzer/internal/ports"
	"go.uber.org/zap"
)

// IngestFactory creates message ingests based on configuration
type IngestFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.AnalysisService
}

// NewIngestFactory creates a new ingest factory
func NewIngestFactory(cfg *config.Config, logger *zap.Logger, service *core.AnalysisService) *IngestFactory {
	return &IngestFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateMessageIngest creates a message ingest based on the configuration
func (f *IngestFactory) CreateMessageIngest() (ports.MessageIngest, error) {
	ingestType := f.cfg.GetString("server.ingest_type")

	switch ingestType {
	case "smtp":
		return ingest.NewSMTPIngest(
			f.service,
			f.logger,
			f.cfg.GetString("server.listen_address"),
			f.cfg.GetBool("server.reject_blocked"),
			f.cfg.GetString("server.headers.label"),
			f.cfg.GetString("server.headers.score"),
			f.cfg.GetString("server.headers.action"),
			f.cfg.GetString("server.relay.address"),
			f.cfg.GetInt("server.relay.port"),
			f.cfg.GetBool("server.relay.enabled"),
			f.cfg.GetString("server.subject_prefix"),
			f.cfg.GetBool("server.modify_subject"),
		), nil
	case "cli":
		return ingest.NewCLIIngest(
			f.service,
			f.logger,
			f.cfg.GetString("analysis.default_model"),
		)
	default:
		return nil, fmt.Errorf("unsupported ingest type: %s", ingestType)
	}
}
