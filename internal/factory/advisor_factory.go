package factory

import (
	"fmt"

	"github.com/mikey/phish-analyzer/internal/adapters/bedrock"
	"github.com/mikey/phish-analyzer/internal/adapters/gemini"
	"github.com/mikey/phish-analyzer/internal/adapters/openai"
	"github.com/mikey/phish-analyzer/internal/config"
	"github.com/mikey/phish-analyzer/internal/core"
	"github.com/mikey/phish-analyzer/internal/textproc"
	"go.uber.org/zap"
)

// AdvisorFactory creates LLM advisors
type AdvisorFactory struct {
	cfg       *config.Config
	logger    *zap.Logger
	processor *textproc.Processor
}

// NewAdvisorFactory creates a new advisor factory
func NewAdvisorFactory(cfg *config.Config, logger *zap.Logger, processor *textproc.Processor) *AdvisorFactory {
	return &AdvisorFactory{
		cfg:       cfg,
		logger:    logger,
		processor: processor,
	}
}

// CreateAdvisor creates a new LLM advisor based on the configuration.
// Returns nil when the advisor is disabled.
func (f *AdvisorFactory) CreateAdvisor() (core.Advisor, error) {
	advisorCfg := f.cfg.GetAdvisor()
	if !advisorCfg.Enabled {
		return nil, nil
	}

	switch advisorCfg.Provider {
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger, f.processor)
		return factory.CreateAdvisor()
	case "gemini":
		factory := gemini.NewFactory(f.cfg, f.logger, f.processor)
		return factory.CreateAdvisor()
	case "openai":
		factory := openai.NewFactory(f.cfg, f.logger, f.processor)
		return factory.CreateAdvisor()
	default:
		return nil, fmt.Errorf("unsupported advisor provider: %s", advisorCfg.Provider)
	}
}
