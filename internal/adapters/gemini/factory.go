package gemini

import (
	"github.com/mikey/phish-analyzer/internal/config"
	"github.com/mikey/phish-analyzer/internal/core"
	"github.com/mikey/phish-analyzer/internal/textproc"
	"go.uber.org/zap"
)

// Factory creates new instances of the Gemini advisor
type Factory struct {
	cfg       *config.Config
	logger    *zap.Logger
	processor *textproc.Processor
}

// NewFactory creates a new factory for Gemini advisors
func NewFactory(cfg *config.Config, logger *zap.Logger, processor *textproc.Processor) *Factory {
	return &Factory{
		cfg:       cfg,
		logger:    logger,
		processor: processor,
	}
}

// CreateAdvisor creates a new Gemini advisor
func (f *Factory) CreateAdvisor() (core.Advisor, error) {
	geminiCfg := f.cfg.GetGemini()

	return NewAdvisor(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		geminiCfg.MaxBodySize,
		f.logger,
		f.processor,
	)
}
