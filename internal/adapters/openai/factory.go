package openai

import (
	"github.com/mikey/phish-analyzer/internal/config"
	"github.com/mikey/phish-analyzer/internal/core"
	"github.com/mikey/phish-analyzer/internal/textproc"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Factory creates new instances of the OpenAI advisor
type Factory struct {
	cfg       *config.Config
	logger    *zap.Logger
	processor *textproc.Processor
}

// NewFactory creates a new factory for OpenAI advisors
func NewFactory(cfg *config.Config, logger *zap.Logger, processor *textproc.Processor) *Factory {
	return &Factory{
		cfg:       cfg,
		logger:    logger,
		processor: processor,
	}
}

// CreateAdvisor creates a new OpenAI advisor
func (f *Factory) CreateAdvisor() (core.Advisor, error) {
	openaiCfg := f.cfg.GetOpenAI()

	client := openai.NewClient(openaiCfg.APIKey)

	return NewAdvisor(
		client,
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		openaiCfg.MaxBodySize,
		f.logger,
		f.processor,
	), nil
}
