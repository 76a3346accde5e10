package bedrock

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/phish-analyzer/internal/config"
	"github.com/mikey/phish-analyzer/internal/core"
	"github.com/mikey/phish-analyzer/internal/textproc"
	"go.uber.org/zap"
)

// Factory creates new instances of the Bedrock advisor
type Factory struct {
	cfg       *config.Config
	logger    *zap.Logger
	processor *textproc.Processor
}

// NewFactory creates a new factory for Bedrock advisors
func NewFactory(cfg *config.Config, logger *zap.Logger, processor *textproc.Processor) *Factory {
	return &Factory{
		cfg:       cfg,
		logger:    logger,
		processor: processor,
	}
}

// CreateAdvisor creates a new Bedrock advisor
func (f *Factory) CreateAdvisor() (core.Advisor, error) {
	bedrockCfg := f.cfg.GetBedrock()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(bedrockCfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg)

	return NewAdvisor(
		client,
		bedrockCfg.ModelID,
		bedrockCfg.MaxTokens,
		bedrockCfg.Temperature,
		bedrockCfg.TopP,
		bedrockCfg.MaxBodySize,
		f.logger,
		f.processor,
	), nil
}
