package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phish-analyzer/internal/config"
	"github.com/mikey/phish-analyzer/internal/core"
	"github.com/mikey/phish-analyzer/internal/factory"
	"github.com/mikey/phish-analyzer/internal/features"
	"github.com/mikey/phish-analyzer/internal/logging"
	"github.com/mikey/phish-analyzer/internal/parser"
	"github.com/mikey/phish-analyzer/internal/ports"
	"github.com/mikey/phish-analyzer/internal/risk"
	"github.com/mikey/phish-analyzer/internal/textproc"
	"github.com/mikey/phish-analyzer/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewAdvisorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewHistoryFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewEngineFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewPolicyFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewIngestFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *textproc.Processor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register pipeline stages
	if err := container.Provide(func(logger *zap.Logger) core.MessageParser {
		return parser.NewParser(logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func() core.TextNormalizer {
		return textproc.NewNormalizer()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(logger *zap.Logger) core.FeatureExtractor {
		return features.NewExtractor(logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(logger *zap.Logger) core.RiskDetector {
		return risk.NewDetector(logger)
	}); err != nil {
		return nil, err
	}

	// Register prediction engine
	if err := container.Provide(func(f *factory.EngineFactory) (core.PredictionEngine, error) {
		return f.CreateEngine()
	}); err != nil {
		return nil, err
	}

	// Register decision policy
	if err := container.Provide(func(f *factory.PolicyFactory) (core.DecisionPolicy, error) {
		return f.CreatePolicy()
	}); err != nil {
		return nil, err
	}

	// Register history sink
	if err := container.Provide(func(f *factory.HistoryFactory) (core.HistorySink, error) {
		return f.CreateHistorySink()
	}); err != nil {
		return nil, err
	}

	// Register LLM advisor (nil when disabled)
	if err := container.Provide(func(f *factory.AdvisorFactory) (core.Advisor, error) {
		return f.CreateAdvisor()
	}); err != nil {
		return nil, err
	}

	// Register trusted sender domains
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.TrustChecker {
		trustedDomains := cfg.GetAnalysis().TrustedDomains
		if len(trustedDomains) > 0 {
			logger.Info("Loaded trusted domains", zap.Strings("domains", trustedDomains))
		}
		return whitelist.NewChecker(trustedDomains, logger)
	}); err != nil {
		return nil, err
	}

	// Register analysis service
	if err := container.Provide(core.NewAnalysisService); err != nil {
		return nil, err
	}

	// Register message ingest
	if err := container.Provide(func(f *factory.IngestFactory) (ports.MessageIngest, error) {
		return f.CreateMessageIngest()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
