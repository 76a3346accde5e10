package di

import (
	"flag"

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
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Analysis flags
	ModelsDir string
	Model     string
	Policy    string

	// Advisor flags
	AdvisorEnabled bool
	Provider       string
	MaxTokens      int
	Temperature    float64
	TopP           float64
	MaxBodySize    int

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Input flags
	InputFile  string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Analysis flags
	flag.StringVar(&flags.ModelsDir, "models-dir", "./models", "Directory containing model artifacts")
	flag.StringVar(&flags.Model, "model", "ensemble", "Model to use (ensemble, lr, rf, dl)")
	flag.StringVar(&flags.Policy, "policy", "threshold-tier", "Decision policy (threshold-tier, fixed-band)")

	// Advisor flags
	flag.BoolVar(&flags.AdvisorEnabled, "advisor", false, "Enable the LLM advisor second opinion")
	flag.StringVar(&flags.Provider, "provider", "openai", "LLM advisor provider (bedrock, gemini, openai)")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 1000, "Maximum tokens for LLM response")
	flag.Float64Var(&flags.Temperature, "temperature", 0.1, "Temperature for LLM generation")
	flag.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for LLM generation")
	flag.IntVar(&flags.MaxBodySize, "max-body-size", 4096, "Maximum email body size to send to LLM")

	// Bedrock flags
	flag.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	flag.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	flag.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	flag.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	flag.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	flag.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4", "OpenAI model name")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "", "Input email file (use stdin if not specified)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewAdvisorFactory); err != nil {
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

	// Register LLM advisor (nil when disabled)
	if err := container.Provide(func(f *factory.AdvisorFactory) (core.Advisor, error) {
		return f.CreateAdvisor()
	}); err != nil {
		return nil, err
	}

	// Register analysis service with no history sink and no trusted domains
	if err := container.Provide(func(
		msgParser core.MessageParser,
		normalizer core.TextNormalizer,
		extractor core.FeatureExtractor,
		detector core.RiskDetector,
		engine core.PredictionEngine,
		policy core.DecisionPolicy,
		advisor core.Advisor,
		logger *zap.Logger,
	) *core.AnalysisService {
		return core.NewAnalysisService(
			msgParser,
			normalizer,
			extractor,
			detector,
			engine,
			policy,
			nil, // No history for CLI
			advisor,
			nil, // No trusted domain bypass for CLI
			logger,
		)
	}); err != nil {
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

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set some cli specific settings
	v.Set("server.ingest_type", "cli")
	v.Set("cli.verbose", flags.Verbose)

	// Set analysis configuration
	v.Set("analysis.models_dir", flags.ModelsDir)
	v.Set("analysis.default_model", flags.Model)
	v.Set("analysis.policy", flags.Policy)

	// Set advisor configuration
	v.Set("advisor.enabled", flags.AdvisorEnabled)
	v.Set("advisor.provider", flags.Provider)

	// Set provider-specific configuration
	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
		v.Set("bedrock.max_body_size", flags.MaxBodySize)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
		v.Set("gemini.max_body_size", flags.MaxBodySize)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
		v.Set("openai.max_body_size", flags.MaxBodySize)
	}

	return config.NewFromViper(v)
}
