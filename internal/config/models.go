package config

// AnalysisConfig represents the configuration for the analysis pipeline
type AnalysisConfig struct {
	Policy         string
	DefaultModel   string
	TrustedDomains []string
	ModelsDir      string
}

// AdvisorConfig represents the configuration for the optional LLM advisor
type AdvisorConfig struct {
	Enabled  bool
	Provider string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// HistoryConfig represents the configuration for the history sink
type HistoryConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
}

// GetAnalysis returns the analysis configuration
func (c *Config) GetAnalysis() AnalysisConfig {
	return AnalysisConfig{
		Policy:         c.GetString("analysis.policy"),
		DefaultModel:   c.GetString("analysis.default_model"),
		TrustedDomains: c.GetStringSlice("analysis.trusted_domains"),
		ModelsDir:      c.GetString("analysis.models_dir"),
	}
}

// GetAdvisor returns the advisor configuration
func (c *Config) GetAdvisor() AdvisorConfig {
	return AdvisorConfig{
		Enabled:  c.GetBool("advisor.enabled"),
		Provider: c.GetString("advisor.provider"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetHistory returns the history sink configuration
func (c *Config) GetHistory() HistoryConfig {
	return HistoryConfig{
		Type:       c.GetString("history.type"),
		SQLitePath: c.GetString("history.sqlite_path"),
		MySQLDSN:   c.GetString("history.mysql_dsn"),
	}
}
