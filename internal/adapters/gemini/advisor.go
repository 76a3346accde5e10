package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/phish-analyzer/internal/adapters/advisorutil"
	"github.com/mikey/phish-analyzer/internal/core"
	"github.com/mikey/phish-analyzer/internal/textproc"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Advisor is a Google Gemini-backed second opinion on a parsed message.
type Advisor struct {
	client      *genai.Client
	model       *genai.GenerativeModel
	modelName   string
	maxBodySize int
	logger      *zap.Logger
	processor   *textproc.Processor
}

// NewAdvisor creates a new Gemini advisor.
func NewAdvisor(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	processor *textproc.Processor,
) (*Advisor, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &Advisor{
		client:      client,
		model:       model,
		modelName:   modelName,
		maxBodySize: maxBodySize,
		logger:      logger,
		processor:   processor,
	}, nil
}

// Close closes the Gemini client.
func (a *Advisor) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

// AssessMessage asks the model for a phishing probability and rationale.
func (a *Advisor) AssessMessage(ctx context.Context, msg *core.ParsedMessage) (float64, string, error) {
	body := a.processor.ProcessText(msg.BodyText, a.maxBodySize)
	prompt := advisorutil.FormatPrompt(msg, body)

	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return 0, "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return 0, "", fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	assessment, err := advisorutil.ParseAssessment(responseText)
	if err != nil {
		return 0, "", err
	}

	return assessment.Probability, assessment.Rationale, nil
}
