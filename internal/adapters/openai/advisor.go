package openai

import (
	"context"
	"fmt"

	"github.com/mikey/phish-analyzer/internal/adapters/advisorutil"
	"github.com/mikey/phish-analyzer/internal/core"
	"github.com/mikey/phish-analyzer/internal/textproc"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Advisor is an OpenAI-backed second opinion on a parsed message.
type Advisor struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	maxBodySize int
	logger      *zap.Logger
	processor   *textproc.Processor
}

// NewAdvisor creates a new OpenAI advisor.
func NewAdvisor(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	processor *textproc.Processor,
) *Advisor {
	return &Advisor{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		maxBodySize: maxBodySize,
		logger:      logger,
		processor:   processor,
	}
}

// AssessMessage asks the model for a phishing probability and rationale.
func (a *Advisor) AssessMessage(ctx context.Context, msg *core.ParsedMessage) (float64, string, error) {
	body := a.processor.ProcessText(msg.BodyText, a.maxBodySize)
	prompt := advisorutil.FormatPrompt(msg, body)

	req := openai.ChatCompletionRequest{
		Model: a.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a phishing detection system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
		TopP:        a.topP,
	}
	responseFormat := openai.ChatCompletionResponseFormat{
		Type: "json",
	}
	req.ResponseFormat = &responseFormat

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return 0, "", fmt.Errorf("empty response from OpenAI")
	}

	assessment, err := advisorutil.ParseAssessment(resp.Choices[0].Message.Content)
	if err != nil {
		return 0, "", err
	}

	return assessment.Probability, assessment.Rationale, nil
}
