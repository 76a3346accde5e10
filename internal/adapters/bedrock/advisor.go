package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/phish-analyzer/internal/adapters/advisorutil"
	"github.com/mikey/phish-analyzer/internal/core"
	"github.com/mikey/phish-analyzer/internal/textproc"
	"go.uber.org/zap"
)

// Advisor is an Amazon Bedrock-backed second opinion on a parsed
// message.
type Advisor struct {
	client      *bedrockruntime.Client
	modelID     string
	maxTokens   int
	temperature float32
	topP        float32
	maxBodySize int
	logger      *zap.Logger
	processor   *textproc.Processor
}

// NewAdvisor creates a new Bedrock advisor.
func NewAdvisor(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	processor *textproc.Processor,
) *Advisor {
	return &Advisor{
		client:      client,
		modelID:     modelID,
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

	var payload []byte
	var err error

	if a.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               prompt,
			"max_tokens_to_sample": a.maxTokens,
			"temperature":          a.temperature,
			"top_p":                a.topP,
		})
	} else if a.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": a.maxTokens,
				"temperature":   a.temperature,
				"topP":          a.topP,
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  a.maxTokens,
			"temperature": a.temperature,
			"top_p":       a.topP,
		})
	}
	if err != nil {
		return 0, "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := a.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &a.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	responseText, err := a.extractResponseText(resp.Body)
	if err != nil {
		return 0, "", err
	}

	assessment, err := advisorutil.ParseAssessment(responseText)
	if err != nil {
		return 0, "", err
	}

	return assessment.Probability, assessment.Rationale, nil
}

// extractResponseText pulls the generated text out of the
// model-family-specific response envelope.
func (a *Advisor) extractResponseText(body []byte) (string, error) {
	if a.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	}

	if a.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	}

	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
	}
	switch {
	case genericResp.Output != "":
		return genericResp.Output, nil
	case genericResp.Text != "":
		return genericResp.Text, nil
	case genericResp.Response != "":
		return genericResp.Response, nil
	default:
		return string(body), nil
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (a *Advisor) isAnthropicModel() bool {
	return strings.HasPrefix(a.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (a *Advisor) isAmazonTitanModel() bool {
	return strings.HasPrefix(a.modelID, "amazon.titan")
}
