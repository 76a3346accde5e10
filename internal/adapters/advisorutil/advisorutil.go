// Package advisorutil holds the prompt and response handling shared by
// the LLM advisor providers.
package advisorutil

import (
	"encoding/json"
	"fmt"

	"github.com/mikey/phish-analyzer/internal/core"
)

// Assessment is the structured response expected from an advisor model.
type Assessment struct {
	Probability float64 `json:"probability"`
	Rationale   string  `json:"rationale"`
}

const promptFormat = `You are a phishing detection system. Analyze the following email and estimate the probability that it is a phishing attempt.
Respond with a JSON object containing:
- probability: number between 0 and 1 (higher means more likely phishing)
- rationale: string (brief explanation of the assessment)

Email:
From: %s
To: %s
Subject: %s
Body:
%s

Respond only with the JSON object and nothing else.`

// FormatPrompt renders the assessment prompt for a message whose body
// has already been truncated and sanitized.
func FormatPrompt(msg *core.ParsedMessage, body string) string {
	return fmt.Sprintf(promptFormat, msg.Sender, msg.Recipient, msg.Subject, body)
}

// ParseAssessment decodes the model's JSON response, tolerating
// surrounding prose by extracting the outermost JSON object.
func ParseAssessment(responseText string) (*Assessment, error) {
	var assessment Assessment
	if err := json.Unmarshal([]byte(responseText), &assessment); err == nil {
		return clamp(&assessment), nil
	}

	jsonStart := -1
	jsonEnd := -1
	for i := 0; i < len(responseText); i++ {
		if responseText[i] == '{' {
			jsonStart = i
			break
		}
	}
	for i := len(responseText) - 1; i >= 0; i-- {
		if responseText[i] == '}' {
			jsonEnd = i + 1
			break
		}
	}
	if jsonStart < 0 || jsonStart >= jsonEnd {
		return nil, fmt.Errorf("failed to extract JSON from advisor response")
	}

	if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd]), &assessment); err != nil {
		return nil, fmt.Errorf("failed to parse advisor response as JSON: %w", err)
	}
	return clamp(&assessment), nil
}

func clamp(a *Assessment) *Assessment {
	if a.Probability < 0 {
		a.Probability = 0
	}
	if a.Probability > 1 {
		a.Probability = 1
	}
	return a
}
