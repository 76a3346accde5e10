package advisorutil

import (
	"strings"
	"testing"

	"github.com/mikey/phish-analyzer/internal/core"
)

func TestFormatPrompt(t *testing.T) {
	msg := &core.ParsedMessage{
		Sender:    "phisher@evil.example",
		Recipient: "victim@example.com",
		Subject:   "Verify now",
	}
	prompt := FormatPrompt(msg, "click the link")

	for _, want := range []string{
		"From: phisher@evil.example",
		"To: victim@example.com",
		"Subject: Verify now",
		"click the link",
		"probability",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestParseAssessment(t *testing.T) {
	a, err := ParseAssessment(`{"probability": 0.85, "rationale": "credential bait"}`)
	if err != nil {
		t.Fatal(err)
	}
	if a.Probability != 0.85 || a.Rationale != "credential bait" {
		t.Errorf("got %+v", a)
	}
}

func TestParseAssessmentWithSurroundingProse(t *testing.T) {
	response := "Sure, here is my assessment:\n{\"probability\": 0.4, \"rationale\": \"some signals\"}\nLet me know if you need more."
	a, err := ParseAssessment(response)
	if err != nil {
		t.Fatal(err)
	}
	if a.Probability != 0.4 {
		t.Errorf("Probability = %f, want 0.4", a.Probability)
	}
}

func TestParseAssessmentClampsProbability(t *testing.T) {
	a, err := ParseAssessment(`{"probability": 1.7, "rationale": "x"}`)
	if err != nil {
		t.Fatal(err)
	}
	if a.Probability != 1 {
		t.Errorf("Probability = %f, want clamped to 1", a.Probability)
	}

	a, err = ParseAssessment(`{"probability": -0.3, "rationale": "x"}`)
	if err != nil {
		t.Fatal(err)
	}
	if a.Probability != 0 {
		t.Errorf("Probability = %f, want clamped to 0", a.Probability)
	}
}

func TestParseAssessmentRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "no json here", "{broken"} {
		if _, err := ParseAssessment(input); err == nil {
			t.Errorf("ParseAssessment(%q) succeeded, want error", input)
		}
	}
}
