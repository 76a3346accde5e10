package report

import (
	"strings"
	"testing"
	"time"

	"github.com/mikey/phish-analyzer/internal/core"
)

func sampleResult() *core.AnalysisResult {
	return &core.AnalysisResult{
		Source:     "test.eml",
		AnalyzedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Message: core.ParsedMessage{
			Sender:    "phisher@evil.example",
			Recipient: "victim@example.com",
			Subject:   "Verify your account",
			Date:      "Mon, 02 Jun 2025 10:00:00 +0000",
		},
		Features: core.FeatureVector{
			core.FeatureTextLength:          120,
			core.FeatureWordCount:           20,
			core.FeatureSuspiciousWordCount: 4,
			core.FeatureURLCount:            3,
			core.FeatureHTTPSURLCount:       1,
			core.FeatureSPFPresent:          0,
			core.FeatureDKIMPresent:         1,
		},
		Confidence: 0.87,
		Classification: core.Classification{
			Label:          core.LabelPhishing,
			Level:          core.LevelHigh,
			Action:         core.ActionQuarantine,
			Recommendation: "Threat detected: PHISHING",
		},
		Findings: []core.RiskFinding{
			{
				Type:           core.FindingSPFMissing,
				Severity:       core.SeverityHigh,
				Description:    "No SPF verification detected",
				Recommendation: "Sender address may be spoofed",
			},
		},
		ModelUsed: "ensemble",
	}
}

func TestFormatTextSectionOrder(t *testing.T) {
	out := FormatText(sampleResult())

	sections := []string{
		"EMAIL SECURITY ANALYSIS REPORT",
		"EMAIL INFORMATION",
		"CLASSIFICATION",
		"DETECTED RISKS (1)",
		"TECHNICAL FEATURES",
		"Report generated by phish-analyzer",
	}

	last := -1
	for _, section := range sections {
		idx := strings.Index(out, section)
		if idx < 0 {
			t.Fatalf("section %q missing from report:\n%s", section, out)
		}
		if idx <= last {
			t.Errorf("section %q out of order", section)
		}
		last = idx
	}
}

func TestFormatTextContent(t *testing.T) {
	out := FormatText(sampleResult())

	for _, want := range []string{
		"From     : phisher@evil.example",
		"Subject  : Verify your account",
		"Label          : PHISHING",
		"Confidence     : 87.00%",
		"Action         : QUARANTINE",
		"1. [HIGH] SPF_MISSING",
		"Suspicious keywords  : 4",
		"SPF present          : no",
		"DKIM present         : yes",
		"model: ensemble",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatTextNoFindings(t *testing.T) {
	r := sampleResult()
	r.Findings = nil
	out := FormatText(r)

	if !strings.Contains(out, "DETECTED RISKS (0)") {
		t.Error("finding count not rendered")
	}
	if !strings.Contains(out, "No specific risks detected") {
		t.Error("empty findings placeholder missing")
	}
}
