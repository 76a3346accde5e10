package classify

import (
	"fmt"

	"github.com/mikey/phish-analyzer/internal/core"
)

// Policy names accepted by NewPolicy.
const (
	PolicyThresholdTier = "threshold-tier"
	PolicyFixedBand     = "fixed-band"
)

// NewPolicy returns the named decision policy. The two policies evolved
// independently and remain selectable so verdicts stay reproducible under
// either operating point.
func NewPolicy(name string) (core.DecisionPolicy, error) {
	switch name {
	case PolicyThresholdTier:
		return &ThresholdTierPolicy{}, nil
	case PolicyFixedBand:
		return &FixedBandPolicy{}, nil
	default:
		return nil, core.NewConfigError("unknown decision policy: %s", name)
	}
}

// ThresholdTierPolicy derives the verdict from the binary decision at
// probability 0.5, picking the threat subtype from the findings on the
// malicious branch and the severity tier from the confidence.
type ThresholdTierPolicy struct{}

// Name identifies the policy.
func (p *ThresholdTierPolicy) Name() string { return PolicyThresholdTier }

// Classify produces the verdict for one analysis.
func (p *ThresholdTierPolicy) Classify(probability float64, features core.FeatureVector, findings []core.RiskFinding) core.Classification {
	if probability <= 0.5 {
		// Legitimate branch: confidence of legitimacy is 1 - probability
		if 1-probability > 0.8 {
			return core.Classification{
				Label:          core.LabelLegitimate,
				Level:          core.LevelSafe,
				Action:         core.ActionAllow,
				Recommendation: "Message is safe",
			}
		}
		return core.Classification{
			Label:          core.LabelSuspicious,
			Level:          core.LevelLow,
			Action:         core.ActionFlag,
			Recommendation: "Manual verification recommended",
		}
	}

	label := threatSubtype(findings)

	var level core.Level
	var action core.Action
	switch {
	case probability > 0.9:
		level = core.LevelCritical
		action = core.ActionBlock
	case probability > 0.7:
		level = core.LevelHigh
		action = core.ActionQuarantine
	default:
		level = core.LevelMedium
		action = core.ActionFlag
	}

	return core.Classification{
		Label:          label,
		Level:          level,
		Action:         action,
		Recommendation: fmt.Sprintf("Threat detected: %s", label),
	}
}

// threatSubtype picks the malicious label from the findings: an
// attachment finding means malware, URL findings mean phishing, anything
// else is spam.
func threatSubtype(findings []core.RiskFinding) core.Label {
	hasAttachment := false
	hasURLs := false
	for _, f := range findings {
		switch f.Type {
		case core.FindingDangerousAttachment:
			hasAttachment = true
		case core.FindingMultipleURLs, core.FindingInsecureURLs:
			hasURLs = true
		}
	}
	if hasAttachment {
		return core.LabelMalware
	}
	if hasURLs {
		return core.LabelPhishing
	}
	return core.LabelSpam
}

// FixedBandPolicy maps the probability into fixed bands, with a spam
// override for keyword-heavy messages that carry no links. A legitimate
// verdict accompanied by HIGH or CRITICAL findings keeps its label, level
// and action but gets a review recommendation instead.
type FixedBandPolicy struct{}

// Name identifies the policy.
func (p *FixedBandPolicy) Name() string { return PolicyFixedBand }

// Classify produces the verdict for one analysis.
func (p *FixedBandPolicy) Classify(probability float64, features core.FeatureVector, findings []core.RiskFinding) core.Classification {
	var c core.Classification
	switch {
	case probability >= 0.7:
		c = core.Classification{
			Label:  core.LabelPhishing,
			Level:  core.LevelHigh,
			Action: core.ActionBlock,
		}
	case probability >= 0.4:
		c = core.Classification{
			Label:  core.LabelSuspicious,
			Level:  core.LevelMedium,
			Action: core.ActionQuarantine,
		}
	default:
		c = core.Classification{
			Label:  core.LabelLegitimate,
			Level:  core.LevelLow,
			Action: core.ActionAllow,
		}
	}

	// Keyword-heavy messages without any link read as bulk spam
	// regardless of the probability band.
	if features[core.FeatureSuspiciousWordCount] > 5 && features[core.FeatureURLCount] == 0 {
		c = core.Classification{
			Label:  core.LabelSpam,
			Level:  core.LevelMedium,
			Action: core.ActionSpamFolder,
		}
	}

	c.Recommendation = recommendationFor(c.Label)

	if c.Label == core.LabelLegitimate && hasSevereFindings(findings) {
		c.Recommendation = "Message looks legitimate but carries risk signals - verification recommended"
	}

	return c
}

// recommendationFor returns the fixed recommendation text per label.
func recommendationFor(label core.Label) string {
	switch label {
	case core.LabelPhishing:
		return "Malicious message - block immediately"
	case core.LabelSuspicious:
		return "Suspicious message - quarantine for verification"
	case core.LabelSpam:
		return "Bulk message - deliver to the spam folder"
	case core.LabelLegitimate:
		return "Legitimate message - allow"
	default:
		return "Message requires manual review"
	}
}

func hasSevereFindings(findings []core.RiskFinding) bool {
	for _, f := range findings {
		if f.Severity == core.SeverityHigh || f.Severity == core.SeverityCritical {
			return true
		}
	}
	return false
}
