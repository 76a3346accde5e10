package risk

import (
	"fmt"

	"github.com/mikey/phish-analyzer/internal/core"
	"go.uber.org/zap"
)

// Keyword-count thresholds per rule-set variant. The header-aware rule
// set flags any suspicious keyword; the lightweight free-text rule set
// tolerates a few before flagging.
const (
	fullKeywordThreshold        = 0
	lightweightKeywordThreshold = 3
)

const shortMessageThreshold = 50

// Detector is the rule engine producing discrete, severity-tagged
// findings from raw message signals. It never consults model
// probabilities, so findings stay interpretable when models are
// unavailable. Rules are evaluated in fixed order and each appends
// independently.
type Detector struct {
	logger *zap.Logger
}

// NewDetector creates a new risk detector.
func NewDetector(logger *zap.Logger) *Detector {
	return &Detector{logger: logger}
}

// DetectMessage evaluates the header/attachment-aware rule set.
func (d *Detector) DetectMessage(msg *core.ParsedMessage, features core.FeatureVector) []core.RiskFinding {
	findings := make([]core.RiskFinding, 0, 8)

	if features[core.FeatureSPFPresent] == 0 {
		findings = append(findings, core.RiskFinding{
			Type:           core.FindingSPFMissing,
			Severity:       core.SeverityHigh,
			Description:    "No SPF verification detected",
			Recommendation: "Sender address may be spoofed",
		})
	}

	if features[core.FeatureDKIMPresent] == 0 {
		findings = append(findings, core.RiskFinding{
			Type:           core.FindingDKIMMissing,
			Severity:       core.SeverityHigh,
			Description:    "No DKIM signature detected",
			Recommendation: "Domain authenticity is not verified",
		})
	}

	if features[core.FeatureDMARCPresent] == 0 {
		findings = append(findings, core.RiskFinding{
			Type:           core.FindingDMARCMissing,
			Severity:       core.SeverityMedium,
			Description:    "No DMARC authentication results detected",
			Recommendation: "Sender authentication policy is absent",
		})
	}

	findings = d.appendKeywordFinding(findings, features, fullKeywordThreshold)
	findings = d.appendURLFindings(findings, features)

	if features[core.FeatureDangerousAttachment] > 0 {
		findings = append(findings, core.RiskFinding{
			Type:           core.FindingDangerousAttachment,
			Severity:       core.SeverityCritical,
			Description:    "Potentially dangerous attachment detected",
			Recommendation: "Do NOT open the attachment",
		})
	}

	if msg.ReplyTo != "" && msg.ReplyTo != msg.Sender {
		findings = append(findings, core.RiskFinding{
			Type:           core.FindingFromReplyMismatch,
			Severity:       core.SeverityHigh,
			Description:    "From and Reply-To headers do not match",
			Recommendation: "Possible sender impersonation attempt",
		})
	}

	d.logger.Debug("Risk detection complete",
		zap.Int("findings", len(findings)),
		zap.String("variant", "full"))

	return findings
}

// DetectText evaluates the lightweight rule set used for free-text
// analysis without headers or attachments.
func (d *Detector) DetectText(features core.FeatureVector) []core.RiskFinding {
	findings := make([]core.RiskFinding, 0, 4)

	findings = d.appendKeywordFinding(findings, features, lightweightKeywordThreshold)
	findings = d.appendURLFindings(findings, features)

	if features[core.FeatureTextLength] < shortMessageThreshold {
		findings = append(findings, core.RiskFinding{
			Type:           core.FindingShortMessage,
			Severity:       core.SeverityLow,
			Description:    "Message is very short",
			Recommendation: "Verify the legitimacy of the sender",
		})
	}

	d.logger.Debug("Risk detection complete",
		zap.Int("findings", len(findings)),
		zap.String("variant", "lightweight"))

	return findings
}

func (d *Detector) appendKeywordFinding(findings []core.RiskFinding, features core.FeatureVector, threshold float64) []core.RiskFinding {
	if count := features[core.FeatureSuspiciousWordCount]; count > threshold {
		findings = append(findings, core.RiskFinding{
			Type:           core.FindingSuspiciousKeywords,
			Severity:       core.SeverityMedium,
			Description:    fmt.Sprintf("%d suspicious keywords detected", int(count)),
			Recommendation: "Content is potentially fraudulent",
		})
	}
	return findings
}

func (d *Detector) appendURLFindings(findings []core.RiskFinding, features core.FeatureVector) []core.RiskFinding {
	urlCount := features[core.FeatureURLCount]
	httpsCount := features[core.FeatureHTTPSURLCount]

	if urlCount > 5 {
		findings = append(findings, core.RiskFinding{
			Type:           core.FindingMultipleURLs,
			Severity:       core.SeverityMedium,
			Description:    fmt.Sprintf("%d URLs detected", int(urlCount)),
			Recommendation: "Unusually high number of links",
		})
	}

	if urlCount > 0 {
		ratio := httpsCount / urlCount
		if ratio < 0.5 {
			findings = append(findings, core.RiskFinding{
				Type:           core.FindingInsecureURLs,
				Severity:       core.SeverityHigh,
				Description:    "Insecure (HTTP) URLs detected",
				Recommendation: "Links are potentially malicious",
			})
		}
	}

	return findings
}
