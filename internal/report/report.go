package report

import (
	"fmt"
	"strings"

	"github.com/mikey/phish-analyzer/internal/core"
)

const separator = "--------------------------------------------------------------------------------"
const banner = "================================================================================"

// FormatText renders an analysis result as a human-readable report with
// fixed section order: email info, classification, risks, technical
// features.
func FormatText(result *core.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintln(&b, banner)
	fmt.Fprintln(&b, "EMAIL SECURITY ANALYSIS REPORT")
	fmt.Fprintln(&b, banner)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "EMAIL INFORMATION")
	fmt.Fprintln(&b, separator)
	fmt.Fprintf(&b, "From     : %s\n", result.Message.Sender)
	fmt.Fprintf(&b, "To       : %s\n", result.Message.Recipient)
	fmt.Fprintf(&b, "Subject  : %s\n", result.Message.Subject)
	fmt.Fprintf(&b, "Date     : %s\n", result.Message.Date)
	fmt.Fprintf(&b, "Analyzed : %s\n", result.AnalyzedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "CLASSIFICATION")
	fmt.Fprintln(&b, separator)
	fmt.Fprintf(&b, "Label          : %s\n", result.Classification.Label)
	fmt.Fprintf(&b, "Level          : %s\n", result.Classification.Level)
	fmt.Fprintf(&b, "Confidence     : %.2f%%\n", result.Confidence*100)
	fmt.Fprintf(&b, "Recommendation : %s\n", result.Classification.Recommendation)
	fmt.Fprintf(&b, "Action         : %s\n", result.Classification.Action)
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "DETECTED RISKS (%d)\n", len(result.Findings))
	fmt.Fprintln(&b, separator)
	if len(result.Findings) == 0 {
		fmt.Fprintln(&b, "No specific risks detected")
	}
	for i, finding := range result.Findings {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, finding.Severity, finding.Type)
		fmt.Fprintf(&b, "   %s\n", finding.Description)
		fmt.Fprintf(&b, "   -> %s\n", finding.Recommendation)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "TECHNICAL FEATURES")
	fmt.Fprintln(&b, separator)
	fmt.Fprintf(&b, "Text length          : %d characters\n", intFeature(result.Features, core.FeatureTextLength))
	fmt.Fprintf(&b, "Word count           : %d\n", intFeature(result.Features, core.FeatureWordCount))
	fmt.Fprintf(&b, "Suspicious keywords  : %d\n", intFeature(result.Features, core.FeatureSuspiciousWordCount))
	fmt.Fprintf(&b, "URLs detected        : %d\n", intFeature(result.Features, core.FeatureURLCount))
	fmt.Fprintf(&b, "HTTPS URLs           : %d\n", intFeature(result.Features, core.FeatureHTTPSURLCount))
	fmt.Fprintf(&b, "SPF present          : %s\n", checkmark(result.Features[core.FeatureSPFPresent]))
	fmt.Fprintf(&b, "DKIM present         : %s\n", checkmark(result.Features[core.FeatureDKIMPresent]))
	fmt.Fprintf(&b, "DMARC present        : %s\n", checkmark(result.Features[core.FeatureDMARCPresent]))
	fmt.Fprintf(&b, "Attachments          : %d\n", intFeature(result.Features, core.FeatureAttachmentCount))
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, banner)
	fmt.Fprintf(&b, "Report generated by phish-analyzer - model: %s\n", result.ModelUsed)
	fmt.Fprintln(&b, banner)

	return b.String()
}

func intFeature(fv core.FeatureVector, name string) int {
	return int(fv[name])
}

func checkmark(v float64) string {
	if v > 0 {
		return "yes"
	}
	return "no"
}
