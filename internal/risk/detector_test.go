package risk

import (
	"testing"

	"github.com/mikey/phish-analyzer/internal/core"
	"go.uber.org/zap"
)

func newTestDetector() *Detector {
	return NewDetector(zap.NewNop())
}

func baseFeatures() core.FeatureVector {
	fv := make(core.FeatureVector)
	for _, name := range core.FeatureSchema() {
		fv[name] = 0
	}
	return fv
}

func findingTypes(findings []core.RiskFinding) []core.FindingType {
	types := make([]core.FindingType, len(findings))
	for i, f := range findings {
		types[i] = f.Type
	}
	return types
}

func hasFinding(findings []core.RiskFinding, ft core.FindingType) bool {
	for _, f := range findings {
		if f.Type == ft {
			return true
		}
	}
	return false
}

func TestDetectMessageMissingAuthHeaders(t *testing.T) {
	d := newTestDetector()

	msg := &core.ParsedMessage{}
	findings := d.DetectMessage(msg, baseFeatures())

	want := []core.FindingType{
		core.FindingSPFMissing,
		core.FindingDKIMMissing,
		core.FindingDMARCMissing,
	}
	got := findingTypes(findings)
	if len(got) != len(want) {
		t.Fatalf("got %d findings %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("finding[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDetectMessageOrderIsStable(t *testing.T) {
	d := newTestDetector()

	// Trip every rule at once and check the fixed evaluation order
	fv := baseFeatures()
	fv[core.FeatureSuspiciousWordCount] = 4
	fv[core.FeatureURLCount] = 7
	fv[core.FeatureHTTPSURLCount] = 1
	fv[core.FeatureDangerousAttachment] = 1

	msg := &core.ParsedMessage{
		Sender:  "alice@example.com",
		ReplyTo: "mallory@evil.example",
	}
	findings := d.DetectMessage(msg, fv)

	want := []core.FindingType{
		core.FindingSPFMissing,
		core.FindingDKIMMissing,
		core.FindingDMARCMissing,
		core.FindingSuspiciousKeywords,
		core.FindingMultipleURLs,
		core.FindingInsecureURLs,
		core.FindingDangerousAttachment,
		core.FindingFromReplyMismatch,
	}
	got := findingTypes(findings)
	if len(got) != len(want) {
		t.Fatalf("got findings %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("finding[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDetectMessageSeverities(t *testing.T) {
	d := newTestDetector()

	fv := baseFeatures()
	fv[core.FeatureSuspiciousWordCount] = 1
	fv[core.FeatureDangerousAttachment] = 1

	findings := d.DetectMessage(&core.ParsedMessage{}, fv)

	severityByType := make(map[core.FindingType]core.Severity)
	for _, f := range findings {
		severityByType[f.Type] = f.Severity
	}

	checks := map[core.FindingType]core.Severity{
		core.FindingSPFMissing:          core.SeverityHigh,
		core.FindingDKIMMissing:         core.SeverityHigh,
		core.FindingDMARCMissing:        core.SeverityMedium,
		core.FindingSuspiciousKeywords:  core.SeverityMedium,
		core.FindingDangerousAttachment: core.SeverityCritical,
	}
	for ft, want := range checks {
		if got, ok := severityByType[ft]; !ok || got != want {
			t.Errorf("severity of %s = %s, want %s", ft, got, want)
		}
	}
}

func TestDetectMessageKeywordThreshold(t *testing.T) {
	d := newTestDetector()

	fv := baseFeatures()
	fv[core.FeatureSPFPresent] = 1
	fv[core.FeatureDKIMPresent] = 1
	fv[core.FeatureDMARCPresent] = 1

	if findings := d.DetectMessage(&core.ParsedMessage{}, fv); len(findings) != 0 {
		t.Errorf("expected no findings for clean message, got %v", findingTypes(findings))
	}

	// The header-aware rule set flags the very first keyword
	fv[core.FeatureSuspiciousWordCount] = 1
	findings := d.DetectMessage(&core.ParsedMessage{}, fv)
	if !hasFinding(findings, core.FindingSuspiciousKeywords) {
		t.Errorf("expected keyword finding at count 1, got %v", findingTypes(findings))
	}
}

func TestDetectMessageURLRules(t *testing.T) {
	d := newTestDetector()

	tests := []struct {
		name     string
		urls     float64
		https    float64
		multiple bool
		insecure bool
	}{
		{name: "no urls", urls: 0, https: 0, multiple: false, insecure: false},
		{name: "five urls is not multiple", urls: 5, https: 5, multiple: false, insecure: false},
		{name: "six urls is multiple", urls: 6, https: 6, multiple: true, insecure: false},
		{name: "half https is insecure", urls: 4, https: 1, multiple: false, insecure: true},
		{name: "exactly half https is secure", urls: 4, https: 2, multiple: false, insecure: false},
		{name: "many insecure urls", urls: 10, https: 0, multiple: true, insecure: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fv := baseFeatures()
			fv[core.FeatureSPFPresent] = 1
			fv[core.FeatureDKIMPresent] = 1
			fv[core.FeatureDMARCPresent] = 1
			fv[core.FeatureURLCount] = tt.urls
			fv[core.FeatureHTTPSURLCount] = tt.https

			findings := d.DetectMessage(&core.ParsedMessage{}, fv)
			if got := hasFinding(findings, core.FindingMultipleURLs); got != tt.multiple {
				t.Errorf("MULTIPLE_URLS = %t, want %t", got, tt.multiple)
			}
			if got := hasFinding(findings, core.FindingInsecureURLs); got != tt.insecure {
				t.Errorf("INSECURE_URLS = %t, want %t", got, tt.insecure)
			}
		})
	}
}

func TestDetectMessageReplyToMismatch(t *testing.T) {
	d := newTestDetector()
	fv := baseFeatures()
	fv[core.FeatureSPFPresent] = 1
	fv[core.FeatureDKIMPresent] = 1
	fv[core.FeatureDMARCPresent] = 1

	// Absent Reply-To never fires
	findings := d.DetectMessage(&core.ParsedMessage{Sender: "a@x.com"}, fv)
	if hasFinding(findings, core.FindingFromReplyMismatch) {
		t.Error("mismatch finding fired with no Reply-To header")
	}

	// Matching Reply-To never fires
	findings = d.DetectMessage(&core.ParsedMessage{Sender: "a@x.com", ReplyTo: "a@x.com"}, fv)
	if hasFinding(findings, core.FindingFromReplyMismatch) {
		t.Error("mismatch finding fired for matching addresses")
	}

	findings = d.DetectMessage(&core.ParsedMessage{Sender: "a@x.com", ReplyTo: "b@y.com"}, fv)
	if !hasFinding(findings, core.FindingFromReplyMismatch) {
		t.Error("mismatch finding did not fire for differing addresses")
	}
}

func TestDetectText(t *testing.T) {
	d := newTestDetector()

	// The lightweight rule set tolerates up to three keywords
	fv := baseFeatures()
	fv[core.FeatureTextLength] = 100
	fv[core.FeatureSuspiciousWordCount] = 3
	if findings := d.DetectText(fv); hasFinding(findings, core.FindingSuspiciousKeywords) {
		t.Error("keyword finding fired at count 3 in lightweight mode")
	}

	fv[core.FeatureSuspiciousWordCount] = 4
	if findings := d.DetectText(fv); !hasFinding(findings, core.FindingSuspiciousKeywords) {
		t.Error("keyword finding did not fire at count 4 in lightweight mode")
	}
}

func TestDetectTextShortMessage(t *testing.T) {
	d := newTestDetector()

	fv := baseFeatures()
	fv[core.FeatureTextLength] = 49
	findings := d.DetectText(fv)
	if !hasFinding(findings, core.FindingShortMessage) {
		t.Error("short message finding did not fire below the threshold")
	}
	for _, f := range findings {
		if f.Type == core.FindingShortMessage && f.Severity != core.SeverityLow {
			t.Errorf("short message severity = %s, want LOW", f.Severity)
		}
	}

	fv[core.FeatureTextLength] = 50
	if findings := d.DetectText(fv); hasFinding(findings, core.FindingShortMessage) {
		t.Error("short message finding fired at the threshold")
	}
}

func TestDetectTextNeverEmitsHeaderFindings(t *testing.T) {
	d := newTestDetector()

	findings := d.DetectText(baseFeatures())
	for _, f := range findings {
		switch f.Type {
		case core.FindingSPFMissing, core.FindingDKIMMissing, core.FindingDMARCMissing,
			core.FindingDangerousAttachment, core.FindingFromReplyMismatch:
			t.Errorf("lightweight rule set emitted header/attachment finding %s", f.Type)
		}
	}
}
