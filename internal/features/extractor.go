package features

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/mikey/phish-analyzer/internal/core"
	"go.uber.org/zap"
)

// suspiciousTerms is the fixed suspicious-term list. Single-word terms
// participate in exact token matching; multi-word terms can only match in
// the substring mode used by the degraded free-text pipeline.
var suspiciousTerms = []string{
	"urgent", "verify", "account", "password",
	"confirm", "security", "update", "login",
	"immediate", "bank", "paypal", "suspended",
	"limited", "click", "link", "secure",
	"alert", "warning", "important", "action required",
	"security check", "phishing", "fraud", "hack",
	"compromised", "credentials", "authenticate",
}

// dangerousExtensions is the fixed set of attachment filename suffixes
// treated as dangerous. Matching is a case-sensitive suffix check on the
// literal filename.
var dangerousExtensions = []string{".exe", ".zip", ".js", ".scr", ".bat"}

var (
	urlPattern  = regexp.MustCompile(`https?://\S+`)
	hostPattern = regexp.MustCompile(`https?://([^/\s]+)`)
)

// Extractor computes the fixed-schema feature vector. It never fails:
// any sub-computation that cannot run contributes zeros for its keys.
type Extractor struct {
	logger        *zap.Logger
	suspiciousSet map[string]struct{}
}

// NewExtractor creates a new feature extractor.
func NewExtractor(logger *zap.Logger) *Extractor {
	set := make(map[string]struct{}, len(suspiciousTerms))
	for _, term := range suspiciousTerms {
		if !strings.Contains(term, " ") {
			set[term] = struct{}{}
		}
	}
	return &Extractor{
		logger:        logger,
		suspiciousSet: set,
	}
}

// ExtractMessage computes features for a structurally parsed message.
// Text features come from the normalized body; URL features are computed
// on the pre-normalization body text, since normalization strips URLs.
func (e *Extractor) ExtractMessage(msg *core.ParsedMessage, normalized string) core.FeatureVector {
	fv := emptyVector()

	e.textFeatures(fv, normalized)
	e.urlFeatures(fv, msg.BodyText+" "+msg.BodyHTML)
	e.headerFeatures(fv, msg.SecurityHeaders)
	e.attachmentFeatures(fv, msg.Attachments)

	return fv
}

// ExtractText computes features in degraded mode for free text with no
// MIME structure. Header and attachment features default to zero;
// suspicious terms are matched by substring containment.
func (e *Extractor) ExtractText(text string) core.FeatureVector {
	fv := emptyVector()

	lowered := strings.ToLower(text)
	fv[core.FeatureTextLength] = float64(len(lowered))
	fv[core.FeatureWordCount] = float64(len(strings.Fields(lowered)))

	count := 0
	for _, term := range suspiciousTerms {
		if strings.Contains(lowered, term) {
			count++
		}
	}
	fv[core.FeatureSuspiciousWordCount] = float64(count)

	e.urlFeatures(fv, lowered)

	return fv
}

// textFeatures fills the text-derived keys from normalized text. The
// suspicious count is an exact token match against single-word terms.
func (e *Extractor) textFeatures(fv core.FeatureVector, normalized string) {
	fv[core.FeatureTextLength] = float64(len(normalized))

	words := strings.Fields(normalized)
	fv[core.FeatureWordCount] = float64(len(words))

	count := 0
	for _, w := range words {
		if _, ok := e.suspiciousSet[w]; ok {
			count++
		}
	}
	fv[core.FeatureSuspiciousWordCount] = float64(count)
}

// urlFeatures fills the URL-derived keys from raw (pre-normalization)
// text.
func (e *Extractor) urlFeatures(fv core.FeatureVector, raw string) {
	urls := urlPattern.FindAllString(raw, -1)
	fv[core.FeatureURLCount] = float64(len(urls))

	httpsCount := 0
	domains := make(map[string]struct{})
	for _, u := range urls {
		if strings.HasPrefix(u, "https") {
			httpsCount++
		}
		if host := extractHost(u); host != "" {
			domains[host] = struct{}{}
		}
	}
	fv[core.FeatureHTTPSURLCount] = float64(httpsCount)
	fv[core.FeatureUniqueDomains] = float64(len(domains))
}

// headerFeatures fills the authentication-header presence flags.
func (e *Extractor) headerFeatures(fv core.FeatureVector, headers map[string]string) {
	if headers == nil {
		return
	}
	if _, ok := headers[core.HeaderReceivedSPF]; ok {
		fv[core.FeatureSPFPresent] = 1
	}
	if _, ok := headers[core.HeaderDKIMSignature]; ok {
		fv[core.FeatureDKIMPresent] = 1
	}
	if _, ok := headers[core.HeaderAuthResults]; ok {
		fv[core.FeatureDMARCPresent] = 1
	}
}

// attachmentFeatures fills the attachment count and the dangerous-suffix
// flag.
func (e *Extractor) attachmentFeatures(fv core.FeatureVector, attachments []core.Attachment) {
	fv[core.FeatureAttachmentCount] = float64(len(attachments))

	for _, att := range attachments {
		if att.Filename == "" {
			continue
		}
		for _, ext := range dangerousExtensions {
			if strings.HasSuffix(att.Filename, ext) {
				fv[core.FeatureDangerousAttachment] = 1
				return
			}
		}
	}
}

// extractHost parses the host component of a URL token, falling back to
// a regex capture when the token is not a well-formed URL.
func extractHost(token string) string {
	if parsed, err := url.Parse(strings.TrimRight(token, ".,;)")); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	if m := hostPattern.FindStringSubmatch(token); len(m) == 2 {
		return m[1]
	}
	return ""
}

// emptyVector returns a vector with every schema key present at zero.
func emptyVector() core.FeatureVector {
	fv := make(core.FeatureVector, len(core.FeatureSchema()))
	for _, name := range core.FeatureSchema() {
		fv[name] = 0
	}
	return fv
}
