package core

import (
	"time"
)

// Attachment describes a single MIME part declared as an attachment.
// Filename is empty when the part declared no filename.
type Attachment struct {
	Filename    string
	ContentType string
	SizeBytes   int
}

// ParsedMessage is the structured form of a raw email message. Header
// fields are kept verbatim; an empty string means the header was absent
// from the source. SecurityHeaders holds authentication-related headers
// keyed by canonical header name, with key presence indicating header
// presence.
type ParsedMessage struct {
	Sender          string
	Recipient       string
	Subject         string
	Date            string
	MessageID       string
	ReplyTo         string
	SecurityHeaders map[string]string
	BodyText        string
	BodyHTML        string
	Attachments     []Attachment
}

// Security header names tracked by the parser.
const (
	HeaderReceivedSPF    = "Received-SPF"
	HeaderDKIMSignature  = "DKIM-Signature"
	HeaderAuthResults    = "Authentication-Results"
	HeaderARCSeal        = "ARC-Seal"
	HeaderARCMessageSig  = "ARC-Message-Signature"
	HeaderARCAuthResults = "ARC-Authentication-Results"
)

// FeatureVector maps feature names to numeric values. Every key of the
// fixed schema is always present in an extractor output.
type FeatureVector map[string]float64

// Feature names of the fixed extraction schema.
const (
	FeatureTextLength          = "text_length"
	FeatureWordCount           = "word_count"
	FeatureSuspiciousWordCount = "suspicious_word_count"
	FeatureURLCount            = "url_count"
	FeatureHTTPSURLCount       = "https_url_count"
	FeatureUniqueDomains       = "unique_domains"
	FeatureSPFPresent          = "spf_present"
	FeatureDKIMPresent         = "dkim_present"
	FeatureDMARCPresent        = "dmarc_present"
	FeatureAttachmentCount     = "attachment_count"
	FeatureDangerousAttachment = "dangerous_attachment"
)

// FeatureSchema returns the fixed ordered list of feature names produced
// by the extractor.
func FeatureSchema() []string {
	return []string{
		FeatureTextLength,
		FeatureWordCount,
		FeatureSuspiciousWordCount,
		FeatureURLCount,
		FeatureHTTPSURLCount,
		FeatureUniqueDomains,
		FeatureSPFPresent,
		FeatureDKIMPresent,
		FeatureDMARCPresent,
		FeatureAttachmentCount,
		FeatureDangerousAttachment,
	}
}

// Clone returns a copy of the feature vector so later stages can hold it
// without sharing mutable state.
func (fv FeatureVector) Clone() FeatureVector {
	out := make(FeatureVector, len(fv))
	for k, v := range fv {
		out[k] = v
	}
	return out
}

// Severity is the weight attached to a risk finding.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// FindingType identifies a risk detection rule.
type FindingType string

const (
	FindingSPFMissing          FindingType = "SPF_MISSING"
	FindingDKIMMissing         FindingType = "DKIM_MISSING"
	FindingDMARCMissing        FindingType = "DMARC_MISSING"
	FindingSuspiciousKeywords  FindingType = "SUSPICIOUS_KEYWORDS"
	FindingMultipleURLs        FindingType = "MULTIPLE_URLS"
	FindingInsecureURLs        FindingType = "INSECURE_URLS"
	FindingDangerousAttachment FindingType = "DANGEROUS_ATTACHMENT"
	FindingFromReplyMismatch   FindingType = "FROM_REPLY_MISMATCH"
	FindingShortMessage        FindingType = "SHORT_MESSAGE"
)

// RiskFinding is a discrete risk observation, independent of any model
// score. Order in a findings list is detection order.
type RiskFinding struct {
	Type           FindingType
	Severity       Severity
	Description    string
	Recommendation string
}

// Label is the terminal verdict label for an analyzed message.
type Label string

const (
	LabelLegitimate Label = "LEGITIMATE"
	LabelSuspicious Label = "SUSPICIOUS"
	LabelPhishing   Label = "PHISHING"
	LabelSpam       Label = "SPAM"
	LabelMalware    Label = "MALWARE"
	LabelError      Label = "ERROR"
)

// Level is the severity tier of a verdict.
type Level string

const (
	LevelSafe     Level = "SAFE"
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
	LevelUnknown  Level = "UNKNOWN"
)

// Action is the recommended handling for a verdict.
type Action string

const (
	ActionAllow      Action = "ALLOW"
	ActionFlag       Action = "FLAG"
	ActionQuarantine Action = "QUARANTINE"
	ActionBlock      Action = "BLOCK"
	ActionSpamFolder Action = "SPAM_FOLDER"
	ActionReview     Action = "REVIEW"
)

// Classification is the final verdict: label, severity tier, recommended
// action and a human-readable recommendation.
type Classification struct {
	Label          Label
	Level          Level
	Action         Action
	Recommendation string
}

// AnalysisResult aggregates everything produced for one analyzed message.
// It is immutable after assembly.
type AnalysisResult struct {
	Source         string
	AnalyzedAt     time.Time
	Message        ParsedMessage
	Features       FeatureVector
	Predictions    map[string]float64
	Confidence     float64
	Classification Classification
	Findings       []RiskFinding
	ModelUsed      string
}
