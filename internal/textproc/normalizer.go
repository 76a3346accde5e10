package textproc

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	urlTokenPattern   = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)
	nonAlphanumeric   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalizer cleans raw email body text into a canonical lowercase token
// stream. Normalization is a total, deterministic, idempotent function
// over strings.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize applies the cleaning pipeline in fixed order: decode HTML
// entities, strip tags, remove URL tokens, lowercase, replace characters
// outside [a-z0-9 ] with spaces, collapse whitespace, and trim.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = html.UnescapeString(text)
	text = tagPattern.ReplaceAllString(text, " ")
	text = urlTokenPattern.ReplaceAllString(text, " ")
	text = strings.ToLower(text)
	text = nonAlphanumeric.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
