package textproc

import (
	"unicode/utf8"

	"go.uber.org/zap"
)

// Processor provides UTF-8-safe truncation and sanitizing for message
// bodies before they are handed to an external advisor.
type Processor struct {
	logger *zap.Logger
}

// NewProcessor creates a new Processor.
func NewProcessor(logger *zap.Logger) *Processor {
	return &Processor{
		logger: logger,
	}
}

// TruncateText safely truncates text to the specified maximum size and
// ensures the result is valid UTF-8.
func (p *Processor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]

	// Trim a partially cut multi-byte sequence at the boundary
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	p.logger.Debug("Message body truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return truncated + "\n[... Content truncated due to size limits ...]"
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters.
func (p *Processor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				continue
			}
		}
		result = append(result, r)
	}

	return string(result)
}

// ProcessText truncates and sanitizes text in one operation.
func (p *Processor) ProcessText(text string, maxSize int) string {
	return p.SanitizeUTF8(p.TruncateText(text, maxSize))
}
