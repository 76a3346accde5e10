package textproc

import (
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	p := NewProcessor(zap.NewNop())

	short := "short body"
	if got := p.TruncateText(short, 100); got != short {
		t.Errorf("TruncateText changed text under the limit: %q", got)
	}

	long := strings.Repeat("a", 200)
	got := p.TruncateText(long, 50)
	if !strings.HasSuffix(got, "[... Content truncated due to size limits ...]") {
		t.Errorf("truncated text missing marker suffix: %q", got)
	}
	if !strings.HasPrefix(got, strings.Repeat("a", 50)) {
		t.Errorf("truncated text should keep the first 50 bytes: %q", got)
	}
}

func TestTruncateTextUTF8Boundary(t *testing.T) {
	p := NewProcessor(zap.NewNop())

	// 3-byte runes; a limit of 4 falls inside the second rune
	text := "€€€"
	got := p.TruncateText(text, 4)
	if !utf8.ValidString(got) {
		t.Errorf("truncation produced invalid UTF-8: %q", got)
	}
}

func TestSanitizeUTF8(t *testing.T) {
	p := NewProcessor(zap.NewNop())

	valid := "hello éè"
	if got := p.SanitizeUTF8(valid); got != valid {
		t.Errorf("SanitizeUTF8 changed valid text: %q", got)
	}

	invalid := "abc" + string([]byte{0xff, 0xfe}) + "def"
	got := p.SanitizeUTF8(invalid)
	if !utf8.ValidString(got) {
		t.Errorf("SanitizeUTF8 output is not valid UTF-8: %q", got)
	}
	if !strings.Contains(got, "abc") || !strings.Contains(got, "def") {
		t.Errorf("SanitizeUTF8 dropped valid content: %q", got)
	}
}
