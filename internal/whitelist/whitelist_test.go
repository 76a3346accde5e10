package whitelist

import (
	"testing"

	"go.uber.org/zap"
)

func TestIsTrusted(t *testing.T) {
	c := NewChecker([]string{"Example.COM", " trusted.org "}, zap.NewNop())

	tests := []struct {
		sender string
		want   bool
	}{
		{"alice@example.com", true},
		{"alice@EXAMPLE.com", true},
		{"Alice Smith <alice@example.com>", true},
		{"bob@trusted.org", true},
		{"mallory@evil.example", false},
		{"mallory@sub.example.com", false},
		{"not-an-address", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := c.IsTrusted(tt.sender); got != tt.want {
			t.Errorf("IsTrusted(%q) = %t, want %t", tt.sender, got, tt.want)
		}
	}
}

func TestIsTrustedEmptyList(t *testing.T) {
	c := NewChecker(nil, zap.NewNop())
	if c.IsTrusted("anyone@anywhere.example") {
		t.Error("empty trusted list must never trust a sender")
	}
}
