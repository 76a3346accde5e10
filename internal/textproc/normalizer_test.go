package textproc

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "plain text is lowercased",
			input: "Hello World",
			want:  "hello world",
		},
		{
			name:  "html entities decoded before stripping",
			input: "<p>Hello &amp; welcome</p>",
			want:  "hello welcome",
		},
		{
			name:  "urls removed",
			input: "Visit https://example.com/login now",
			want:  "visit now",
		},
		{
			name:  "www urls removed",
			input: "go to www.example.com today",
			want:  "go to today",
		},
		{
			name:  "uppercase urls removed",
			input: "see HTTPS://EVIL.EXAMPLE/login and WWW.EVIL.EXAMPLE today",
			want:  "see and today",
		},
		{
			name:  "url-like words without scheme survive",
			input: "the word httpx and wwwaddress stay",
			want:  "the word httpx and wwwaddress stay",
		},
		{
			name:  "punctuation replaced with spaces",
			input: "urgent!!! verify, your account...",
			want:  "urgent verify your account",
		},
		{
			name:  "whitespace collapsed and trimmed",
			input: "  too   many\t\tspaces \n here  ",
			want:  "too many spaces here",
		},
		{
			name:  "digits preserved",
			input: "Account 12345 suspended",
			want:  "account 12345 suspended",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer()

	inputs := []string{
		"<html><body>Click <a href=\"http://evil.com\">here</a> NOW!</body></html>",
		"Re: Your PayPal account has been SUSPENDED &#8212; act now",
		"plain lowercase text already normalized",
		"Visit HTTPX.COM now",
		"see HTTPS://EVIL.EXAMPLE/login today",
		"WWWADDRESS here",
		"",
	}

	for _, input := range inputs {
		once := n.Normalize(input)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
