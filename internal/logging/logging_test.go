package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSanitizePatterns(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"apikey header", "apikey: abc123", "apikey: [REDACTED]"},
		{"apikey query", "GET /cards?apikey=abc123&page=2", "GET /cards?apikey=[REDACTED]&page=2"},
		{"api_token json", `{"api_token": "abc123"}`, `{"api_token": "[REDACTED]"}`},
		{"bearer", "Authorization: Bearer abc.def-ghi", "Authorization: Bearer [REDACTED]"},
		{"password pair", "password=hunter22 next", "password=[REDACTED] next"},
		{"plain text", "board 5 archived", "board 5 archived"},
	}

	sanitizer := NewSanitizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizer.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeLiterals(t *testing.T) {
	sanitizer := NewSanitizer("tok", "tok-long", " ")

	got := sanitizer.Sanitize("using tok-long then tok")
	if got != "using [REDACTED] then [REDACTED]" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestNewLoggerRedactsTokens(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "s3cr3t-value")

	logger.Printf("client for %s initialized with key %s", "prod", "s3cr3t-value")

	out := buf.String()
	if strings.Contains(out, "s3cr3t-value") {
		t.Fatalf("token leaked into log output: %q", out)
	}
	if !strings.Contains(out, "client for prod initialized") {
		t.Fatalf("expected log message to be kept, got %q", out)
	}
}
