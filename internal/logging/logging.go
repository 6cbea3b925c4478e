// Package logging builds the process logger. Every line is scrubbed of API keys
// and other credentials before it reaches the sink.
package logging

import (
	"io"
	"log"
	"regexp"
	"sort"
	"strings"
)

const redacted = "[REDACTED]"

type secretPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// Sanitizer replaces credentials in free text.
type Sanitizer struct {
	patterns []secretPattern
	literals []string
}

// NewSanitizer returns a Sanitizer with the default patterns. Each non-empty literal is
// also replaced wherever it occurs, which covers tokens that match no pattern.
func NewSanitizer(literals ...string) *Sanitizer {
	s := &Sanitizer{
		patterns: []secretPattern{
			{
				regex:       regexp.MustCompile(`(?i)(apikey|api[_-]?key|api[_-]?token)(["']?\s*[=:]\s*["']?)([^\s"'&,}]+)`),
				replacement: `$1$2` + redacted,
			},
			{
				regex:       regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_\-\.=]+`),
				replacement: `Bearer ` + redacted,
			},
			{
				regex:       regexp.MustCompile(`(?i)\b(password|passwd|secret|token)=([^\s&"']+)`),
				replacement: `$1=` + redacted,
			},
		},
	}

	for _, lit := range literals {
		if lit = strings.TrimSpace(lit); lit != "" {
			s.literals = append(s.literals, lit)
		}
	}
	// Longest first so a token that contains another is replaced whole.
	sort.Slice(s.literals, func(i, j int) bool { return len(s.literals[i]) > len(s.literals[j]) })

	return s
}

// Sanitize returns input with every known credential replaced.
func (s *Sanitizer) Sanitize(input string) string {
	result := input
	for _, lit := range s.literals {
		result = strings.ReplaceAll(result, lit, redacted)
	}
	for _, p := range s.patterns {
		result = p.regex.ReplaceAllString(result, p.replacement)
	}
	return result
}

// Writer sanitizes each write before passing it on. log.Logger issues one Write per line.
type Writer struct {
	out       io.Writer
	sanitizer *Sanitizer
}

// NewWriter wraps out with sanitizer.
func NewWriter(out io.Writer, sanitizer *Sanitizer) *Writer {
	return &Writer{out: out, sanitizer: sanitizer}
}

func (w *Writer) Write(p []byte) (int, error) {
	if _, err := io.WriteString(w.out, w.sanitizer.Sanitize(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// New returns a logger on out that redacts the given tokens and common credential shapes.
func New(out io.Writer, tokens ...string) *log.Logger {
	return log.New(NewWriter(out, NewSanitizer(tokens...)), "", log.LstdFlags)
}
