package shell

import (
	"bytes"
	"strings"
	"sync"
)

// ignoredPrefixes mark package manager and git chatter that is not worth
// showing to the user.
var ignoredPrefixes = []string{
	"deprecated",
	"graceful-fs@",
	"lodash@",
	"marked@",
	"minimatch@",
	"not compatible",
	"notsup not compatible",
	"notsup Not compatible",
	"Not compatible",
	"npm",
	"prefer global",
	"optional",
	"Cloning into",
	"Skipping failed optional dependency",
	"WARN",
}

// maxPrefixOffset is the furthest index at which an ignored prefix still
// counts, so "npm WARN" and "  WARN" are both dropped.
const maxPrefixOffset = 3

// Sanitize trims line and returns "" when it should be dropped.
func Sanitize(line string) string {
	line = strings.TrimSpace(line)
	for _, prefix := range ignoredPrefixes {
		if i := strings.Index(line, prefix); i >= 0 && i <= maxPrefixOffset {
			return ""
		}
	}
	return line
}

// Sanitizer is an io.Writer that splits its input into lines and keeps only
// the lines Sanitize does not drop.
type Sanitizer struct {
	mu      sync.Mutex
	partial bytes.Buffer
	lines   []string
	onLine  func(string)
}

// NewSanitizer returns a Sanitizer that calls onLine, if non-nil, for every
// kept line as it arrives.
func NewSanitizer(onLine func(string)) *Sanitizer {
	return &Sanitizer{onLine: onLine}
}

func (s *Sanitizer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.partial.Write(p)
	for {
		data := s.partial.Bytes()
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		s.keep(string(data[:i]))
		s.partial.Next(i + 1)
	}
	return len(p), nil
}

// Flush processes any trailing text that did not end in a newline.
func (s *Sanitizer) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.partial.Len() > 0 {
		s.keep(s.partial.String())
		s.partial.Reset()
	}
}

// String returns the kept lines joined by newlines.
func (s *Sanitizer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.lines, "\n")
}

func (s *Sanitizer) keep(line string) {
	line = Sanitize(line)
	if line == "" {
		return
	}
	s.lines = append(s.lines, line)
	if s.onLine != nil {
		s.onLine(line)
	}
}
