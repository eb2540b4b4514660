// internal/taxonomy/sample.go
package taxonomy

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultSamplePattern marks a column as a sample when its name contains a digit.
const DefaultSamplePattern = `[0-9]`

// DefaultBehaviours maps sample-name prefixes to behaviour labels.
func DefaultBehaviours() map[string]string {
	return map[string]string{
		"E": "Extinction",
		"R": "Resilient",
		"S": "Susceptible",
	}
}

// Classifier labels sample names by prefix. Longest prefix wins; ties cannot
// occur since prefixes are map keys.
type Classifier struct {
	prefixes []string
	labels   map[string]string
}

func NewClassifier(behaviours map[string]string) *Classifier {
	c := &Classifier{labels: make(map[string]string, len(behaviours))}
	for p, l := range behaviours {
		if p == "" {
			continue
		}
		c.prefixes = append(c.prefixes, p)
		c.labels[p] = l
	}
	sort.Slice(c.prefixes, func(i, j int) bool {
		if len(c.prefixes[i]) != len(c.prefixes[j]) {
			return len(c.prefixes[i]) > len(c.prefixes[j])
		}
		return c.prefixes[i] < c.prefixes[j]
	})
	return c
}

// Behaviour returns the label for name, or "" when no prefix matches.
func (c *Classifier) Behaviour(name string) string {
	for _, p := range c.prefixes {
		if strings.HasPrefix(name, p) {
			return c.labels[p]
		}
	}
	return ""
}

// SampleMatcher decides which columns hold samples.
type SampleMatcher struct{ re *regexp.Regexp }

func NewSampleMatcher(pattern string) (*SampleMatcher, error) {
	if pattern == "" {
		pattern = DefaultSamplePattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "sample pattern"), "--sample-pattern takes a Go regular expression")
	}
	return &SampleMatcher{re: re}, nil
}

func (m *SampleMatcher) IsSampleColumn(name string) bool { return m.re.MatchString(name) }

// SampleColumns filters cols, preserving order.
func (m *SampleMatcher) SampleColumns(cols []string) []string {
	var out []string
	for _, c := range cols {
		if m.IsSampleColumn(c) {
			out = append(out, c)
		}
	}
	return out
}
