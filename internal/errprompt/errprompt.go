// Package errprompt appends operator-configured guidance to database
// diagnostics. A rule pairs a regex over the error text with a hint the
// agent can act on, e.g. "Use list_tables to see available tables."
package errprompt

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule is the matcher's own rule type.
type Rule struct {
	Pattern string
	Message string
}

type compiledRule struct {
	pattern *regexp.Regexp
	message string
}

// Matcher checks error text against rules and returns guidance.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher compiles rules. Returns an error on invalid regex patterns.
func NewMatcher(rules []Rule) (*Matcher, error) {
	compiled := make([]compiledRule, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("errprompt: invalid regex pattern %q: %v", r.Pattern, err)
		}
		compiled[i] = compiledRule{pattern: re, message: r.Message}
	}
	return &Matcher{rules: compiled}, nil
}

// Match returns the messages of every matching rule, in rule order, joined
// by newlines. Empty when nothing matches.
func (m *Matcher) Match(errMsg string) string {
	var matches []string
	for _, rule := range m.rules {
		if rule.pattern.MatchString(errMsg) {
			matches = append(matches, rule.message)
		}
	}
	return strings.Join(matches, "\n")
}

// MatchedPatterns returns the patterns that matched, for logging.
func (m *Matcher) MatchedPatterns(errMsg string) []string {
	var patterns []string
	for _, rule := range m.rules {
		if rule.pattern.MatchString(errMsg) {
			patterns = append(patterns, rule.pattern.String())
		}
	}
	return patterns
}

// Annotate appends the guidance for errMsg to diagnostic, separated by a
// blank line. diagnostic is returned unchanged when no rule matches.
func (m *Matcher) Annotate(diagnostic, errMsg string) string {
	hint := m.Match(errMsg)
	if hint == "" {
		return diagnostic
	}
	return diagnostic + "\n\n" + hint
}
