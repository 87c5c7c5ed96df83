package sanitize

import (
	"fmt"
	"regexp"
)

// Rule is the sanitizer's own rule type.
type Rule struct {
	Pattern     string
	Replacement string
}

type compiledRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Sanitizer masks string values of query results before they are encoded.
type Sanitizer struct {
	rules []compiledRule
}

// NewSanitizer compiles rules. Returns an error on invalid regex patterns.
func NewSanitizer(rules []Rule) (*Sanitizer, error) {
	compiled := make([]compiledRule, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("sanitize: invalid regex pattern %q: %v", r.Pattern, err)
		}
		compiled[i] = compiledRule{pattern: re, replacement: r.Replacement}
	}
	return &Sanitizer{rules: compiled}, nil
}

// HasRules returns true if the sanitizer has any rules configured.
func (s *Sanitizer) HasRules() bool {
	return len(s.rules) > 0
}

// SanitizeValues rewrites string entries of values in place, applying
// every rule in order. Numbers, booleans and nulls are left alone.
func (s *Sanitizer) SanitizeValues(values []any) {
	if !s.HasRules() {
		return
	}
	for i, v := range values {
		if str, ok := v.(string); ok {
			values[i] = s.sanitizeString(str)
		}
	}
}

func (s *Sanitizer) sanitizeString(v string) string {
	for _, rule := range s.rules {
		v = rule.pattern.ReplaceAllString(v, rule.replacement)
	}
	return v
}
