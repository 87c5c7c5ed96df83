package timeout

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// Rule is the timeout manager's own rule type.
type Rule struct {
	Pattern string
	Timeout time.Duration
}

// Config is the timeout manager's own config type. A zero DefaultTimeout
// means statements without a matching rule run without a deadline.
type Config struct {
	DefaultTimeout time.Duration
	Rules          []Rule
}

type compiledRule struct {
	pattern *regexp.Regexp
	timeout time.Duration
}

// Manager resolves statement deadlines from SQL pattern rules.
type Manager struct {
	rules          []compiledRule
	defaultTimeout time.Duration
}

// NewManager compiles rules. Returns an error on invalid regex patterns.
func NewManager(config Config) (*Manager, error) {
	compiled := make([]compiledRule, len(config.Rules))
	for i, r := range config.Rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("timeout: invalid regex pattern %q: %v", r.Pattern, err)
		}
		compiled[i] = compiledRule{pattern: re, timeout: r.Timeout}
	}
	return &Manager{rules: compiled, defaultTimeout: config.DefaultTimeout}, nil
}

// GetTimeoutWithPattern returns the timeout for sql and the pattern that
// selected it. First matching rule wins; the default comes back with an
// empty pattern.
func (m *Manager) GetTimeoutWithPattern(sql string) (time.Duration, string) {
	for _, rule := range m.rules {
		if rule.pattern.MatchString(sql) {
			return rule.timeout, rule.pattern.String()
		}
	}
	return m.defaultTimeout, ""
}

// WithDeadline derives the context a statement runs under. Without a
// positive timeout the parent is returned as-is with a no-op cancel.
func (m *Manager) WithDeadline(ctx context.Context, sql string) (context.Context, context.CancelFunc, string) {
	d, pattern := m.GetTimeoutWithPattern(sql)
	if d <= 0 {
		return ctx, func() {}, pattern
	}
	queryCtx, cancel := context.WithTimeout(ctx, d)
	return queryCtx, cancel, pattern
}
