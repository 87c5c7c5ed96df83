package mysqlmcp

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/rickchristie/mysql-mcp/internal/errprompt"
	"github.com/rickchristie/mysql-mcp/internal/sanitize"
	"github.com/rickchristie/mysql-mcp/internal/timeout"
)

const defaultConnectTimeoutSeconds = 10

// Gateway is the core engine behind the list_tables, show_create_table,
// execute_query and test_connection tools.
// All exported methods are safe for concurrent use from multiple goroutines.
type Gateway struct {
	config     Config
	getenv     func(string) string
	connector  Connector
	sanitizer  *sanitize.Sanitizer
	errPrompts *errprompt.Matcher
	timeoutMgr *timeout.Manager
	logger     zerolog.Logger
}

// Option is a functional option for New().
type Option func(*options)

type options struct {
	getenv    func(string) string
	connector Connector
}

// WithEnvLookup replaces os.Getenv as the source of the DB_* variables.
func WithEnvLookup(getenv func(string) string) Option {
	return func(o *options) {
		o.getenv = getenv
	}
}

// WithConnector replaces the driver-backed connector.
func WithConnector(c Connector) Option {
	return func(o *options) {
		o.connector = c
	}
}

// New creates a new Gateway. No connection is opened here; credentials are
// resolved and a connection is opened on every tool call.
// Panics on invalid config.
func New(config Config, logger zerolog.Logger, opts ...Option) *Gateway {
	o := &options{getenv: os.Getenv}
	for _, opt := range opts {
		opt(o)
	}

	if config.Query.TimeoutSeconds < 0 {
		panic("mysqlmcp: query.timeout_seconds must be >= 0")
	}
	if config.Query.ConnectTimeoutSeconds < 0 {
		panic("mysqlmcp: query.connect_timeout_seconds must be >= 0")
	}
	if config.Query.ConnectTimeoutSeconds == 0 {
		config.Query.ConnectTimeoutSeconds = defaultConnectTimeoutSeconds
	}
	for _, rule := range config.Query.TimeoutRules {
		if rule.TimeoutSeconds <= 0 {
			panic(fmt.Sprintf("mysqlmcp: timeout_rule with pattern %q has timeout_seconds <= 0", rule.Pattern))
		}
	}

	san, err := sanitize.NewSanitizer(mapSanitizationRules(config.Sanitization))
	if err != nil {
		panic("mysqlmcp: " + err.Error())
	}
	matcher, err := errprompt.NewMatcher(mapErrorPromptRules(config.ErrorPrompts))
	if err != nil {
		panic("mysqlmcp: " + err.Error())
	}
	timeoutRules := make([]timeout.Rule, len(config.Query.TimeoutRules))
	for i, r := range config.Query.TimeoutRules {
		timeoutRules[i] = timeout.Rule{
			Pattern: r.Pattern,
			Timeout: time.Duration(r.TimeoutSeconds) * time.Second,
		}
	}
	tmgr, err := timeout.NewManager(timeout.Config{
		DefaultTimeout: time.Duration(config.Query.TimeoutSeconds) * time.Second,
		Rules:          timeoutRules,
	})
	if err != nil {
		panic("mysqlmcp: " + err.Error())
	}

	connector := o.connector
	if connector == nil {
		connector = dialectConnector{
			connectTimeout: time.Duration(config.Query.ConnectTimeoutSeconds) * time.Second,
			logger:         logger,
		}
	}

	return &Gateway{
		config:     config,
		getenv:     o.getenv,
		connector:  connector,
		sanitizer:  san,
		errPrompts: matcher,
		timeoutMgr: tmgr,
		logger:     logger,
	}
}

func mapSanitizationRules(rules []SanitizationRule) []sanitize.Rule {
	result := make([]sanitize.Rule, len(rules))
	for i, r := range rules {
		result[i] = sanitize.Rule{
			Pattern:     r.Pattern,
			Replacement: r.Replacement,
		}
	}
	return result
}

func mapErrorPromptRules(rules []ErrorPromptRule) []errprompt.Rule {
	result := make([]errprompt.Rule, len(rules))
	for i, r := range rules {
		result[i] = errprompt.Rule{
			Pattern: r.Pattern,
			Message: r.Message,
		}
	}
	return result
}
