package mysqlmcp

// Config is the base configuration used by library mode via New().
type Config struct {
	// ReadOnly puts every connection in a read-only session before the tool
	// runs. It backs up the statement guard; it does not replace it.
	ReadOnly bool `yaml:"read_only"`
	// Timezone is applied per connection (MySQL time_zone, e.g. "+00:00" or
	// "UTC" when the server has zone tables). Empty keeps the server default.
	Timezone     string             `yaml:"timezone"`
	Query        QueryConfig        `yaml:"query"`
	ErrorPrompts []ErrorPromptRule  `yaml:"error_prompts"`
	Sanitization []SanitizationRule `yaml:"sanitization"`
}

// ServerConfig embeds Config and adds server-only fields for CLI mode.
type ServerConfig struct {
	Config  `yaml:",inline"`
	Server  ServerSettings `yaml:"server"`
	Logging LoggingConfig  `yaml:"logging"`
}

// ServerSettings holds transport settings for CLI mode.
type ServerSettings struct {
	Transport          string `yaml:"transport"` // stdio, http
	Port               int    `yaml:"port"`
	HealthCheckEnabled bool   `yaml:"health_check_enabled"`
	HealthCheckPath    string `yaml:"health_check_path"`
}

// LoggingConfig holds logging settings for CLI mode.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	Output string `yaml:"output"` // stderr, stdout, or file path
}

// QueryConfig holds query execution settings.
type QueryConfig struct {
	// TimeoutSeconds bounds execute_query when no rule matches. 0 means no deadline.
	TimeoutSeconds        int           `yaml:"timeout_seconds"`
	ConnectTimeoutSeconds int           `yaml:"connect_timeout_seconds"`
	TimeoutRules          []TimeoutRule `yaml:"timeout_rules"`
}

// TimeoutRule maps a SQL pattern to a specific timeout duration.
type TimeoutRule struct {
	Pattern        string `yaml:"pattern"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ErrorPromptRule maps an error message pattern to a guidance message.
type ErrorPromptRule struct {
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
}

// SanitizationRule defines a regex-based value sanitization rule.
type SanitizationRule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
	Description string `yaml:"description"`
}
