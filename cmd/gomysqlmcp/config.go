package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	mysqlmcp "github.com/rickchristie/mysql-mcp"
)

const (
	configPathEnv     = "GOMYSQLMCP_CONFIG_PATH"
	defaultConfigPath = ".gomysqlmcp/config.yaml"

	transportStdio = "stdio"
	transportHTTP  = "http"

	defaultHTTPPort        = 8080
	defaultHealthCheckPath = "/health"
)

// resolveConfigPath picks the --config flag, then $GOMYSQLMCP_CONFIG_PATH,
// then the default. explicit is false only for the default path.
func resolveConfigPath(flagValue string) (path string, explicit bool) {
	if flagValue != "" {
		return flagValue, true
	}
	if env := os.Getenv(configPathEnv); env != "" {
		return env, true
	}
	return defaultConfigPath, false
}

// loadServerConfig reads the YAML config at path. A missing file is only an
// error when the path was asked for explicitly; otherwise defaults apply.
func loadServerConfig(path string, explicit bool) (*mysqlmcp.ServerConfig, error) {
	var config mysqlmcp.ServerConfig

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyDefaults(&config)
	if err := validateServerSettings(config.Server); err != nil {
		return nil, err
	}
	return &config, nil
}

func applyDefaults(config *mysqlmcp.ServerConfig) {
	if config.Server.Transport == "" {
		config.Server.Transport = transportStdio
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaultHTTPPort
	}
	if config.Server.HealthCheckEnabled && config.Server.HealthCheckPath == "" {
		config.Server.HealthCheckPath = defaultHealthCheckPath
	}
}

func validateServerSettings(s mysqlmcp.ServerSettings) error {
	switch s.Transport {
	case transportStdio, transportHTTP:
	default:
		return fmt.Errorf("server.transport must be %q or %q, got %q", transportStdio, transportHTTP, s.Transport)
	}
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port)
	}
	if s.HealthCheckEnabled && s.HealthCheckPath == "/mcp" {
		return fmt.Errorf("server.health_check_path must not be /mcp")
	}
	return nil
}
