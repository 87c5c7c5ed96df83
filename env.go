package mysqlmcp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rickchristie/mysql-mcp/internal/errs"
)

// Environment variables read on every tool call.
const (
	EnvHost     = "DB_HOST"
	EnvPort     = "DB_PORT"
	EnvUser     = "DB_USER"
	EnvPassword = "DB_PASSWORD"
	EnvName     = "DB_NAME"
	EnvDriver   = "DB_DRIVER"
)

const (
	defaultHost = "localhost"
	defaultPort = 3306
)

// ConnectionParams are the credentials for one tool call. They are resolved
// fresh each time and never stored on the Gateway.
type ConnectionParams struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// MissingEnvError lists required variables that are unset or empty.
type MissingEnvError struct {
	Missing []string
	Hint    string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("Missing environment variables: %s. %s", strings.Join(e.Missing, ", "), e.Hint)
}

// ResolveConnectionParams reads the DB_* variables through getenv.
// Required variables depend on DB_DRIVER; they are checked in a fixed order
// so the missing list is stable.
func ResolveConnectionParams(getenv func(string) string) (ConnectionParams, error) {
	driver := strings.ToLower(strings.TrimSpace(getenv(EnvDriver)))
	if driver == "" {
		driver = DriverMySQL
	}
	d, ok := lookupDialect(driver)
	if !ok {
		return ConnectionParams{}, errs.New(errs.ErrKindConfig,
			fmt.Sprintf("Invalid environment variable %s=%q. Supported drivers: %s.", EnvDriver, driver, strings.Join(supportedDrivers(), ", ")))
	}

	params := ConnectionParams{
		Driver:   driver,
		Host:     getenv(EnvHost),
		User:     getenv(EnvUser),
		Password: getenv(EnvPassword),
		Database: getenv(EnvName),
		Port:     defaultPort,
	}
	if params.Host == "" {
		params.Host = defaultHost
	}

	var missing []string
	for _, name := range d.requiredEnv {
		if getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return ConnectionParams{}, &MissingEnvError{Missing: missing, Hint: d.setupHint}
	}

	if raw := strings.TrimSpace(getenv(EnvPort)); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			return ConnectionParams{}, errs.New(errs.ErrKindConfig,
				fmt.Sprintf("Invalid environment variable %s=%q. It must be a port number between 1 and 65535.", EnvPort, raw))
		}
		params.Port = port
	}
	return params, nil
}
