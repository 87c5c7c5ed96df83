package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	mysqlmcp "github.com/rickchristie/mysql-mcp"
	"github.com/rickchristie/mysql-mcp/internal/meta"
)

const doctorPingTimeout = 15 * time.Second

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	configFlag := fs.String("config", "", "Path to configuration file (default $"+configPathEnv+" or "+defaultConfigPath+")")
	fs.Parse(args)

	path, explicit := resolveConfigPath(*configFlag)
	useColor := isTTY(os.Stderr.Fd())
	return doctor(os.Stderr, useColor, path, explicit, os.Getenv)
}

func doctor(w io.Writer, useColor bool, configPath string, explicit bool, getenv func(string) string) error {
	printBanner(w, useColor)
	fmt.Fprintf(w, "gomysqlmcp %s\n\n", meta.Version)

	// Load and validate config
	config, ok := doctorValidateConfig(w, useColor, configPath, explicit)
	if !ok {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Fix the issues above and run 'gomysqlmcp doctor' again.")
		return nil
	}

	// Environment and live connection
	if !doctorCheckDatabase(w, useColor, config, getenv) {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Fix the issues above and run 'gomysqlmcp doctor' again.")
		return nil
	}

	// Print agent connection snippets
	fmt.Fprintln(w)
	printAgentSnippets(w, useColor, config)
	return nil
}

// doctorValidateConfig loads and validates the config file, printing check results.
// Returns the parsed config and true if all checks passed.
func doctorValidateConfig(w io.Writer, useColor bool, configPath string, explicit bool) (*mysqlmcp.ServerConfig, bool) {
	if _, err := os.Stat(configPath); err != nil && !explicit {
		printCheck(w, useColor, true, fmt.Sprintf("No config file at %s, using defaults", configPath))
	}

	config, err := loadServerConfig(configPath, explicit)
	if err != nil {
		printCheck(w, useColor, false, fmt.Sprintf("Config loads: %v", err))
		return nil, false
	}
	printCheck(w, useColor, true, fmt.Sprintf("Config loads (%s)", configPath))
	printCheck(w, useColor, true, fmt.Sprintf("server.transport is valid (%s)", config.Server.Transport))
	if config.Server.Transport == transportHTTP {
		printCheck(w, useColor, true, fmt.Sprintf("server.port is valid (%d)", config.Server.Port))
		if config.Server.HealthCheckEnabled {
			printCheck(w, useColor, true, fmt.Sprintf("health_check_path is set (%s)", config.Server.HealthCheckPath))
		}
	}

	allPassed := true

	if config.Query.TimeoutSeconds < 0 {
		printCheck(w, useColor, false, "query.timeout_seconds is >= 0")
		allPassed = false
	}
	if config.Query.ConnectTimeoutSeconds < 0 {
		printCheck(w, useColor, false, "query.connect_timeout_seconds is >= 0")
		allPassed = false
	}
	for i, rule := range config.Query.TimeoutRules {
		if rule.TimeoutSeconds <= 0 {
			printCheck(w, useColor, false, fmt.Sprintf("timeout_rules[%d].timeout_seconds is > 0", i))
			allPassed = false
		}
	}

	// Regex patterns compile
	regexOK := true

	for i, rule := range config.ErrorPrompts {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("error_prompts[%d] regex compiles: %v", i, err))
			regexOK = false
		}
	}

	for i, rule := range config.Sanitization {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("sanitization[%d] regex compiles: %v", i, err))
			regexOK = false
		}
	}

	for i, rule := range config.Query.TimeoutRules {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("timeout_rules[%d] regex compiles: %v", i, err))
			regexOK = false
		}
	}

	if regexOK {
		printCheck(w, useColor, true, "All regex patterns compile")
	}

	return config, allPassed && regexOK
}

// doctorCheckDatabase resolves the DB_* variables and runs test_connection.
func doctorCheckDatabase(w io.Writer, useColor bool, config *mysqlmcp.ServerConfig, getenv func(string) string) bool {
	params, err := mysqlmcp.ResolveConnectionParams(getenv)
	if err != nil {
		printCheck(w, useColor, false, "Database environment variables are set")
		fmt.Fprintf(w, "\n%s\n", err.Error())
		return false
	}
	target := fmt.Sprintf("%s@%s:%d/%s", params.User, params.Host, params.Port, params.Database)
	if params.Driver == mysqlmcp.DriverSQLite {
		target = params.Database
	}
	printCheck(w, useColor, true, fmt.Sprintf("Database environment variables are set (%s %s)", params.Driver, target))

	gw := mysqlmcp.New(config.Config, zerolog.Nop(), mysqlmcp.WithEnvLookup(getenv))
	ctx, cancel := context.WithTimeout(context.Background(), doctorPingTimeout)
	defer cancel()

	out := gw.TestConnection(ctx)
	if out != mysqlmcp.ConnectionOK {
		printCheck(w, useColor, false, "Database is reachable")
		fmt.Fprintf(w, "\n%s\n", out)
		return false
	}
	printCheck(w, useColor, true, "Database is reachable")
	return true
}

// printCheck prints a colored ✓ or ✗ check line.
func printCheck(w io.Writer, useColor bool, pass bool, msg string) {
	if pass {
		if useColor {
			fmt.Fprintf(w, "  \033[32m✓\033[0m %s\n", msg)
		} else {
			fmt.Fprintf(w, "  ✓ %s\n", msg)
		}
	} else {
		if useColor {
			fmt.Fprintf(w, "  \033[31m✗\033[0m %s\n", msg)
		} else {
			fmt.Fprintf(w, "  ✗ %s\n", msg)
		}
	}
}

// printAgentSnippets prints MCP connection config snippets for various AI
// agents. Stdio snippets launch the binary; http snippets point at /mcp.
func printAgentSnippets(w io.Writer, useColor bool, config *mysqlmcp.ServerConfig) {
	heading := func(title string) {
		if useColor {
			fmt.Fprintf(w, "\033[1;36m%s\033[0m\n", title)
		} else {
			fmt.Fprintln(w, title)
		}
	}

	subheading := func(title string) {
		if useColor {
			fmt.Fprintf(w, "  \033[1m%s\033[0m\n", title)
		} else {
			fmt.Fprintf(w, "  %s\n", title)
		}
	}

	heading("Agent Connection Snippets")
	fmt.Fprintln(w)

	if config.Server.Transport == transportHTTP {
		url := fmt.Sprintf("http://localhost:%d/mcp", config.Server.Port)

		subheading("Claude Code")
		fmt.Fprintf(w, "  Run this command to add the server:\n\n")
		fmt.Fprintf(w, "    claude mcp add --transport http mysql %s\n\n", url)

		subheading("Cursor (.cursor/mcp.json)")
		fmt.Fprintf(w, `  {
    "mcpServers": {
      "mysql": {
        "url": "%s"
      }
    }
  }
`, url)
		fmt.Fprintln(w)

		subheading("Gemini CLI (~/.gemini/settings.json)")
		fmt.Fprintf(w, `  {
    "mcpServers": {
      "mysql": {
        "httpUrl": "%s"
      }
    }
  }
`, url)
		return
	}

	subheading("Claude Code")
	fmt.Fprintf(w, "  Run this command to add the server:\n\n")
	fmt.Fprintf(w, "    claude mcp add mysql -- gomysqlmcp serve\n\n")

	subheading("Claude Desktop / Cursor (mcpServers)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "mysql": {
        "command": "gomysqlmcp",
        "args": ["serve"],
        "env": {
          "DB_HOST": "localhost",
          "DB_USER": "your_username",
          "DB_PASSWORD": "your_password",
          "DB_NAME": "your_database"
        }
      }
    }
  }
`)
}
