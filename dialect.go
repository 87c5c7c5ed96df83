package mysqlmcp

import (
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Supported values of DB_DRIVER.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// openOptions carry the Gateway settings a dialect needs to open a handle.
type openOptions struct {
	connectTimeout time.Duration
	logger         zerolog.Logger
}

// sessionStatement runs on a fresh connection before the tool body.
type sessionStatement struct {
	query string
	args  []any
}

// dialect holds everything that differs between database engines: how to
// open a handle, the introspection statements and the diagnostic hint.
type dialect struct {
	requiredEnv []string
	setupHint   string

	open         func(params ConnectionParams, opts openOptions) (*sql.DB, error)
	target       func(params ConnectionParams) string
	session      func(config Config) []sessionStatement
	listTables   string
	createTable  func(table string) (string, []any)
	checkEnvHint func(params ConnectionParams) string
}

var dialects = map[string]*dialect{
	DriverMySQL: {
		requiredEnv: []string{EnvUser, EnvPassword, EnvName},
		setupHint: "Please set them in a .env file or export them:\n" +
			"  DB_HOST=localhost  (optional, defaults to localhost)\n" +
			"  DB_USER=your_username\n" +
			"  DB_PASSWORD=your_password\n" +
			"  DB_NAME=your_database",
		open:       openMySQL,
		target:     func(p ConnectionParams) string { return "mysql at " + mysqlAddr(p) },
		session:    mysqlSession,
		listTables: "SHOW TABLES",
		createTable: func(table string) (string, []any) {
			// table has passed the identifier guard, so it cannot contain a backtick.
			return "SHOW CREATE TABLE `" + table + "`", nil
		},
		checkEnvHint: func(p ConnectionParams) string {
			return fmt.Sprintf("Please check your environment variables:\n  DB_HOST (current: %s)\n  DB_USER, DB_PASSWORD, DB_NAME", p.Host)
		},
	},
	DriverSQLite: {
		requiredEnv: []string{EnvName},
		setupHint: "Please set them in a .env file or export them:\n" +
			"  DB_DRIVER=sqlite\n" +
			"  DB_NAME=path/to/database.db",
		open:       openSQLite,
		target:     func(p ConnectionParams) string { return "sqlite database " + p.Database },
		session:    sqliteSession,
		listTables: "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
		createTable: func(table string) (string, []any) {
			return "SELECT name, sql FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?", []any{table}
		},
		checkEnvHint: func(p ConnectionParams) string {
			return fmt.Sprintf("Please check your environment variables:\n  DB_NAME (current: %s)\n  DB_DRIVER=sqlite", p.Database)
		},
	},
}

func lookupDialect(driver string) (*dialect, bool) {
	d, ok := dialects[driver]
	return d, ok
}

func supportedDrivers() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mysqlAddr(p ConnectionParams) string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

func openMySQL(p ConnectionParams, opts openOptions) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = mysqlAddr(p)
	cfg.DBName = p.Database
	cfg.Timeout = opts.connectTimeout
	cfg.Logger = driverLogger{logger: opts.logger}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

// mysqlSession makes the session read-only and sets its time zone when
// configured. Both last only as long as the connection.
func mysqlSession(config Config) []sessionStatement {
	var stmts []sessionStatement
	if config.ReadOnly {
		stmts = append(stmts, sessionStatement{query: "SET SESSION TRANSACTION READ ONLY"})
	}
	if config.Timezone != "" {
		stmts = append(stmts, sessionStatement{query: "SET time_zone = ?", args: []any{config.Timezone}})
	}
	return stmts
}

// openSQLite opens the file read-only. A missing file fails on first use
// instead of silently creating an empty database.
func openSQLite(p ConnectionParams, _ openOptions) (*sql.DB, error) {
	dsn, err := sqliteDSN(p.Database)
	if err != nil {
		return nil, err
	}
	return sql.Open("sqlite", dsn)
}

// sqliteDSN builds a file: URI with the path percent-encoded, so '#' and '?'
// in a file name cannot cut off the mode parameter.
func sqliteDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	u := url.URL{Scheme: "file", Path: abs, RawQuery: "mode=ro"}
	return u.String(), nil
}

// sqliteSession only knows read-only mode; SQLite has no session time zone.
func sqliteSession(config Config) []sessionStatement {
	if config.ReadOnly {
		return []sessionStatement{{query: "PRAGMA query_only = ON"}}
	}
	return nil
}

// driverLogger sends go-sql-driver/mysql messages to zerolog instead of the
// driver's default stderr logger.
type driverLogger struct {
	logger zerolog.Logger
}

func (l driverLogger) Print(v ...any) {
	l.logger.Warn().Str("component", "mysql-driver").Msg(strings.TrimSpace(fmt.Sprint(v...)))
}
