package mysqlmcp_test

import (
	"context"
	"database/sql"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	mysqlmcp "github.com/rickchristie/mysql-mcp"
)

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

// envFrom returns a getenv func backed by vars.
func envFrom(vars map[string]string) func(string) string {
	return func(key string) string {
		return vars[key]
	}
}

func sqliteEnv(path string) map[string]string {
	return map[string]string{
		mysqlmcp.EnvDriver: mysqlmcp.DriverSQLite,
		mysqlmcp.EnvName:   path,
	}
}

// createSQLiteDB writes a database file in a temp dir and runs stmts on it.
func createSQLiteDB(t *testing.T, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	createSQLiteDBAt(t, path, stmts...)
	return path
}

// createSQLiteDBAt is createSQLiteDB for a caller-chosen path. The path is
// passed to the driver as a plain file name, so any character is allowed.
func createSQLiteDBAt(t *testing.T, path string, stmts ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Fatalf("failed to create sqlite database: %v", err)
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("setup failed for %q: %v", stmt, err)
		}
	}
}

func newSQLiteGateway(t *testing.T, config mysqlmcp.Config, stmts ...string) *mysqlmcp.Gateway {
	t.Helper()
	path := createSQLiteDB(t, stmts...)
	return mysqlmcp.New(config, testLogger(), mysqlmcp.WithEnvLookup(envFrom(sqliteEnv(path))))
}

// countingConnector records how many handles the gateway asked for.
type countingConnector struct {
	path  string
	opens atomic.Int64
}

func (c *countingConnector) Open(_ context.Context, _ mysqlmcp.ConnectionParams) (*sql.DB, error) {
	c.opens.Add(1)
	return sql.Open("sqlite", "file:"+c.path+"?mode=ro")
}

// closedPort returns a local TCP port with nothing listening on it.
func closedPort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return strconv.Itoa(port)
}

func unreachableMySQLEnv(t *testing.T) map[string]string {
	return map[string]string{
		mysqlmcp.EnvHost:     "127.0.0.1",
		mysqlmcp.EnvPort:     closedPort(t),
		mysqlmcp.EnvUser:     "app",
		mysqlmcp.EnvPassword: "secret",
		mysqlmcp.EnvName:     "shop",
	}
}
