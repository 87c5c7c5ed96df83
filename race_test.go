package mysqlmcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	mysqlmcp "github.com/rickchristie/mysql-mcp"
	"github.com/rickchristie/mysql-mcp/internal/errprompt"
	"github.com/rickchristie/mysql-mcp/internal/guard"
	"github.com/rickchristie/mysql-mcp/internal/sanitize"
	"github.com/rickchristie/mysql-mcp/internal/timeout"
)

func TestRace_ConcurrentToolCalls(t *testing.T) {
	gw := newSQLiteGateway(t, mysqlmcp.Config{
		Sanitization: []mysqlmcp.SanitizationRule{{Pattern: `\d{3}-\d{4}`, Replacement: "***-****"}},
	},
		"CREATE TABLE contacts (id INTEGER PRIMARY KEY, phone TEXT)",
		"INSERT INTO contacts (id, phone) VALUES (1, '555-1234'), (2, '555-5678')",
	)

	ctx := context.Background()
	var wg sync.WaitGroup
	failures := make(chan string, 100)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				var got string
				switch (id + j) % 4 {
				case 0:
					got = gw.ExecuteQuery(ctx, "SELECT id, phone FROM contacts ORDER BY id")
					var rows []map[string]any
					if err := json.Unmarshal([]byte(got), &rows); err != nil || len(rows) != 2 || rows[0]["phone"] != "***-****" {
						failures <- fmt.Sprintf("execute_query: %q", got)
					}
				case 1:
					if got = gw.ListTables(ctx); got != "Tables in database: contacts" {
						failures <- fmt.Sprintf("list_tables: %q", got)
					}
				case 2:
					if got = gw.ShowCreateTable(ctx, "contacts"); !strings.HasPrefix(got, "CREATE TABLE contacts") {
						failures <- fmt.Sprintf("show_create_table: %q", got)
					}
				case 3:
					if got = gw.ExecuteQuery(ctx, "DELETE FROM contacts"); !strings.HasPrefix(got, "Error: ") {
						failures <- fmt.Sprintf("execute_query rejection: %q", got)
					}
				}
			}
		}(i)
	}
	wg.Wait()
	close(failures)
	for f := range failures {
		t.Error(f)
	}
}

func TestRace_ConcurrentSanitization(t *testing.T) {
	s, err := sanitize.NewSanitizer([]sanitize.Rule{
		{Pattern: `\d{3}-\d{4}`, Replacement: "***-****"},
		{Pattern: `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`, Replacement: "[REDACTED]"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				// Each iteration gets a fresh copy since SanitizeValues mutates in-place.
				row := []any{"555-1234", "test@example.com", int64(1)}
				s.SanitizeValues(row)
			}
		}()
	}
	wg.Wait()
}

func TestRace_ConcurrentGuard(t *testing.T) {
	queries := []string{
		"SELECT * FROM users",
		"INSERT INTO users (name) VALUES ('test')",
		"select * from users into outfile '/tmp/x'",
		"DROP TABLE users",
		"  SELECT 1",
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = guard.ValidateStatement(queries[(id+j)%len(queries)])
				_ = guard.ValidateIdentifier(fmt.Sprintf("table_%d", j))
			}
		}(i)
	}
	wg.Wait()
}

func TestRace_ConcurrentErrorPrompt(t *testing.T) {
	m, err := errprompt.NewMatcher([]errprompt.Rule{
		{Pattern: `(?i)access denied`, Message: "Check DB_USER and DB_PASSWORD."},
		{Pattern: `(?i)syntax`, Message: "Check your SQL syntax."},
		{Pattern: `(?i)doesn't exist`, Message: "The table or column may not exist."},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	errors := []string{
		"Error 1045 (28000): Access denied for user 'app'@'localhost'",
		"Error 1064 (42000): You have an error in your SQL syntax",
		"Error 1146 (42S02): Table 'shop.foo' doesn't exist",
		"dial tcp 127.0.0.1:3306: connect: connection refused",
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				errMsg := errors[(id+j)%len(errors)]
				_ = m.Annotate("Database Error: "+errMsg, errMsg)
			}
		}(i)
	}
	wg.Wait()
}

func TestRace_ConcurrentTimeout(t *testing.T) {
	m, err := timeout.NewManager(timeout.Config{
		DefaultTimeout: 30 * time.Second,
		Rules: []timeout.Rule{
			{Pattern: `(?i)SELECT.*SLEEP`, Timeout: 60 * time.Second},
			{Pattern: `(?i)\bJOIN\b`, Timeout: 10 * time.Second},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	queries := []string{
		"SELECT SLEEP(1)",
		"SELECT * FROM a JOIN b ON a.id = b.id",
		"SELECT * FROM users",
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sql := queries[(id+j)%len(queries)]
				_, _ = m.GetTimeoutWithPattern(sql)
			}
		}(i)
	}
	wg.Wait()
}
