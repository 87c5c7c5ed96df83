package guard

import (
	"testing"

	"github.com/rickchristie/mysql-mcp/internal/errs"
)

func TestValidateStatement_Allowed(t *testing.T) {
	t.Parallel()
	allowed := []string{
		"SELECT 1",
		"select * from users",
		"  \n\tSeLeCt id FROM orders WHERE id = 1",
		"SELECT * FROM settings",
		"SELECT created_at, updated_at FROM products",
		"SELECT * FROM users WHERE note = 'outfile'",
		"SELECT a FROM t UNION SELECT b FROM u",
		"selectx", // lexical check only
	}
	for _, sql := range allowed {
		if err := ValidateStatement(sql); err != nil {
			t.Fatalf("expected %q to be allowed, got %v", sql, err)
		}
	}
}

func TestValidateStatement_NotSelect(t *testing.T) {
	t.Parallel()
	rejected := []string{
		"",
		"   ",
		"SHOW TABLES",
		"DESCRIBE users",
		"INSERT INTO users VALUES (1)",
		"UPDATE users SET name = 'x'",
		"DELETE FROM users",
		"DROP TABLE users",
		"WITH x AS (SELECT 1) SELECT * FROM x",
		"(SELECT 1)",
		"-- comment\nSELECT 1",
		"/* c */ SELECT 1",
	}
	for _, sql := range rejected {
		err := ValidateStatement(sql)
		if err == nil {
			t.Fatalf("expected %q to be rejected", sql)
		}
		if err.Error() != ReasonNotSelect {
			t.Fatalf("expected reason %q for %q, got %q", ReasonNotSelect, sql, err.Error())
		}
		if !errs.IsInvalidInput(err) {
			t.Fatalf("expected invalid_input kind for %q, got %s", sql, errs.KindOf(err))
		}
	}
}

func TestValidateStatement_FileOutput(t *testing.T) {
	t.Parallel()
	rejected := []string{
		"SELECT * INTO OUTFILE '/tmp/users.txt' FROM users",
		"SELECT * FROM users INTO DUMPFILE '/tmp/users.bin'",
		"select * from users into outfile '/tmp/x'",
		"SELECT 'a' AS x InTo oUtFiLe '/tmp/x'",
	}
	for _, sql := range rejected {
		err := ValidateStatement(sql)
		if err == nil {
			t.Fatalf("expected %q to be rejected", sql)
		}
		if err.Error() != ReasonFileOutput {
			t.Fatalf("expected reason %q for %q, got %q", ReasonFileOutput, sql, err.Error())
		}
	}
}

// Known gaps of the substring check: these reach the database.
func TestValidateStatement_LexicalGaps(t *testing.T) {
	t.Parallel()
	passing := []string{
		"SELECT 'a' INTO    OUTFILE '/tmp/x'",
		"SELECT 'a' INTO/**/OUTFILE '/tmp/x'",
		"SELECT 'a' INTO\nDUMPFILE '/tmp/x'",
	}
	for _, sql := range passing {
		if err := ValidateStatement(sql); err != nil {
			t.Fatalf("expected %q to pass the substring check, got %v", sql, err)
		}
	}
}

func TestValidateStatement_SelectCheckRunsFirst(t *testing.T) {
	t.Parallel()
	err := ValidateStatement("INSERT INTO t SELECT * INTO OUTFILE '/tmp/x'")
	if err == nil || err.Error() != ReasonNotSelect {
		t.Fatalf("expected %q, got %v", ReasonNotSelect, err)
	}
}

func TestValidateIdentifier(t *testing.T) {
	t.Parallel()
	valid := []string{"users", "Users_2024", "_tmp", "123", "a"}
	for _, name := range valid {
		if err := ValidateIdentifier(name); err != nil {
			t.Fatalf("expected %q to be valid, got %v", name, err)
		}
	}

	invalid := []string{
		"",
		"users;",
		"my table",
		"users`",
		"`users`",
		"users'",
		"db.users",
		"users-2",
		"tábla",
		"users\n",
	}
	for _, name := range invalid {
		err := ValidateIdentifier(name)
		if err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
		if err.Error() != ReasonInvalidTableName {
			t.Fatalf("unexpected reason for %q: %q", name, err.Error())
		}
	}
}
