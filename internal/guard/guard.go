// Package guard holds the lexical checks applied to caller input before it
// reaches the database.
//
// The checks are textual. ValidateStatement does not parse SQL:
// subqueries, UNION, stored-function calls and comment-split keywords such as
// INTO/**/OUTFILE pass through. Read-only enforcement beyond that belongs to
// the database account the gateway connects with.
package guard

import (
	"regexp"
	"strings"

	"github.com/rickchristie/mysql-mcp/internal/errs"
)

// Rejection reasons returned to the caller verbatim.
const (
	ReasonNotSelect        = "Only SELECT queries are allowed for safety."
	ReasonFileOutput       = "INTO OUTFILE/DUMPFILE is not allowed."
	ReasonInvalidTableName = "Invalid table name. Only letters, digits, and underscores are allowed."
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var fileOutputClauses = []string{"into outfile", "into dumpfile"}

// ValidateStatement checks that sql is a SELECT without a file-output clause.
// Rules apply in order to the trimmed, lower-cased statement.
func ValidateStatement(sql string) error {
	stripped := strings.ToLower(strings.TrimSpace(sql))
	if !strings.HasPrefix(stripped, "select") {
		return errs.New(errs.ErrKindInvalidInput, ReasonNotSelect)
	}
	for _, clause := range fileOutputClauses {
		if strings.Contains(stripped, clause) {
			return errs.New(errs.ErrKindInvalidInput, ReasonFileOutput)
		}
	}
	return nil
}

// ValidateIdentifier checks that name is a bare identifier that can be
// wrapped in backticks without escaping.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return errs.New(errs.ErrKindInvalidInput, ReasonInvalidTableName)
	}
	return nil
}
