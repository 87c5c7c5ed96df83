package mysqlmcp

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rickchristie/mysql-mcp/internal/errs"
	"github.com/rickchristie/mysql-mcp/internal/guard"
)

// ShowCreateTable returns the CREATE statement of tableName, or a not-found
// message when the database returns no row for it. Names outside
// [A-Za-z0-9_] are rejected before a connection is opened.
func (g *Gateway) ShowCreateTable(ctx context.Context, tableName string) string {
	return g.runTool(ctx, "show_create_table", func(ctx context.Context, params ConnectionParams) (string, error) {
		if err := guard.ValidateIdentifier(tableName); err != nil {
			return "", err
		}
		d, _ := lookupDialect(params.Driver)
		query, args := d.createTable(tableName)

		var (
			ddl   string
			found bool
		)
		err := g.withConnection(ctx, params, func(ctx context.Context, conn *sql.Conn) error {
			rows, err := conn.QueryContext(ctx, query, args...)
			if err != nil {
				return queryError(ctx, err)
			}
			defer rows.Close()

			columns, err := rows.Columns()
			if err != nil {
				return queryError(ctx, err)
			}
			if len(columns) < 2 {
				return errs.New(errs.ErrKindQueryFailed, fmt.Sprintf("unexpected introspection result with %d column(s)", len(columns)))
			}
			if !rows.Next() {
				return queryError(ctx, rows.Err())
			}

			// Views return four columns; the definition is always the second.
			values := make([]sql.NullString, len(columns))
			dest := make([]any, len(columns))
			for i := range values {
				dest[i] = &values[i]
			}
			if err := rows.Scan(dest...); err != nil {
				return queryError(ctx, err)
			}
			ddl, found = values[1].String, true
			return nil
		})
		if err != nil {
			return "", err
		}
		if !found {
			return tableNotFoundMessage(tableName), nil
		}
		return ddl, nil
	})
}
