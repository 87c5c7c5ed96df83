package mysqlmcp

import (
	"context"
	"database/sql"
)

// ListTables returns "Tables in database: " followed by the table names of
// the configured database, comma separated.
func (g *Gateway) ListTables(ctx context.Context) string {
	return g.runTool(ctx, "list_tables", func(ctx context.Context, params ConnectionParams) (string, error) {
		d, _ := lookupDialect(params.Driver)

		var tables []string
		err := g.withConnection(ctx, params, func(ctx context.Context, conn *sql.Conn) error {
			rows, err := conn.QueryContext(ctx, d.listTables)
			if err != nil {
				return queryError(ctx, err)
			}
			defer rows.Close()

			for rows.Next() {
				var name string
				if err := rows.Scan(&name); err != nil {
					return queryError(ctx, err)
				}
				tables = append(tables, name)
			}
			return queryError(ctx, rows.Err())
		})
		if err != nil {
			return "", err
		}
		return formatTableList(tables), nil
	})
}
