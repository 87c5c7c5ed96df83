package mysqlmcp

import (
	"context"
	"database/sql"

	"github.com/rickchristie/mysql-mcp/internal/errs"
	"github.com/rickchristie/mysql-mcp/internal/guard"
)

// ExecuteQuery runs a single SELECT and returns its rows as a JSON array of
// objects, or a fixed message when the result is empty. Statements that do
// not pass the guard never reach the database.
func (g *Gateway) ExecuteQuery(ctx context.Context, sqlText string) string {
	return g.runTool(ctx, "execute_query", func(ctx context.Context, params ConnectionParams) (string, error) {
		if err := guard.ValidateStatement(sqlText); err != nil {
			return "", err
		}

		queryCtx, cancel, pattern := g.timeoutMgr.WithDeadline(ctx, sqlText)
		defer cancel()
		if pattern != "" {
			g.logger.Debug().Str("pattern", pattern).Msg("timeout rule matched")
		}

		var (
			columns []string
			rows    [][]any
		)
		err := g.withConnection(queryCtx, params, func(ctx context.Context, conn *sql.Conn) error {
			var err error
			columns, rows, err = collectRows(ctx, conn, sqlText)
			return err
		})
		if err != nil {
			return "", err
		}
		if len(rows) == 0 {
			return noRowsMessage, nil
		}

		for _, row := range rows {
			g.sanitizer.SanitizeValues(row)
		}
		out, err := encodeRows(columns, rows)
		if err != nil {
			return "", errs.Wrap(errs.ErrKindUnknown, "encode result", err)
		}
		return out, nil
	})
}

// collectRows reads the whole result set, converting each value by its
// column's database type.
func collectRows(ctx context.Context, conn *sql.Conn, sqlText string) ([]string, [][]any, error) {
	rs, err := conn.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, nil, queryError(ctx, err)
	}
	defer rs.Close()

	columns, err := rs.Columns()
	if err != nil {
		return nil, nil, queryError(ctx, err)
	}
	colTypes, err := rs.ColumnTypes()
	if err != nil {
		return nil, nil, queryError(ctx, err)
	}
	typeNames := make([]string, len(colTypes))
	for i, ct := range colTypes {
		typeNames[i] = ct.DatabaseTypeName()
	}

	var rows [][]any
	for rs.Next() {
		raw := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rs.Scan(dest...); err != nil {
			return nil, nil, queryError(ctx, err)
		}
		row := make([]any, len(columns))
		for i, v := range raw {
			row[i] = convertValue(v, typeNames[i])
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, nil, queryError(ctx, err)
	}
	return columns, rows, nil
}
