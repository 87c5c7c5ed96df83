package mysqlmcp

import (
	"context"
	"database/sql"
)

// ConnectionOK is what TestConnection returns when the database answers.
const ConnectionOK = "Connection successful."

// TestConnection opens a connection with the current credentials and pings
// the server.
func (g *Gateway) TestConnection(ctx context.Context) string {
	return g.runTool(ctx, "test_connection", func(ctx context.Context, params ConnectionParams) (string, error) {
		if err := g.ping(ctx, params); err != nil {
			return "", err
		}
		return ConnectionOK, nil
	})
}

// Ping is TestConnection for Go callers: it returns the classified error
// instead of a message.
func (g *Gateway) Ping(ctx context.Context) error {
	params, err := ResolveConnectionParams(g.getenv)
	if err != nil {
		return err
	}
	return g.ping(ctx, params)
}

func (g *Gateway) ping(ctx context.Context, params ConnectionParams) error {
	return g.withConnection(ctx, params, func(ctx context.Context, conn *sql.Conn) error {
		return queryError(ctx, conn.PingContext(ctx))
	})
}
