package mysqlmcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers list_tables, show_create_table, execute_query
// and test_connection as MCP tools on the given MCP server.
func RegisterMCPTools(mcpServer *server.MCPServer, gw *Gateway) {
	mcpServer.AddTools(gw.mcpTools()...)
}

func (g *Gateway) mcpTools() []server.ServerTool {
	listTablesTool := mcp.NewTool("list_tables",
		mcp.WithDescription("List all tables in the configured MySQL database."),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	showCreateTableTool := mcp.NewTool("show_create_table",
		mcp.WithDescription("Show the CREATE TABLE statement (schema) of a table. Use list_tables first to find table names."),
		mcp.WithString("table_name",
			mcp.Required(),
			mcp.Description("The table name. Only letters, digits and underscores are accepted."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	executeQueryTool := mcp.NewTool("execute_query",
		mcp.WithDescription("Execute a read-only SELECT query and return the rows as JSON. Only SELECT statements are allowed; INTO OUTFILE/DUMPFILE is rejected."),
		mcp.WithString("sql",
			mcp.Required(),
			mcp.Description("The SELECT statement to execute"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	testConnectionTool := mcp.NewTool("test_connection",
		mcp.WithDescription("Check that the database is reachable with the configured credentials."),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	return []server.ServerTool{
		{
			Tool: listTablesTool,
			Handler: g.loggedToolHandler("list_tables", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText(g.ListTables(ctx)), nil
			}),
		},
		{
			Tool: showCreateTableTool,
			Handler: g.loggedToolHandler("show_create_table", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				tableName, err := req.RequireString("table_name")
				if err != nil {
					return mcp.NewToolResultText("Error: table_name parameter is required"), nil
				}
				return mcp.NewToolResultText(g.ShowCreateTable(ctx, tableName)), nil
			}),
		},
		{
			Tool: executeQueryTool,
			Handler: g.loggedToolHandler("execute_query", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				sql, err := req.RequireString("sql")
				if err != nil {
					return mcp.NewToolResultText("Error: sql parameter is required"), nil
				}
				return mcp.NewToolResultText(g.ExecuteQuery(ctx, sql)), nil
			}),
		},
		{
			Tool: testConnectionTool,
			Handler: g.loggedToolHandler("test_connection", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText(g.TestConnection(ctx)), nil
			}),
		},
	}
}

// loggedToolHandler wraps a tool handler to log request and response lengths.
func (g *Gateway) loggedToolHandler(tool string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reqLen := requestLength(req)
		result, err := handler(ctx, req)
		respLen := resultLength(result)
		g.logger.Info().
			Str("tool", tool).
			Int("request_bytes", reqLen).
			Int("response_bytes", respLen).
			Msg("tool call")
		return result, err
	}
}

// requestLength returns the JSON-encoded byte length of the request arguments.
func requestLength(req mcp.CallToolRequest) int {
	args := req.GetArguments()
	if len(args) == 0 {
		return 0
	}
	b, err := json.Marshal(args)
	if err != nil {
		return 0
	}
	return len(b)
}

// resultLength returns the total byte length of text content in a CallToolResult.
func resultLength(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	total := 0
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			total += len(tc.Text)
		}
	}
	return total
}
