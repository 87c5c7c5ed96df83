// Package mysqlmcp exposes a read-only MySQL database to MCP agents.
//
// A Gateway offers four tools: list_tables, show_create_table,
// execute_query and test_connection. Each call resolves credentials from the
// environment, opens a single connection, runs one statement and releases
// the connection before returning. Every outcome is a plain string: results,
// rejections and failures alike, so an agent always gets something it can
// read back to the user.
//
// Library usage:
//
//	gw := mysqlmcp.New(mysqlmcp.Config{}, logger)
//	s := server.NewMCPServer("my-app", "1.0.0", server.WithToolCapabilities(true))
//	mysqlmcp.RegisterMCPTools(s, gw)
//
// Statements passed to execute_query must start with SELECT and may not
// write to files. The checks are lexical; the database account used by the
// gateway should only hold read privileges.
package mysqlmcp
