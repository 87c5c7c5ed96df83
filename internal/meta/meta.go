// Package meta holds build metadata.
package meta

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/rickchristie/mysql-mcp/internal/meta.Version=v1.2.0" ./cmd/gomysqlmcp
var Version = "dev"
