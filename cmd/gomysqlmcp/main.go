package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	loadDotEnv(os.Stderr, ".env")

	switch os.Args[1] {
	case "serve":
		if err := runServe(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "configure":
		if err := runConfigure(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "doctor":
		if err := runDoctor(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// loadDotEnv loads path into the environment. Variables already exported
// win over its entries. A missing file is fine; a broken one is reported on
// w and startup continues with the environment as it is.
func loadDotEnv(w io.Writer, path string) {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return
	}
	fmt.Fprintf(w, "Warning: failed to load %s: %v\n", path, err)
}

func printUsage() {
	fmt.Println("gomysqlmcp - read-only MySQL MCP Server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gomysqlmcp serve [--config path]    Start the MCP server")
	fmt.Println("  gomysqlmcp configure [--config path] Create or edit the configuration file")
	fmt.Println("  gomysqlmcp doctor [--config path]   Check configuration and database access")
	fmt.Println("  gomysqlmcp --help                   Show this help message")
	fmt.Println()
	fmt.Println("Database credentials are read from DB_HOST, DB_PORT, DB_USER, DB_PASSWORD,")
	fmt.Println("DB_NAME and DB_DRIVER, or from a .env file in the working directory.")
}
