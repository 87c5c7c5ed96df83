package main

import (
	"flag"
	"os"

	"github.com/rickchristie/mysql-mcp/internal/configure"
)

func runConfigure(args []string) error {
	fs := flag.NewFlagSet("configure", flag.ExitOnError)
	configFlag := fs.String("config", "", "Path to configuration file (default $"+configPathEnv+" or "+defaultConfigPath+")")
	fs.Parse(args)

	path, _ := resolveConfigPath(*configFlag)
	printBanner(os.Stderr, isTTY(os.Stderr.Fd()))
	return configure.Run(path)
}
