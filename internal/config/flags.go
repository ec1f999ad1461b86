package config

import (
	"flag"
	"os"
)

// parses CLI flags for the admin console
func ParseConsoleFlags(args []string) ConsoleFlags {
	fs := flag.NewFlagSet("console", flag.ExitOnError)

	defaultServer := os.Getenv("ARCHVIZ_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}

	server := fs.String("server", defaultServer, "base URL of the archviz server")
	username := fs.String("username", os.Getenv("ADMIN_USERNAME"), "admin username")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return ConsoleFlags{ServerURL: *server, Username: *username}
}
