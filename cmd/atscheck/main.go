package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/vijay-prabhu/atscheck/internal/cli"
)

// Version information (set by build script)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// A .env file is optional; it may set ATSCHECK_CONFIG
	_ = godotenv.Load()

	cli.SetVersionInfo(Version, Commit, BuildTime)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
