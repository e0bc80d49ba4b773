package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"findash/internal/cli"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	// Reports own stdout; logs go to stderr and default to warnings.
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "warn"
	}
	logger := cli.SetupLogger(cfg, os.Stderr)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	env := cli.NewEnv(cfg, logger)
	env.RegisterFlags(flag.CommandLine)
	cli.Register(commander, env)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
