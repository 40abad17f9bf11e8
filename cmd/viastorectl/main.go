package main

import (
	"context"
	"flag"
	"os"
	"path"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range commands {
		commander.Register(c, "")
	}

	flag.StringVar(&configPath, "config", defaultConfigPath, "path to the YAML config file")
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
