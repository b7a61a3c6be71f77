package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/avinashs/navtrack/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// shell completion for subcommand names and global flags; when the
	// shell is completing, Complete prints candidates and exits.
	completion := &complete.Command{
		Sub: make(map[string]*complete.Command),
		Flags: map[string]complete.Predictor{
			"owner":        predict.Something,
			"currency":     predict.Set{"INR", "EUR", "USD"},
			"backend":      predict.Set{"remote", "file", "dual"},
			"mirror-file":  predict.Files("*.csv"),
			"nav-url":      predict.Something,
			"supabase-url": predict.Something,
			"supabase-key": predict.Nothing,
		},
	}
	for _, c := range cmd.Commands {
		completion.Sub[c.Name()] = &complete.Command{}
	}
	completion.Complete("nvt")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
