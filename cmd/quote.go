package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/avinashs/navtrack/mfapi"
	"github.com/google/subcommands"
)

// quoteCmd looks up the latest NAV of a single scheme code.
type quoteCmd struct{}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "look up the latest NAV for a scheme code" }
func (*quoteCmd) Usage() string {
	return `nvt quote <scheme code...>

  Queries the per-scheme endpoint for the latest published NAV. Handy to
  check a code before recording a lot with it.
`
}

func (*quoteCmd) SetFlags(_ *flag.FlagSet) {}

func (c *quoteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one scheme code is required.")
		return subcommands.ExitUsageError
	}
	client := mfapi.NewClient()
	status := subcommands.ExitSuccess
	for _, code := range f.Args() {
		q, err := client.Latest(code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error looking up scheme %s: %v\n", code, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("%s  %s  %s (as of %s)\n", q.Code, q.Name, q.NAV, q.On)
	}
	return status
}
