package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/avinashs/navtrack/amfi"
	"github.com/google/subcommands"
)

// refreshCmd reconciles the lots' current NAV against the feed.
type refreshCmd struct {
	force bool
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "refresh current NAVs from the feed" }
func (*refreshCmd) Usage() string {
	return `nvt refresh [-f]

  Fetches the NAV list, matches each lot to its quote and stores the
  refreshed current NAV. Lots without a match keep their last known NAV.
  A feed outage updates nothing and is not fatal.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "f", false, "bypass the feed cache and refetch the full list")
}

func (c *refreshCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	updated, err := OpenReconciler(st).Refresh(*ownerFlag, c.force)
	switch {
	case errors.Is(err, amfi.ErrUnavailable):
		fmt.Fprintf(os.Stderr, "Warning: %v; no holdings updated, last known prices kept.\n", err)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Warning: some holdings were not refreshed: %v\n", err)
	}
	fmt.Printf("Refreshed %d holding(s).\n", updated)
	return subcommands.ExitSuccess
}
