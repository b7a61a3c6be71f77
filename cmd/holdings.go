package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/avinashs/navtrack/amfi"
	"github.com/avinashs/navtrack/date"
	"github.com/avinashs/navtrack/renderer"
	"github.com/google/subcommands"
)

// holdingsCmd displays the portfolio table with derived metrics.
type holdingsCmd struct {
	update bool
	sortBy string
	topK   int
	csv    bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display all lots with derived return metrics" }
func (*holdingsCmd) Usage() string {
	return `nvt holdings [-u] [-sort cagr|abs|value] [-top <k>] [-csv]

  Displays every lot of the owner with current NAV, current value,
  absolute return and CAGR. Lots with no known NAV show "-" and are
  excluded from the totals rather than counted as zero.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.update, "u", false, "refresh prices from the feed before reporting")
	f.StringVar(&c.sortBy, "sort", renderer.ByCAGR, "sort metric: cagr, abs or value")
	f.IntVar(&c.topK, "top", 3, "size of the top performers section, 0 to disable")
	f.BoolVar(&c.csv, "csv", false, "write the report as CSV on stdout instead of a table")
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	if c.update {
		if _, err := OpenReconciler(st).Refresh(*ownerFlag, false); err != nil && errors.Is(err, amfi.ErrUnavailable) {
			fmt.Fprintf(os.Stderr, "Warning: %v, showing last known prices\n", err)
		} else if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: some prices were not refreshed: %v\n", err)
		}
	}

	holdings, err := st.List(*ownerFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading holdings:", err)
		return subcommands.ExitFailure
	}
	if len(holdings) == 0 {
		fmt.Println("No holdings yet. Record one with 'nvt add'.")
		return subcommands.ExitSuccess
	}

	report := renderer.NewPortfolio(holdings, date.Today(), c.sortBy, c.topK, *currencyFlag)
	if c.csv {
		if err := renderer.WriteCSV(os.Stdout, report); err != nil {
			fmt.Fprintln(os.Stderr, "Error writing CSV:", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.PortfolioMarkdown(report))
	return subcommands.ExitSuccess
}
