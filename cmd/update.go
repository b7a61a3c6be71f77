package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/avinashs/navtrack"
	"github.com/google/subcommands"
)

// updateCmd edits fields of an existing lot.
type updateCmd struct {
	id     string
	name   string
	nav    float64
	units  float64
	amount float64
	notes  string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "edit a recorded lot" }
func (*updateCmd) Usage() string {
	return `nvt update -id <id> [-name <n>] [-nav <n>] [-units <n>] [-amount <n>] [-notes <text>]

  Updates only the given fields of a lot. Setting one of units/amount to
  zero re-derives it from the purchase NAV.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id of the lot to update (see 'nvt holdings -csv').")
	f.StringVar(&c.name, "name", "", "New display name.")
	f.Float64Var(&c.nav, "nav", -1, "New purchase NAV per unit.")
	f.Float64Var(&c.units, "units", -1, "New units count.")
	f.Float64Var(&c.amount, "amount", -1, "New invested amount.")
	f.StringVar(&c.notes, "notes", "\x00", "New notes.")
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -id is required.")
		return subcommands.ExitUsageError
	}

	// only flags the user actually set make it into the patch
	var p navtrack.Patch
	if c.name != "" {
		p.Name = &c.name
	}
	if c.nav >= 0 {
		nav := navtrack.M(c.nav, *currencyFlag)
		p.PurchaseNAV = &nav
	}
	if c.units >= 0 {
		units := navtrack.Q(c.units)
		p.Units = &units
	}
	if c.amount >= 0 {
		amount := navtrack.M(c.amount, *currencyFlag)
		p.Amount = &amount
	}
	if c.notes != "\x00" {
		p.Notes = &c.notes
	}

	st, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	err = st.Update(c.id, p)
	if errors.Is(err, navtrack.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "Error: no lot with id %q\n", c.id)
		return subcommands.ExitFailure
	}
	if errors.Is(err, navtrack.ErrInvalidLot) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if !reportWrite(err) {
		return subcommands.ExitFailure
	}
	fmt.Printf("Updated lot %s\n", c.id)
	return subcommands.ExitSuccess
}
