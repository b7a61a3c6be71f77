package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/avinashs/navtrack"
	"github.com/avinashs/navtrack/date"
	"github.com/avinashs/navtrack/store"
	"github.com/google/subcommands"
)

// addCmd records a new purchase lot.
type addCmd struct {
	name     string
	code     string
	typ      string
	date     string
	nav      float64
	units    float64
	amount   float64
	category string
	rating   string
	notes    string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a new purchase lot" }
func (*addCmd) Usage() string {
	return `nvt add -name <fund name> [-code <scheme code>] -nav <purchase NAV> (-units <n> | -amount <n>) [options]

  Records one purchase lot. Supply either the units bought or the amount
  invested: the other is derived from the purchase NAV. Supplying both
  keeps both as given.

Usage Examples:
# 1000 invested at NAV 10, units derived (100)
$ nvt add -name "Nifty 50 Index Fund" -code 120716 -nav 10 -amount 1000
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Fund/ETF display name.")
	f.StringVar(&c.code, "code", "", "AMFI scheme code. Without it, prices are matched by name (see 'nvt topic matching').")
	f.StringVar(&c.typ, "type", "MF", "Instrument type: MF, SIP, ETF, NPS or Other.")
	f.StringVar(&c.date, "d", date.Today().String(), "Purchase date.")
	f.Float64Var(&c.nav, "nav", 0, "Purchase NAV per unit.")
	f.Float64Var(&c.units, "units", 0, "Units bought.")
	f.Float64Var(&c.amount, "amount", 0, "Amount invested.")
	f.StringVar(&c.category, "category", "", "Free-form category.")
	f.StringVar(&c.rating, "rating", "", "CRISIL rating.")
	f.StringVar(&c.notes, "notes", "", "Free-form notes.")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing purchase date: %v\n", err)
		return subcommands.ExitUsageError
	}

	h := navtrack.Holding{
		Owner:        *ownerFlag,
		SchemeCode:   c.code,
		Name:         c.name,
		Type:         c.typ,
		PurchaseDate: on,
		PurchaseNAV:  navtrack.M(c.nav, *currencyFlag),
		Units:        navtrack.Q(c.units),
		Amount:       navtrack.M(c.amount, *currencyFlag),
		Category:     c.category,
		Rating:       c.rating,
		Notes:        c.notes,
	}

	st, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	id, err := st.Insert(&h)
	if errors.Is(err, navtrack.ErrInvalidLot) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if !reportWrite(err) {
		return subcommands.ExitFailure
	}

	fmt.Printf("Recorded lot %s: %s units for %s (id %s)\n", h.Name, h.Units, h.Amount, id)
	return subcommands.ExitSuccess
}

// reportWrite prints the outcome of a store write. A degraded dual-write
// is a success with a warning; it returns false only on real failure.
func reportWrite(err error) bool {
	var degraded *store.DegradedError
	switch {
	case err == nil:
		return true
	case errors.As(err, &degraded):
		fmt.Fprintf(os.Stderr, "Warning: %v\n", degraded)
		return true
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}
}
