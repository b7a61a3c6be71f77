// Package cmd implements the CLI application to track mutual-fund and ETF
// purchase lots.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/avinashs/navtrack"
	"github.com/avinashs/navtrack/amfi"
	"github.com/avinashs/navtrack/mfapi"
	"github.com/avinashs/navtrack/store"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Environment variables honored when the matching flag is not set.
const (
	envSupabaseURL = "NAVTRACK_SUPABASE_URL"
	envSupabaseKey = "NAVTRACK_SUPABASE_KEY"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	ownerFlag    = flag.String("owner", "Me", "Owner of the holdings to work on.")
	currencyFlag = flag.String("currency", "INR", "Currency NAVs and amounts are denominated in.")
	backendFlag  = flag.String("backend", "dual", "Storage backend: 'remote' (hosted table), 'file' (local CSV), or 'dual' (both, kept in sync).")
	mirrorFlag   = flag.String("mirror-file", "holdings.csv", "Path to the local mirror CSV file.")
	navFlag      = flag.String("nav-url", amfi.DefaultURL, "URL of the AMFI NAV list.")
	supaURLFlag  = flag.String("supabase-url", "", "Supabase REST url (e.g. https://xyz.supabase.co/rest/v1).\n If missing it will read the environment variable "+envSupabaseURL+".")
	supaKeyFlag  = flag.String("supabase-key", "", "Supabase API key.\n If missing it will read the environment variable "+envSupabaseKey+".")
)

// Commands is the list of subcommands a main package registers.
var Commands = []subcommands.Command{
	&addCmd{},
	&holdingsCmd{},
	&updateCmd{},
	&rmCmd{},
	&refreshCmd{},
	&syncCmd{},
	&quoteCmd{},
	&topicCmd{},
}

func supabaseURL() string {
	if *supaURLFlag == "" {
		*supaURLFlag = os.Getenv(envSupabaseURL)
	}
	return *supaURLFlag
}

func supabaseKey() string {
	if *supaKeyFlag == "" {
		*supaKeyFlag = os.Getenv(envSupabaseKey)
	}
	return *supaKeyFlag
}

// OpenStore opens the configured storage backend. The backend is a
// deployment-time choice; everything downstream sees only the Store
// interface. Without remote credentials, the local file is used alone.
func OpenStore() (navtrack.Store, error) {
	mirror := store.NewFileStore(*mirrorFlag, *currencyFlag)
	switch *backendFlag {
	case "file":
		return mirror, nil
	case "remote", "dual":
		if supabaseURL() == "" || supabaseKey() == "" {
			if *backendFlag == "remote" {
				return nil, fmt.Errorf("remote backend requires -supabase-url and -supabase-key (or %s / %s)", envSupabaseURL, envSupabaseKey)
			}
			fmt.Fprintln(os.Stderr, "Warning: no remote table configured, holdings are saved to the local file only.")
			return mirror, nil
		}
		remote := store.NewRestStore(supabaseURL(), supabaseKey(), *currencyFlag)
		if *backendFlag == "remote" {
			return remote, nil
		}
		dual := store.NewDualStore(remote, mirror)
		// startup pass: push what only the mirror knows, fill what only
		// the remote knows; a failure here degrades, it does not block
		if _, _, err := dual.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: backend sync incomplete: %v\n", err)
		}
		return dual, nil
	default:
		return nil, fmt.Errorf("unknown backend %q, want remote, file or dual", *backendFlag)
	}
}

// feed is the process-wide NAV feed client, created on first use so that
// flag values are resolved first. Its cache object is passed explicitly
// to the reconciler.
var feed *amfi.Client

// OpenReconciler wires a reconciler over the configured store and feed.
func OpenReconciler(st navtrack.Store) *navtrack.Reconciler {
	if feed == nil {
		feed = amfi.NewClient()
		feed.URL = *navFlag
	}
	return &navtrack.Reconciler{
		Store:    st,
		Feed:     feed,
		Fallback: mfapi.NewClient(),
		Currency: *currencyFlag,
	}
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when rendering fails.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		fmt.Println(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
