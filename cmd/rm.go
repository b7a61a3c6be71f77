package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// rmCmd deletes a lot. Deleting twice is fine.
type rmCmd struct {
	id string
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete a recorded lot" }
func (*rmCmd) Usage() string {
	return `nvt rm -id <id>

  Deletes a lot. Deleting an id that does not exist is a no-op.
`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id of the lot to delete.")
}

func (c *rmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -id is required.")
		return subcommands.ExitUsageError
	}
	st, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if !reportWrite(st.Delete(c.id)) {
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted lot %s\n", c.id)
	return subcommands.ExitSuccess
}
