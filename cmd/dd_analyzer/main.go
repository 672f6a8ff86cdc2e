package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and maps the outcome to an exit status:
// 0 on success, 2 for a missing required flag, 1 for anything else.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}

	var missing *MissingArgumentError
	if errors.As(err, &missing) {
		fmt.Fprintf(stderr, "%s!\n%s\n", missing.Error(), missing.Usage)
		return 2
	}
	fmt.Fprintf(stderr, "ERROR: %v\n", err)
	return 1
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "dd_analyzer",
		Short:         "Plot and inspect differential algebra dump files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	for _, t := range tools() {
		root.AddCommand(newToolCommand(t, stdout, stderr))
	}
	return root
}
