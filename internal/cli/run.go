package cli

import (
	"fmt"
	"io"
	"os"
)

// Main runs pt with the process arguments and returns the exit status
func Main() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the command line in args. Errors are printed to errOut as
// "Error: <message>" and reported with exit status 1.
func Run(args []string, out io.Writer, errOut io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOutput(out, errOut)
	return report(root.Execute(), errOut)
}

func report(err error, errOut io.Writer) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(errOut, "Error: %s\n", NewErrorHandler().Message(err))
	return 1
}
