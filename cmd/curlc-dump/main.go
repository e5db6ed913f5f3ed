// Command curlc-dump is developer tooling around the compiler: it
// inspects the objects curlc produces and the local build ledger. It
// never changes curlc's own output contract.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "curlc-dump",
		Short: "Inspect curlc object files and build history",
	}
	root.AddCommand(symbolsCmd(), sectionsCmd(), logCmd(), inspectCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
