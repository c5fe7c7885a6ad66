// Command giftctl runs suggestion queries, cache warming, taxonomy edits and
// migrations against the giftmatch databases.
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
