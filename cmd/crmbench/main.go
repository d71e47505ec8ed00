// Command crmbench runs the CRM agent benchmark from the command line:
// score a demo agent against local datasets, submit results to the
// leaderboard, or generate synthetic fixture CSVs.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
