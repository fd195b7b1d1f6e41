// ABOUTME: Entry point for the callbridgectl CLI
// ABOUTME: Operator tool for caller memory and notes on a callbridge server

package main

import (
	"fmt"
	"os"

	"github.com/markalston/callbridge/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
