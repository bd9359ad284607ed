// Package main provides the CLI entrypoint for skb-datatool.
//
// skb-datatool is a batch tool that:
//   - Loads entity records (acronyms, countries, affiliations, ...) from JSON files
//   - Validates them against per-type schemas and resolves links between types
//   - Renders them through per-target templates or exports them as data
package main

import (
	"fmt"
	"os"

	"skb-datatool/cmd/skb-datatool/commands"
	"skb-datatool/internal/errors"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}

		os.Exit(1)
	}
}
