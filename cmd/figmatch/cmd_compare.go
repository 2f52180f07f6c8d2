package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthands/figmatch/internal/core/model"
)

var jsonOutput bool

var compareCmd = &cobra.Command{
	Use:   "compare STATEMENT_A STATEMENT_B",
	Short: "Compare two statements",
	Long: `Compares two statements and prints the verdict together with the point
mapping when one exists. Exits with status 1 when the statements are not
equivalent.`,
	Example: `  figmatch compare "a b c = triangle a b c ? perp a b b c" "x y z = triangle z y x ? perp y z x y"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	v, err := newOracle().Compare(args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, v.Outcome)
		for _, kv := range v.Mapping.Sorted() {
			fmt.Fprintf(out, "  %s -> %s\n", kv[0], kv[1])
		}
	}

	if v.Outcome != model.Equivalent {
		return errNotEquivalent
	}
	return nil
}
