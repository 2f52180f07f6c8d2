package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthands/figmatch/internal/core/community"
	"github.com/agenthands/figmatch/internal/core/dedupe"
)

var outputPath string

var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Find equivalent statements in a corpus file",
	Long: `Reads a corpus of numbered statements (an id line followed by a statement
line) and reports every pair of equivalent entries. Only entries with the
same construction signature are compared.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := ReadCorpus(f)
	if err != nil {
		return fmt.Errorf("failed to read corpus: %w", err)
	}

	d := dedupe.NewDeduplicator(newOracle(), cfg.Batch.Workers, logger)
	report, err := d.ResolveDuplicates(cmd.Context(), entries)
	if err != nil {
		return err
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	classes := community.NewSimpleDetector().Detect(ids, report.Duplicates)

	out := cmd.OutOrStdout()
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*dedupe.Report
			Classes [][]string `json:"classes"`
		}{report, classes})
	}
	return writeReport(out, report, classes)
}

func writeReport(w io.Writer, report *dedupe.Report, classes [][]string) error {
	var b strings.Builder
	b.WriteString("The following figure pairs are equivalent:\n\n")
	for _, p := range report.Duplicates {
		fmt.Fprintf(&b, "%s and %s are equivalent figures\n", p.A, p.B)
	}
	if len(report.Undetermined) > 0 {
		b.WriteString("\nSearch budget exhausted for:\n\n")
		for _, p := range report.Undetermined {
			fmt.Fprintf(&b, "%s and %s\n", p.A, p.B)
		}
	}
	if len(classes) > 0 {
		b.WriteString("\nClasses:\n\n")
		for _, c := range classes {
			fmt.Fprintf(&b, "%s\n", strings.Join(c, " "))
		}
	}
	for _, r := range report.Rejected {
		fmt.Fprintf(&b, "\nskipped %s: %s", r.ID, r.Error)
	}
	fmt.Fprintf(&b, "\n%d entries, %d buckets, %d comparisons, %d equivalent pairs\n",
		report.Entries, report.Buckets, report.Compared, len(report.Duplicates))

	_, err := io.WriteString(w, b.String())
	return err
}
