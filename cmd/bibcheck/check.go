package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcheck/internal/report"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.bib>",
	Short: "Validate a BibTeX file against online metadata",
	Long: `Check parses the BibTeX file, runs offline validation (required fields,
year, DOI and URL formats, duplicate citekeys) and resolves every entry
against the configured online sources. report.json and report.csv are
written to the output directory and a summary is printed.

The command exits non-zero when any entry has status ERROR.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("csl", false, "also export resolved records as CSL-YAML (resolved.yaml)")
	checkCmd.Flags().Bool("json", false, "print the JSON report to stdout instead of the summary")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) (err error) {
	path := args[0]
	if err := requireFile(path); err != nil {
		return err
	}
	outdir, _ := cmd.Flags().GetString("outdir")
	maxEntries, _ := cmd.Flags().GetInt("max-entries")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	csl, _ := cmd.Flags().GetBool("csl")
	asJSON, _ := cmd.Flags().GetBool("json")

	p, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := p.close(metricsFile); err == nil {
			err = cerr
		}
	}()

	res := p.check(cmd.Context(), path, maxEntries, nil, os.Stderr)
	if err := writeReports(outdir, res.report, csl); err != nil {
		return err
	}
	if asJSON {
		if err := report.WriteJSON(os.Stdout, res.report); err != nil {
			return err
		}
	} else {
		printSummary(os.Stdout, res.report)
	}

	if res.report.HasErrors() {
		return errHasErrors
	}
	return nil
}
