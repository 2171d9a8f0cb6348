package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcheck/internal/fix"
)

var autofixCmd = &cobra.Command{
	Use:   "autofix <file.bib>",
	Short: "Apply in-scope corrections unattended",
	Long: `Autofix checks the file and applies every planned correction whose field is
in scope and whose confidence reaches --min-conf. Scope "high" covers title,
author, year, doi, url, eprint, journal and howpublished; "all" adds
booktitle, volume, number and pages. With --latex-apostrophe, author
names are written with {\textquoteright} instead of apostrophes.

Reports, the corrected file, the change log and the summary are written as
for fix. Autofix always exits zero once its outputs are written.`,
	Args: cobra.ExactArgs(1),
	RunE: runAutofix,
}

func init() {
	autofixCmd.Flags().Float64("min-conf", 0.85, "minimum confidence for an automatic change")
	autofixCmd.Flags().String("scope", "high", "fields autofix may change (high, all)")
	autofixCmd.Flags().Bool("latex-apostrophe", false, "write apostrophes in author names as {\\textquoteright}")
	autofixCmd.Flags().String("fixed-bib", "", "output path for the corrected file (default <outdir>/<name>.fixed.bib)")
	autofixCmd.Flags().String("changes-log", "", "JSONL change log path (default <outdir>/changes.jsonl)")
	autofixCmd.Flags().String("fix-summary", "", "Markdown summary path (default <outdir>/fix_summary.md)")
	bindFlags(autofixCmd, false, map[string]string{
		"autofix.min_confidence":   "min-conf",
		"autofix.scope":            "scope",
		"autofix.latex_apostrophe": "latex-apostrophe",
	})

	rootCmd.AddCommand(autofixCmd)
}

func runAutofix(cmd *cobra.Command, args []string) (err error) {
	path := args[0]
	if err := requireFile(path); err != nil {
		return err
	}
	outdir, _ := cmd.Flags().GetString("outdir")
	maxEntries, _ := cmd.Flags().GetInt("max-entries")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	p, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := p.close(metricsFile); err == nil {
			err = cerr
		}
	}()

	res := p.check(cmd.Context(), path, maxEntries, fix.NewPlanner(cfg.Fix), os.Stderr)
	if err := writeReports(outdir, res.report, false); err != nil {
		return err
	}
	printSummary(os.Stdout, res.report)

	plans := res.plans
	if cfg.AutoFix.LatexApostrophe {
		plans = fix.WithLatexApostrophes(plans)
	}
	applier := fix.NewAutoApplier(cfg.AutoFix)
	fixed, applied, suggested := applier.Apply(res.entries, plans)
	p.metrics.ObserveFix(len(applied), len(suggested))
	logger.Info("autofix run", "run_id", applier.RunID, "scope", cfg.AutoFix.Scope,
		"min_confidence", cfg.AutoFix.MinConfidence, "applied", len(applied), "suggested", len(suggested))

	return writeFixOutputs(fixOutputsFrom(cmd, path, outdir), fixed, applied, suggested)
}
