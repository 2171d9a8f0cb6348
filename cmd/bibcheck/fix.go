package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcheck/internal/bibfile"
	"github.com/pdiddy/bibcheck/internal/fix"
	"github.com/pdiddy/bibcheck/pkg/types"
)

var fixCmd = &cobra.Command{
	Use:   "fix <file.bib>",
	Short: "Check a BibTeX file and apply high-confidence corrections",
	Long: `Fix runs check, builds a correction plan for every entry and applies the
actions whose confidence reaches the high threshold (0.9 by default; with
--aggressive also those reaching the mid threshold, 0.8). Remaining actions
are recorded as suggestions.

The corrected file goes to <outdir>/<name>.fixed.bib unless --fixed-bib or
--inplace is given; --inplace keeps a .bak copy of the original. Every
action is appended to the JSONL change log and summarized in Markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("aggressive", false, "also apply mid-confidence corrections")
	fixCmd.Flags().Bool("dry-run", false, "write the change log and summary but not the bib file")
	fixCmd.Flags().Bool("inplace", false, "overwrite the input file (a .bak backup is kept)")
	fixCmd.Flags().String("fixed-bib", "", "output path for the corrected file (default <outdir>/<name>.fixed.bib)")
	fixCmd.Flags().String("changes-log", "", "JSONL change log path (default <outdir>/changes.jsonl)")
	fixCmd.Flags().String("fix-summary", "", "Markdown summary path (default <outdir>/fix_summary.md)")
	fixCmd.Flags().String("plan-out", "", "also write all plans as YAML to this path")
	bindFlags(fixCmd, false, map[string]string{"fix.aggressive": "aggressive"})

	rootCmd.AddCommand(fixCmd)
}

// fixOutputs names where a fix or autofix run writes its artifacts.
type fixOutputs struct {
	bib, changes, summary string
	inplace, dryRun       bool
}

func fixOutputsFrom(cmd *cobra.Command, input, outdir string) fixOutputs {
	explicit, _ := cmd.Flags().GetString("fixed-bib")
	changes, _ := cmd.Flags().GetString("changes-log")
	summary, _ := cmd.Flags().GetString("fix-summary")
	o := fixOutputs{bib: fixedPath(outdir, input, explicit), changes: changes, summary: summary}
	if o.changes == "" {
		o.changes = filepath.Join(outdir, "changes.jsonl")
	}
	if o.summary == "" {
		o.summary = filepath.Join(outdir, "fix_summary.md")
	}
	if cmd.Flags().Lookup("inplace") != nil {
		o.inplace, _ = cmd.Flags().GetBool("inplace")
	}
	if cmd.Flags().Lookup("dry-run") != nil {
		o.dryRun, _ = cmd.Flags().GetBool("dry-run")
	}
	if o.inplace {
		o.bib = input
	}
	return o
}

// writeFixOutputs writes the corrected entries, the change log and the
// summary, and prints one line per artifact.
func writeFixOutputs(o fixOutputs, entries []types.Entry, applied, suggested []types.ChangeRecord) error {
	if !o.dryRun {
		if err := bibfile.WriteFile(o.bib, entries, o.inplace); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", o.bib)
	}
	records := append(append([]types.ChangeRecord(nil), applied...), suggested...)
	if err := fix.AppendChangeLog(o.changes, records); err != nil {
		return err
	}
	if err := fix.WriteSummaryFile(o.summary, applied, suggested, o.bib, o.dryRun); err != nil {
		return err
	}
	fmt.Printf("Applied %d, suggested %d (log %s, summary %s)\n", len(applied), len(suggested), o.changes, o.summary)
	return nil
}

func runFix(cmd *cobra.Command, args []string) (err error) {
	path := args[0]
	if err := requireFile(path); err != nil {
		return err
	}
	outdir, _ := cmd.Flags().GetString("outdir")
	maxEntries, _ := cmd.Flags().GetInt("max-entries")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	planOut, _ := cmd.Flags().GetString("plan-out")

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

	if planOut != "" {
		if err := writePlanFile(planOut, res.plans); err != nil {
			return err
		}
	}

	applier := fix.NewApplier(cfg.Fix)
	fixed, applied, suggested := applier.Apply(res.entries, res.plans)
	p.metrics.ObserveFix(len(applied), len(suggested))
	logger.Info("fix run", "run_id", applier.RunID, "applied", len(applied), "suggested", len(suggested))

	if err := writeFixOutputs(fixOutputsFrom(cmd, path, outdir), fixed, applied, suggested); err != nil {
		return err
	}
	if res.report.HasErrors() {
		return errHasErrors
	}
	return nil
}

func writePlanFile(path string, plans []types.Plan) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating plan directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating plan file: %w", err)
	}
	if err := fix.WritePlans(f, plans); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
