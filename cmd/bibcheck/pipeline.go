// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/bibcheck/internal/bibfile"
	"github.com/pdiddy/bibcheck/internal/cache"
	"github.com/pdiddy/bibcheck/internal/fix"
	"github.com/pdiddy/bibcheck/internal/metrics"
	"github.com/pdiddy/bibcheck/internal/ratelimit"
	"github.com/pdiddy/bibcheck/internal/report"
	"github.com/pdiddy/bibcheck/internal/resolve"
	"github.com/pdiddy/bibcheck/internal/sources"
	"github.com/pdiddy/bibcheck/internal/validate"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// errHasErrors makes the process exit non-zero when the report contains
// ERROR entries or file-level errors.
var errHasErrors = errors.New("bibliography has ERROR entries")

// pipeline holds the collaborators of one run.
type pipeline struct {
	cfg      types.Config
	logger   *slog.Logger
	cache    cache.Cache
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	resolver *resolve.Resolver
}

func newPipeline(cfg types.Config, logger *slog.Logger) (*pipeline, error) {
	p := &pipeline{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	p.metrics = metrics.New(p.registry)

	if cfg.Online.Offline {
		p.cache = cache.NewMemory()
	} else {
		c, err := cache.Open(cfg.Cache)
		if err != nil {
			return nil, err
		}
		p.cache = c
	}

	deps := sources.Deps{
		Client:    &http.Client{Timeout: cfg.Online.Timeout},
		Cache:     p.cache,
		Limiter:   ratelimit.New(cfg.Online.RateInterval),
		Metrics:   p.metrics,
		Logger:    logger,
		UserAgent: cfg.Online.UserAgent,
	}
	reg := sources.NewRegistry(cfg.Online, deps)
	p.resolver = resolve.New(reg, resolve.OptionsFromConfig(cfg.Online), logger, p.metrics)
	return p, nil
}

// close releases the cache and writes the metrics textfile when requested.
func (p *pipeline) close(metricsFile string) error {
	err := p.cache.Close()
	if metricsFile != "" {
		if werr := prometheus.WriteToTextfile(metricsFile, p.registry); werr != nil {
			err = errors.Join(err, fmt.Errorf("writing metrics: %w", werr))
		}
	}
	return err
}

// checkResult is everything produced by the check stage.
type checkResult struct {
	entries     []types.Entry
	resolutions []resolve.Resolution
	plans       []types.Plan
	report      report.Report
}

// check parses the bib file, runs static validation and online resolution,
// and builds the report. With a planner, a fix plan is built per entry and
// its preview attached to the report.
func (p *pipeline) check(ctx context.Context, path string, maxEntries int, planner *fix.Planner, progress io.Writer) checkResult {
	entries, fileIssues := bibfile.Read(path, maxEntries)
	static := validate.New().Run(entries)

	p.logger.Info("checking entries", "path", path, "entries", len(entries), "offline", p.cfg.Online.Offline)
	resolutions := p.resolver.ResolveAll(ctx, entries, p.cfg.Online.Workers, progress)

	var b report.Builder
	for _, iss := range fileIssues {
		b.AddFileIssue(iss)
	}
	res := checkResult{entries: entries, resolutions: resolutions}
	for i, e := range entries {
		var preview []string
		if planner != nil {
			plan := planner.BuildPlan(e, static[e.ID], resolutions[i])
			res.plans = append(res.plans, plan)
			preview = plan.Preview
		}
		b.Collect(e, static[e.ID], &resolutions[i], preview)
	}
	res.report = b.Build()
	return res
}

// writeReports writes report.json and report.csv to outdir, plus
// resolved.yaml in CSL-YAML form when csl is set.
func writeReports(outdir string, r report.Report, csl bool) error {
	if err := report.WriteFile(filepath.Join(outdir, "report.json"), r, report.WriteJSON); err != nil {
		return err
	}
	if err := report.WriteFile(filepath.Join(outdir, "report.csv"), r, report.WriteCSV); err != nil {
		return err
	}
	if csl {
		return report.WriteFile(filepath.Join(outdir, "resolved.yaml"), r, report.FormatCSL)
	}
	return nil
}

// fixedPath returns out/<name>.fixed.bib for the input path unless an
// explicit path is given.
func fixedPath(outdir, input, explicit string) string {
	if explicit != "" {
		return explicit
	}
	base := filepath.Base(input)
	return filepath.Join(outdir, base[:len(base)-len(filepath.Ext(base))]+".fixed.bib")
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("bib file not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
