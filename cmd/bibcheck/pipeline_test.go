// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bibcheck/internal/fix"
	"github.com/pdiddy/bibcheck/internal/logging"
	"github.com/pdiddy/bibcheck/internal/report"
	"github.com/pdiddy/bibcheck/pkg/types"
)

const offlineBib = `@article{good,
  title = {Deep Residual Learning for Image Recognition},
  author = {He, Kaiming and Zhang, Xiangyu},
  year = {2016},
  journal = {Computer Vision},
  pages = {770-778}
}

@article{bad,
  title = {Missing Journal},
  author = {Someone},
  year = {20x6}
}
`

func offlineConfig() types.Config {
	c := types.DefaultConfig()
	c.Online.Offline = true
	c.Cache.Backend = types.CacheMemory
	return c
}

func TestPipelineOfflineCheckAndFix(t *testing.T) {
	dir := t.TempDir()
	bib := filepath.Join(dir, "refs.bib")
	require.NoError(t, os.WriteFile(bib, []byte(offlineBib), 0o644))

	p, err := newPipeline(offlineConfig(), logging.Discard())
	require.NoError(t, err)
	metricsFile := filepath.Join(dir, "metrics.prom")
	defer func() { assert.NoError(t, p.close(metricsFile)) }()

	var progress bytes.Buffer
	res := p.check(context.Background(), bib, 0, fix.NewPlanner(offlineConfig().Fix), &progress)
	require.Len(t, res.entries, 2)
	assert.Equal(t, 2, strings.Count(progress.String(), "UNCHECKED"))

	r := res.report
	assert.Equal(t, report.StatusOK, r.Entries[0].Status)
	assert.Equal(t, report.StatusError, r.Entries[1].Status)
	assert.True(t, r.HasErrors())
	assert.Equal(t, []string{"pages: 770-778 -> 770--778 (conf=0.85, src=local_normalize)"}, r.Entries[0].FixPlanPreview)

	outdir := filepath.Join(dir, "out")
	require.NoError(t, writeReports(outdir, r, true))
	for _, name := range []string{"report.json", "report.csv", "resolved.yaml"} {
		_, err := os.Stat(filepath.Join(outdir, name))
		assert.NoError(t, err, name)
	}

	_, applied, suggested := fix.NewApplier(types.FixConfig{Aggressive: true, HighThreshold: 0.9, MidThreshold: 0.8}).Apply(res.entries, res.plans)
	assert.Len(t, applied, 1)
	assert.Empty(t, suggested)
}

func TestConfigFlagNamesSearchedFiles(t *testing.T) {
	files := defaultConfigFiles()
	assert.Equal(t, []string{"./bibcheck.yaml", "~/.config/bibcheck/bibcheck.yaml"}, files)

	usage := rootCmd.PersistentFlags().Lookup("config").Usage
	for _, f := range files {
		assert.Contains(t, usage, f)
	}
	assert.NotContains(t, usage, "config.yaml")
}

func TestFixedPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "refs.fixed.bib"), fixedPath("out", "/data/refs.bib", ""))
	assert.Equal(t, "x.bib", fixedPath("out", "/data/refs.bib", "x.bib"))
}

func TestPrintSummary(t *testing.T) {
	var b report.Builder
	b.Collect(types.NewEntry("k", "misc", map[string]string{"title": "T"}),
		[]types.Issue{types.NewError(types.IssueBadYear, "invalid year: x", nil)}, nil, nil)

	var buf bytes.Buffer
	printSummary(&buf, b.Build())
	out := buf.String()
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "BAD_YEAR")
	assert.Contains(t, out, "ERROR citekeys: k")
}
