// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve finds the authoritative online record for a bibliography
// entry. Identifier lookups (DOI, arXiv id, GitHub repository) are trusted
// directly; everything else goes through a title search whose pooled
// candidates are scored and gated by confidence thresholds.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pdiddy/bibcheck/internal/classify"
	"github.com/pdiddy/bibcheck/internal/metrics"
	"github.com/pdiddy/bibcheck/internal/normalize"
	"github.com/pdiddy/bibcheck/internal/sources"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// Status is the resolution outcome of one entry.
type Status int

const (
	StatusUnchecked Status = iota
	StatusResolved
	StatusAmbiguous
	StatusLowConfidence
	StatusNotFound
	StatusNothingToCompare
)

func (s Status) String() string {
	switch s {
	case StatusResolved:
		return "RESOLVED"
	case StatusAmbiguous:
		return "AMBIGUOUS"
	case StatusLowConfidence:
		return "LOW_CONFIDENCE"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusNothingToCompare:
		return "NOTHING_TO_COMPARE"
	default:
		return "UNCHECKED"
	}
}

// MarshalText renders the status by name in JSON and YAML output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Resolution is everything learned about one entry online.
type Resolution struct {
	Checked bool          `json:"checked"`
	Status  Status        `json:"status"`
	Kind    classify.Kind `json:"kind"`
	// Resolved is set only when Status is StatusResolved.
	Resolved *types.Candidate `json:"resolved,omitempty"`
	// Confidence of the resolved record, in [0, 1].
	Confidence float64 `json:"confidence,omitempty"`
	// ResolvedByID is true when an identifier lookup produced Resolved.
	ResolvedByID bool `json:"resolved_by_id,omitempty"`
	// BestTitleSimilarity is the 0-100 title similarity of Resolved.
	BestTitleSimilarity *int `json:"best_title_similarity,omitempty"`
	// Candidates are the scored search candidates, best first.
	Candidates []types.Candidate `json:"candidates,omitempty"`
	Issues     []types.Issue     `json:"issues,omitempty"`
}

// Options control which providers are consulted and the gating thresholds.
type Options struct {
	Offline bool
	// Sources are the DOI lookup and search providers in priority order.
	Sources           []string
	EnableArxiv       bool
	EnableCitationCFF bool
	EnableDBLP        bool
	HighThreshold     float64
	MidThreshold      float64
}

// OptionsFromConfig maps the online configuration onto resolver options.
func OptionsFromConfig(cfg types.OnlineConfig) Options {
	return Options{
		Offline:           cfg.Offline,
		Sources:           cfg.Sources,
		EnableArxiv:       cfg.EnableArxiv,
		EnableCitationCFF: cfg.EnableCitationCFF,
		EnableDBLP:        cfg.EnableDBLP,
		HighThreshold:     cfg.HighThreshold,
		MidThreshold:      cfg.MidThreshold,
	}
}

// Resolver runs the per-entry resolution flow.
type Resolver struct {
	sources sources.Registry
	opts    Options
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New returns a resolver over the given provider registry. A nil logger
// discards output; nil metrics record nothing.
func New(reg sources.Registry, opts Options, logger *slog.Logger, m *metrics.Metrics) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{sources: reg, opts: opts, logger: logger, metrics: m}
}

// Resolve classifies the entry and resolves it online. Provider failures
// degrade to absence; Resolve never fails.
func (r *Resolver) Resolve(ctx context.Context, e types.Entry) Resolution {
	res := Resolution{Kind: classify.Classify(e)}
	if r.opts.Offline {
		return res
	}
	res.Checked = true

	switch doi := normalize.DOI(e.Get("doi")); {
	case doi != "":
		r.resolveDOI(ctx, e, doi, &res)
	case res.Kind == classify.KindPreprintArxiv:
		r.resolveArxiv(ctx, e, &res)
	case res.Kind == classify.KindSoftwareGitHub:
		r.resolveCitationCFF(ctx, e, &res)
	default:
		r.resolveSearch(ctx, e, &res)
	}

	r.metrics.ObserveResolution(res.Status.String())
	return res
}

func (r *Resolver) resolveDOI(ctx context.Context, e types.Entry, doi string, res *Resolution) {
	for _, name := range r.opts.Sources {
		if c := r.fetch(ctx, name, doi); c != nil {
			r.accept(e, *c, res)
			return
		}
	}
	res.Status = StatusNotFound
	res.Issues = append(res.Issues, types.NewError(types.IssueDOINotFound,
		fmt.Sprintf("DOI %s not found in any online source", doi), map[string]any{"doi": doi}))
}

func (r *Resolver) resolveArxiv(ctx context.Context, e types.Entry, res *Resolution) {
	id := classify.ArxivID(e)
	if r.opts.EnableArxiv && id != "" {
		if c := r.fetch(ctx, "arxiv", id); c != nil {
			r.accept(e, *c, res)
			return
		}
	}
	res.Status = StatusNotFound
	res.Issues = append(res.Issues, types.NewError(types.IssueNotFoundOnArxiv,
		fmt.Sprintf("arXiv record %s not found", id), map[string]any{"arxiv_id": id}))
}

func (r *Resolver) resolveCitationCFF(ctx context.Context, e types.Entry, res *Resolution) {
	repo := classify.GitHubRepo(e)
	if r.opts.EnableCitationCFF {
		if c := r.fetch(ctx, "citation_cff", repo); c != nil {
			r.accept(e, *c, res)
			return
		}
	}
	res.Status = StatusNothingToCompare
	res.Issues = append(res.Issues, types.NewWarning(types.IssueCitationCFFMissing,
		fmt.Sprintf("no CITATION.cff found for github.com/%s", repo), map[string]any{"repo": repo}))
}

func (r *Resolver) resolveSearch(ctx context.Context, e types.Entry, res *Resolution) {
	q := sources.Query{
		Title:  normalize.Title(e.Get("title")),
		Year:   e.Get("year"),
		Author: normalize.FirstAuthor(e.Get("author")),
	}

	names := append([]string(nil), r.opts.Sources...)
	if res.Kind == classify.KindScholarlyCSLike && r.opts.EnableDBLP && !contains(names, "dblp") {
		names = append(names, "dblp")
	}

	var pool []types.Candidate
	for _, name := range names {
		src, ok := r.sources[name]
		if !ok {
			continue
		}
		found, err := src.Search(ctx, q)
		if err != nil {
			r.logger.Warn("search failed", "source", name, "citekey", e.ID, "error", err)
			continue
		}
		pool = append(pool, found...)
	}

	g := gate(e, pool, r.opts.HighThreshold, r.opts.MidThreshold)
	res.Status = g.status
	res.Candidates = g.scored
	res.Issues = append(res.Issues, g.issues...)
	if g.status == StatusResolved {
		best := g.scored[0]
		sim := normalize.TitleSimilarity(e.Get("title"), best.Title)
		res.Resolved = &best
		res.Confidence = best.Confidence
		res.BestTitleSimilarity = &sim
		res.Issues = append(res.Issues, compareMetadata(e, best)...)
	}
}

// fetch looks up one identifier, treating every failure as absence.
func (r *Resolver) fetch(ctx context.Context, name, id string) *types.Candidate {
	src, ok := r.sources[name]
	if !ok || id == "" {
		return nil
	}
	c, err := src.FetchByID(ctx, id)
	if err != nil {
		if !errors.Is(err, sources.ErrNotFound) {
			r.logger.Warn("lookup failed", "source", name, "id", id, "error", err)
		}
		return nil
	}
	return c
}

// accept records an identifier hit as the resolved record.
func (r *Resolver) accept(e types.Entry, c types.Candidate, res *Resolution) {
	sim := normalize.TitleSimilarity(e.Get("title"), c.Title)
	c.Confidence = identifierConfidence(e, c, sim)

	res.Status = StatusResolved
	res.ResolvedByID = true
	res.Resolved = &c
	res.Confidence = c.Confidence
	res.BestTitleSimilarity = &sim
	res.Issues = append(res.Issues, compareMetadata(e, c)...)
}

// identifierConfidence rates a record found by identifier. A record that
// carries a DOI is fully trusted; otherwise title similarity sets the
// confidence, capped at 0.7 when the first authors disagree.
func identifierConfidence(e types.Entry, c types.Candidate, titleSim int) float64 {
	score := 0.0
	if c.DOI != "" {
		score = 1.0
	}
	score = max(score, float64(titleSim)/100)
	if c.DOI == "" && !firstAuthorsMatch(e.Get("author"), c.Authors) {
		score = min(score, 0.7)
	}
	return min(1, max(0, score))
}

func firstAuthorsMatch(local string, remote []string) bool {
	l := normalize.FirstAuthor(local)
	if l == "" || len(remote) == 0 {
		return true
	}
	return normalize.Surname(l) == normalize.Surname(remote[0])
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
