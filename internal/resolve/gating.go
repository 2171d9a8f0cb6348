// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"sort"

	"github.com/pdiddy/bibcheck/internal/match"
	"github.com/pdiddy/bibcheck/internal/normalize"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// topN is how many candidates are attached to ambiguity issues.
const topN = 3

type gateResult struct {
	status Status
	scored []types.Candidate
	issues []types.Issue
}

// gate scores a pool of search candidates and decides whether the best one
// is trustworthy. Thresholds are inclusive on their lower bound.
func gate(e types.Entry, pool []types.Candidate, high, mid float64) gateResult {
	if len(pool) == 0 {
		sev := types.NewError
		if normalize.ContainsCJK(e.Get("title")) {
			sev = types.NewWarning
		}
		return gateResult{
			status: StatusNotFound,
			issues: []types.Issue{sev(types.IssueNotFoundOnline, "no online candidate found", nil)},
		}
	}

	scored := make([]types.Candidate, len(pool))
	for i, c := range pool {
		c.Confidence = match.Score(e, c).Confidence
		scored[i] = c
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Confidence > scored[j].Confidence
	})
	best := scored[0]

	switch {
	case best.Confidence >= high:
		var issues []types.Issue
		if !e.Has("doi") && best.DOI != "" {
			issues = append(issues, types.NewWarning(types.IssueCandidateFoundNoDOI,
				"high-confidence candidate found; consider adding DOI "+best.DOI,
				map[string]any{"doi": best.DOI, "source": best.Source, "confidence": best.Confidence}))
		}
		return gateResult{status: StatusResolved, scored: scored, issues: issues}
	case best.Confidence >= mid:
		return gateResult{
			status: StatusAmbiguous,
			scored: scored,
			issues: []types.Issue{types.NewWarning(types.IssueAmbiguousMatch,
				"several plausible candidates; manual review needed", topCandidates(scored))},
		}
	default:
		return gateResult{
			status: StatusLowConfidence,
			scored: scored,
			issues: []types.Issue{types.NewWarning(types.IssueLowConfidenceCandidate,
				"best online candidate has low confidence", topCandidates(scored))},
		}
	}
}

func topCandidates(scored []types.Candidate) map[string]any {
	n := min(topN, len(scored))
	out := make([]map[string]any, 0, n)
	for _, c := range scored[:n] {
		out = append(out, map[string]any{
			"title":      c.Title,
			"year":       c.Year,
			"doi":        c.DOI,
			"source":     c.Source,
			"confidence": c.Confidence,
		})
	}
	return map[string]any{"candidates": out}
}
