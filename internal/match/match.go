// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match scores how well an online candidate matches a local entry.
package match

import (
	"strconv"

	"github.com/pdiddy/bibcheck/internal/normalize"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// Component weights of the overall confidence.
const (
	WeightTitle   = 0.55
	WeightAuthors = 0.30
	WeightYear    = 0.10
	WeightVenue   = 0.05
)

// Components are the per-field similarities, each in [0, 1].
type Components struct {
	Title    float64 `json:"title"`
	Authors  float64 `json:"authors"`
	Year     float64 `json:"year"`
	Venue    float64 `json:"venue"`
	DOIMatch float64 `json:"doi_match"`
}

// Result is the confidence of one entry/candidate pair.
type Result struct {
	Confidence float64    `json:"confidence"`
	Components Components `json:"components"`
}

// Score computes the match confidence. Matching DOIs short-circuit to 1.0;
// otherwise the weighted component sum is clamped to [0, 1].
func Score(e types.Entry, c types.Candidate) Result {
	if normalize.SameDOI(e.Get("doi"), c.DOI) {
		return Result{
			Confidence: 1.0,
			Components: Components{Title: 1, Authors: 1, Year: 1, Venue: 1, DOIMatch: 1},
		}
	}

	comp := Components{
		Title:   titleScore(e.Get("title"), c.Title),
		Authors: authorScore(e.Get("author"), c.Authors),
		Year:    yearScore(e.Get("year"), c.Year),
		Venue:   venueScore(e.Venue(), c.Venue),
	}
	total := WeightTitle*comp.Title + WeightAuthors*comp.Authors + WeightYear*comp.Year + WeightVenue*comp.Venue
	return Result{Confidence: clamp(total), Components: comp}
}

func titleScore(local, remote string) float64 {
	if local == "" || remote == "" {
		return 0
	}
	return float64(normalize.TokenSetRatio(normalize.Title(local), normalize.Title(remote))) / 100
}

// authorScore is the surname overlap divided by the larger surname set.
func authorScore(local string, remote []string) float64 {
	ls := surnames(normalize.Authors(local))
	rs := surnames(remote)
	if len(ls) == 0 || len(rs) == 0 {
		return 0
	}
	overlap := 0
	for s := range ls {
		if rs[s] {
			overlap++
		}
	}
	return float64(overlap) / float64(max(len(ls), len(rs)))
}

func surnames(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		if s := normalize.Surname(n); s != "" {
			out[s] = true
		}
	}
	return out
}

func yearScore(local, remote string) float64 {
	ly, err1 := strconv.Atoi(local)
	ry, err2 := strconv.Atoi(remote)
	if err1 != nil || err2 != nil {
		return 0
	}
	switch d := abs(ly - ry); d {
	case 0:
		return 1.0
	case 1:
		return 0.8
	case 2:
		return 0.5
	default:
		return 0
	}
}

func venueScore(local, remote string) float64 {
	if local == "" || remote == "" {
		return 0
	}
	return float64(normalize.TokenSetRatio(normalize.Title(local), normalize.Title(remote))) / 100
}

func clamp(v float64) float64 {
	return min(1, max(0, v))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
