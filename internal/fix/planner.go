// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fix turns resolution results into field-level correction plans
// and applies them under a confidence policy. Planning is pure; applying
// works on copies and records every decision as a ChangeRecord.
package fix

import (
	"regexp"
	"strings"

	"github.com/pdiddy/bibcheck/internal/classify"
	"github.com/pdiddy/bibcheck/internal/normalize"
	"github.com/pdiddy/bibcheck/internal/resolve"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// Sources recorded on locally derived actions.
const (
	SourceNormalize      = "normalize"
	SourceArxiv          = "arxiv"
	SourceLocalNormalize = "local_normalize"
)

const arxivHowPublished = "arXiv preprint"

var arxivDOIPrefix = regexp.MustCompile(`(?i)^10\.48550/arxiv\.`)

// currentVenueField returns the first of journal and booktitle that holds
// a value.
func currentVenueField(e types.Entry) string {
	for _, f := range []string{"journal", "booktitle"} {
		if e.Get(f) != "" {
			return f
		}
	}
	return ""
}

// Planner builds correction plans. MidThreshold gates DOI backfill from an
// unresolved candidate.
type Planner struct {
	MidThreshold float64
}

// NewPlanner returns a planner using the fix thresholds.
func NewPlanner(cfg types.FixConfig) *Planner {
	return &Planner{MidThreshold: cfg.MidThreshold}
}

// BuildPlan proposes corrections for one entry. Rules run in a fixed order
// and the first action proposed for a field wins; no action leaves a field
// unchanged.
func (p *Planner) BuildPlan(e types.Entry, _ []types.Issue, res resolve.Resolution) types.Plan {
	b := &planBuilder{entry: e, seen: make(map[string]bool)}

	b.arxivDOI()
	if f := currentVenueField(e); f != "" && strings.Contains(strings.ToLower(e.Get(f)), "arxiv") {
		b.migrateArxiv(f, 0.95, SourceNormalize)
	}

	if res.Resolved != nil {
		b.fromResolved(*res.Resolved, res.Confidence)
	} else {
		b.fromCandidates(res.Candidates, p.MidThreshold)
	}

	if pages := e.Get("pages"); pages != "" {
		b.add("pages", NormalizePages(pages), 0.85, SourceLocalNormalize, "normalize page range")
	}

	plan := types.Plan{CiteKey: e.ID, Actions: b.actions}
	for _, a := range b.actions {
		plan.Preview = append(plan.Preview, a.Preview())
	}
	return plan
}

type planBuilder struct {
	entry   types.Entry
	actions []types.Action
	seen    map[string]bool
}

// add records an action unless the field already has one or the change
// would be a no-op. Removed fields count as acted on.
func (b *planBuilder) add(field, value string, conf float64, source, reason string, remove ...string) {
	old := b.entry.Get(field)
	if b.seen[field] || value == "" || value == old {
		return
	}
	var removals []string
	for _, f := range remove {
		if b.entry.Has(f) && !b.seen[f] {
			removals = append(removals, f)
			b.seen[f] = true
		}
	}
	b.seen[field] = true
	b.actions = append(b.actions, types.Action{
		CiteKey:      b.entry.ID,
		Field:        field,
		Old:          old,
		New:          value,
		Confidence:   min(1, max(0, conf)),
		Source:       source,
		Reason:       reason,
		RemoveFields: removals,
	})
}

// drop records the removal of a field as an action with an empty New.
func (b *planBuilder) drop(field string, conf float64, source, reason string) {
	old := b.entry.Get(field)
	if b.seen[field] || old == "" {
		return
	}
	b.seen[field] = true
	b.actions = append(b.actions, types.Action{
		CiteKey:    b.entry.ID,
		Field:      field,
		Old:        old,
		Confidence: min(1, max(0, conf)),
		Source:     source,
		Reason:     reason,
	})
}

// migrateArxiv moves an arXiv venue held in venueField to howpublished.
// When howpublished already says so only the venue field is dropped.
func (b *planBuilder) migrateArxiv(venueField string, conf float64, source string) {
	if b.entry.Get("howpublished") == arxivHowPublished {
		b.drop(venueField, conf, source, "arXiv venue already in howpublished")
		return
	}
	b.add("howpublished", arxivHowPublished, conf, source, "move arXiv venue to howpublished", venueField)
}

func (b *planBuilder) arxivDOI() {
	doi := b.entry.Get("doi")
	if doi != "" {
		if arxivDOIPrefix.MatchString(doi) {
			b.add("doi", strings.ToLower(doi), 0.95, SourceNormalize, "lower-case arXiv DOI")
		}
		return
	}
	if id := classify.StripVersion(classify.ArxivID(b.entry)); id != "" {
		b.add("doi", "10.48550/arxiv."+strings.ToLower(id), 0.90, SourceArxiv, "derive DOI from arXiv identifier")
	}
}

func (b *planBuilder) fromResolved(c types.Candidate, conf float64) {
	e := b.entry
	src := c.Source
	if src == "" {
		src = "online"
	}

	if doi := normalize.CanonicalDOI(c.DOI); doi != "" && !strings.EqualFold(doi, normalize.DOI(e.Get("doi"))) {
		b.add("doi", doi, conf, src, "DOI from authoritative record")
	}
	if nt := normalize.Title(c.Title); nt != "" && nt != normalize.Title(e.Get("title")) {
		b.add("title", c.Title, conf, src, "title from authoritative record")
	}
	if authors := FormatAuthors(c.Authors); authors != "" && normalize.Title(authors) != normalize.Title(e.Get("author")) {
		b.add("author", authors, conf, src, "authors from authoritative record")
	}
	if year := strings.TrimSpace(c.Year); year != "" {
		b.add("year", year, conf, src, "year from authoritative record")
	}

	if venue := strings.TrimSpace(c.Venue); venue != "" && venue != e.Venue() {
		if strings.Contains(strings.ToLower(venue+" "+e.Venue()), "arxiv") {
			if f := currentVenueField(e); f != "" {
				b.migrateArxiv(f, conf, src)
			} else {
				b.add("howpublished", arxivHowPublished, conf, src, "move arXiv venue to howpublished")
			}
		} else {
			field := "journal"
			if !e.Has("journal") && e.Has("booktitle") {
				field = "booktitle"
			}
			b.add(field, venue, conf, src, "venue from authoritative record")
		}
	}

	b.add("volume", strings.TrimSpace(c.Volume), conf, src, "volume from authoritative record")
	b.add("number", strings.TrimSpace(c.Number), conf, src, "number from authoritative record")
	if c.Pages != "" {
		b.add("pages", NormalizePages(c.Pages), conf, src, "pages from authoritative record")
	}
}

func (b *planBuilder) fromCandidates(candidates []types.Candidate, mid float64) {
	if len(candidates) == 0 || b.entry.Has("doi") {
		return
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	if best.DOI == "" || best.Confidence < mid {
		return
	}
	src := best.Source
	if src == "" {
		src = "candidate"
	}
	b.add("doi", normalize.CanonicalDOI(best.DOI), best.Confidence, src, "DOI from high-confidence candidate")
}
