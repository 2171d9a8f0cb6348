// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fix

import "github.com/pdiddy/bibcheck/pkg/types"

var (
	highScopeFields = []string{"title", "author", "year", "doi", "url", "eprint", "journal", "howpublished"}
	allScopeExtra   = []string{"booktitle", "volume", "number", "pages"}
)

// ScopeFields returns the fields auto-fix may touch for a scope.
func ScopeFields(scope types.AutoFixScope) map[string]bool {
	fields := make(map[string]bool)
	for _, f := range highScopeFields {
		fields[f] = true
	}
	if scope == types.ScopeAll {
		for _, f := range allScopeExtra {
			fields[f] = true
		}
	}
	return fields
}

// WithLatexApostrophes returns plans whose author actions write
// apostrophes in LaTeX form. Actions that no longer change the field are
// dropped and previews are rebuilt.
func WithLatexApostrophes(plans []types.Plan) []types.Plan {
	out := make([]types.Plan, len(plans))
	for i, plan := range plans {
		p := types.Plan{CiteKey: plan.CiteKey}
		for _, a := range plan.Actions {
			if a.Field == "author" {
				a.New = LatexApostrophes(a.New)
				if a.New == a.Old {
					continue
				}
			}
			p.Actions = append(p.Actions, a)
			p.Preview = append(p.Preview, a.Preview())
		}
		out[i] = p
	}
	return out
}

// NewAutoApplier returns an applier for unattended runs: an action is
// applied when its field is in scope and its confidence reaches the
// minimum. Everything else is suggested.
func NewAutoApplier(cfg types.AutoFixConfig) *Applier {
	fields := ScopeFields(cfg.Scope)
	return newApplier(func(a types.Action) bool {
		return fields[a.Field] && a.Confidence >= cfg.MinConfidence
	})
}
