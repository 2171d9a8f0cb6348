// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fix

import (
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/bibcheck/pkg/types"
)

// Applier applies planned actions that pass its policy and records every
// action, applied or not, as a ChangeRecord.
type Applier struct {
	// RunID tags every ChangeRecord produced by this applier.
	RunID       string
	shouldApply func(types.Action) bool
	now         func() time.Time
}

// NewApplier returns an applier that applies actions with confidence at
// or above the high threshold, or at or above the mid threshold when
// aggressive.
func NewApplier(cfg types.FixConfig) *Applier {
	return newApplier(func(a types.Action) bool {
		if a.Confidence >= cfg.HighThreshold {
			return true
		}
		return cfg.Aggressive && a.Confidence >= cfg.MidThreshold
	})
}

func newApplier(policy func(types.Action) bool) *Applier {
	return &Applier{RunID: uuid.NewString(), shouldApply: policy, now: time.Now}
}

// Apply returns a corrected deep copy of entries together with the applied
// and suggested change records. Plans are matched to entries by citekey in
// order, so duplicate citekeys receive their own plans. The input slice is
// not modified.
func (a *Applier) Apply(entries []types.Entry, plans []types.Plan) ([]types.Entry, []types.ChangeRecord, []types.ChangeRecord) {
	out := make([]types.Entry, len(entries))
	pending := make(map[string][]int)
	for i, e := range entries {
		out[i] = e.Clone()
		pending[e.ID] = append(pending[e.ID], i)
	}

	var applied, suggested []types.ChangeRecord
	ts := a.now().Unix()
	for _, plan := range plans {
		idx, ok := pending[plan.CiteKey]
		if !ok || len(idx) == 0 {
			continue
		}
		pending[plan.CiteKey] = idx[1:]
		entry := &out[idx[0]]

		for _, action := range plan.Actions {
			rec := types.ChangeRecord{Action: action, RunID: a.RunID, Timestamp: ts}
			if !a.shouldApply(action) {
				suggested = append(suggested, rec)
				continue
			}
			for _, f := range action.RemoveFields {
				entry.Delete(f)
			}
			if action.New == "" {
				entry.Delete(action.Field)
			} else {
				entry.Set(action.Field, action.New)
			}
			rec.Applied = true
			applied = append(applied, rec)
		}
	}
	return out, applied, suggested
}
