// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Action is one proposed field change. New always differs from Old; an
// empty New removes the field.
type Action struct {
	CiteKey      string   `json:"citekey" yaml:"citekey"`
	Field        string   `json:"field" yaml:"field"`
	Old          string   `json:"old" yaml:"old"`
	New          string   `json:"new" yaml:"new"`
	Confidence   float64  `json:"confidence" yaml:"confidence"`
	Source       string   `json:"source" yaml:"source"`
	Reason       string   `json:"reason" yaml:"reason"`
	RemoveFields []string `json:"remove_fields,omitempty" yaml:"remove_fields,omitempty"`
}

// Preview renders the action as a one-line human summary.
func (a Action) Preview() string {
	old := a.Old
	if old == "" {
		old = "<none>"
	}
	next := a.New
	if next == "" {
		next = "<removed>"
	}
	return fmt.Sprintf("%s: %s -> %s (conf=%.2f, src=%s)", a.Field, old, next, a.Confidence, a.Source)
}

// Plan is the ordered list of actions proposed for one entry.
type Plan struct {
	CiteKey string   `json:"citekey" yaml:"citekey"`
	Actions []Action `json:"actions" yaml:"actions"`
	Preview []string `json:"preview" yaml:"preview"`
}

// ChangeRecord is one audit-log line: an action, when it was considered and
// whether it was applied.
type ChangeRecord struct {
	Action    `yaml:",inline"`
	RunID     string `json:"run_id" yaml:"run_id"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
	Applied   bool   `json:"applied" yaml:"applied"`
}
