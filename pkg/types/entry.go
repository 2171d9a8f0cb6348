// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures passed between the
// bibcheck stages: bibliography entries, provider candidates, issues, fix
// actions and the per-stage configuration.
package types

import (
	"maps"
	"sort"
	"strings"
)

// Entry is a single bibliography record as read from a .bib file. Field
// names are stored lower-cased so lookups are case-insensitive.
type Entry struct {
	ID     string            `json:"id" yaml:"id"`
	Type   string            `json:"type" yaml:"type"`
	Fields map[string]string `json:"fields" yaml:"fields"`
}

// NewEntry builds an entry, lower-casing the type and field names.
func NewEntry(id, entryType string, fields map[string]string) Entry {
	e := Entry{ID: id, Type: strings.ToLower(strings.TrimSpace(entryType)), Fields: make(map[string]string, len(fields))}
	for k, v := range fields {
		e.Fields[strings.ToLower(k)] = v
	}
	return e
}

// Get returns the trimmed value of a field, or "" when absent.
func (e Entry) Get(name string) string {
	if e.Fields == nil {
		return ""
	}
	return strings.TrimSpace(e.Fields[strings.ToLower(name)])
}

// Has reports whether the field is present with a non-blank value.
func (e Entry) Has(name string) bool {
	return e.Get(name) != ""
}

// Set writes a field value.
func (e *Entry) Set(name, value string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[strings.ToLower(name)] = value
}

// Delete removes a field if present.
func (e *Entry) Delete(name string) {
	delete(e.Fields, strings.ToLower(name))
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := Entry{ID: e.ID, Type: e.Type}
	if e.Fields != nil {
		out.Fields = maps.Clone(e.Fields)
	}
	return out
}

// Venue returns the journal, booktitle or publisher, in that order.
func (e Entry) Venue() string {
	for _, f := range []string{"journal", "booktitle", "publisher"} {
		if v := e.Get(f); v != "" {
			return v
		}
	}
	return ""
}

// FieldNames returns the entry's field names in sorted order.
func (e Entry) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
