// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var csvHeader = []string{"citekey", "status", "issue_types", "issue_messages", "doi", "title", "year"}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// WriteCSV writes one row per entry. Issue types and messages are joined
// with ";".
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range r.Entries {
		kinds := make([]string, len(e.Issues))
		msgs := make([]string, len(e.Issues))
		for i, iss := range e.Issues {
			kinds[i] = string(iss.Type)
			msgs[i] = iss.Message
		}
		row := []string{
			e.CiteKey, string(e.Status),
			strings.Join(kinds, ";"), strings.Join(msgs, ";"),
			e.Fields.DOI, e.Fields.Title, e.Fields.Year,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row %s: %w", e.CiteKey, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path (and its directory) and writes to it with fn.
func WriteFile(path string, r Report, fn func(io.Writer, Report) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fn(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
