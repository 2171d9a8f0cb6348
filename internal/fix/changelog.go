// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fix

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bibcheck/pkg/types"
)

// AppendChangeLog appends records to a JSONL audit log, one object per
// line. Concurrent writers are serialized with a lock file next to the log.
func AppendChangeLog(path string, records []types.ChangeRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating change log directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking change log: %w", err)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening change log: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			f.Close()
			return fmt.Errorf("writing change log: %w", err)
		}
	}
	return f.Close()
}

// WriteSummary renders a Markdown summary of a fix run. output names the
// corrected file; dryRun reports that nothing was written.
func WriteSummary(w io.Writer, applied, suggested []types.ChangeRecord, output string, dryRun bool) error {
	var sb strings.Builder
	sb.WriteString("# bibcheck fix summary\n\n")
	fmt.Fprintf(&sb, "- Applied: %d\n", len(applied))
	fmt.Fprintf(&sb, "- Suggested (not applied): %d\n", len(suggested))
	if dryRun {
		sb.WriteString("- Output: none (dry run)\n")
	} else {
		fmt.Fprintf(&sb, "- Output: %s\n", output)
	}
	writeSection(&sb, "Applied", applied)
	writeSection(&sb, "Suggested", suggested)

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeSection(sb *strings.Builder, title string, records []types.ChangeRecord) {
	if len(records) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## %s\n\n", title)
	for _, r := range records {
		fmt.Fprintf(sb, "- %s %s\n", r.CiteKey, r.Preview())
	}
}

// WriteSummaryFile writes the Markdown summary to path.
func WriteSummaryFile(path string, applied, suggested []types.ChangeRecord, output string, dryRun bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating summary directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating fix summary: %w", err)
	}
	if err := WriteSummary(f, applied, suggested, output, dryRun); err != nil {
		f.Close()
		return fmt.Errorf("writing fix summary: %w", err)
	}
	return f.Close()
}

// WritePlans exports plans as a YAML document for review.
func WritePlans(w io.Writer, plans []types.Plan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plans); err != nil {
		return fmt.Errorf("encoding plans: %w", err)
	}
	return enc.Close()
}
