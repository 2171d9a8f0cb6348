// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibfile reads and writes BibTeX files. Parsing problems become
// file-level PARSE_ERROR issues instead of Go errors so that a run can
// still produce a report.
package bibfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/nickng/bibtex"

	"github.com/pdiddy/bibcheck/pkg/types"
)

var stringRe = regexp.MustCompile(`(?i)^\s*@string\b`)

// Read parses the file at path. maxEntries > 0 truncates the result.
func Read(path string, maxEntries int) ([]types.Entry, []types.Issue) {
	f, err := os.Open(path)
	if err != nil {
		return nil, []types.Issue{types.NewError(types.IssueParseError,
			fmt.Sprintf("cannot read file: %v", err), map[string]any{"path": path})}
	}
	defer f.Close()
	return Parse(f, maxEntries)
}

// Parse reads BibTeX from r. Entry types and field names are lower-cased
// and field values have @string macros expanded. When the file does not
// parse as a whole, each @-block is parsed on its own: blocks that parse
// still yield entries and every failing block becomes a PARSE_ERROR issue.
func Parse(r io.Reader, maxEntries int) ([]types.Entry, []types.Issue) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, []types.Issue{types.NewError(types.IssueParseError,
			fmt.Sprintf("cannot read BibTeX: %v", err), nil)}
	}

	bib, err := bibtex.Parse(bytes.NewReader(data))
	if err == nil {
		return convert(bib, maxEntries), nil
	}

	var (
		entries []types.Entry
		issues  []types.Issue
		macros  strings.Builder
	)
	for _, blk := range splitBlocks(data) {
		bib, err := bibtex.Parse(strings.NewReader(macros.String() + blk.text))
		if err != nil {
			issues = append(issues, types.NewError(types.IssueParseError,
				fmt.Sprintf("BibTeX parse failed: %v", err),
				map[string]any{"line": strconv.Itoa(blk.line)}))
			continue
		}
		if stringRe.MatchString(blk.text) {
			macros.WriteString(blk.text)
			macros.WriteString("\n")
		}
		entries = append(entries, convert(bib, 0)...)
	}
	if maxEntries > 0 && len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}
	return entries, issues
}

func convert(bib *bibtex.BibTex, maxEntries int) []types.Entry {
	entries := make([]types.Entry, 0, len(bib.Entries))
	for _, be := range bib.Entries {
		if maxEntries > 0 && len(entries) >= maxEntries {
			break
		}
		fields := make(map[string]string, len(be.Fields))
		for name, value := range be.Fields {
			if value == nil {
				continue
			}
			fields[name] = cleanValue(value.String())
		}
		entries = append(entries, types.NewEntry(be.CiteName, be.Type, fields))
	}
	return entries
}

type block struct {
	line int
	text string
}

// splitBlocks cuts BibTeX source into chunks that each start at a line
// beginning with '@'. Text before the first '@' is dropped.
func splitBlocks(data []byte) []block {
	var (
		blocks []block
		cur    *block
		buf    strings.Builder
	)
	flush := func() {
		if cur != nil {
			cur.text = buf.String()
			blocks = append(blocks, *cur)
		}
		buf.Reset()
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "@") {
			flush()
			cur = &block{line: n}
		}
		if cur != nil {
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	flush()
	return blocks
}

// cleanValue collapses the line breaks and indentation of multi-line
// field values.
func cleanValue(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
