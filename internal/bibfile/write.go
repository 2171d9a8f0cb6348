// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/pdiddy/bibcheck/pkg/types"
)

// BackupSuffix is appended to the original file name by in-place writes.
const BackupSuffix = ".bak"

// Write renders entries in input order. Fields are sorted by name and
// values are brace-delimited; fields whose name starts with "_" are
// internal and dropped. Output for the same entries is byte-identical.
func Write(w io.Writer, entries []types.Entry) error {
	bw := bufio.NewWriter(w)
	for i, e := range entries {
		if i > 0 {
			bw.WriteString("\n")
		}
		fmt.Fprintf(bw, "@%s{%s,\n", e.Type, e.ID)
		for _, name := range e.FieldNames() {
			if strings.HasPrefix(name, "_") {
				continue
			}
			fmt.Fprintf(bw, "  %s = {%s},\n", name, e.Fields[name])
		}
		bw.WriteString("}\n")
	}
	return bw.Flush()
}

// WriteFile writes entries to path through a temporary file and rename.
// With backup set and an existing file at path, the previous contents are
// first copied to path+BackupSuffix. A lock file next to path serializes
// concurrent writers.
func WriteFile(path string, entries []types.Entry, backup bool) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", path, err)
	}
	defer lock.Unlock()

	if backup {
		if err := copyFile(path, path+BackupSuffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("backing up %s: %w", path, err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, entries); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
