// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package outfile_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/js-arias/lbitree/outfile"
)

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "tree.nwk")

	err := outfile.Write(name, func(w io.Writer) error {
		_, err := io.WriteString(w, "(a,b)root;\n")
		return err
	})
	if err != nil {
		t.Fatalf("unable to write: %v", err)
	}
	testContent(t, name, "(a,b)root;\n")

	err = outfile.Write(name, func(w io.Writer) error {
		io.WriteString(w, "(a,")
		return errors.New("broken tree")
	})
	if err == nil {
		t.Fatalf("expecting error")
	}
	testContent(t, name, "(a,b)root;\n")

	ls, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unable to read dir: %v", err)
	}
	if len(ls) != 1 {
		t.Errorf("files: got %d, want %d", len(ls), 1)
	}
}

func TestWriteFailure(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "out.json")

	err := outfile.Write(name, func(w io.Writer) error {
		return errors.New("no data")
	})
	if err == nil {
		t.Fatalf("expecting error")
	}
	if _, err := os.Stat(name); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file %q: created after failure", name)
	}
}

func TestWriteKeepsMode(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "params.tab")

	if err := os.WriteFile(name, []byte("old\n"), 0600); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}
	if err := os.Chmod(name, 0600); err != nil {
		t.Fatalf("unable to set mode: %v", err)
	}

	err := outfile.Write(name, func(w io.Writer) error {
		_, err := io.WriteString(w, "new\n")
		return err
	})
	if err != nil {
		t.Fatalf("unable to write: %v", err)
	}
	testContent(t, name, "new\n")

	st, err := os.Stat(name)
	if err != nil {
		t.Fatalf("unable to stat: %v", err)
	}
	if m := st.Mode().Perm(); m != 0600 {
		t.Errorf("mode: got %o, want %o", m, 0600)
	}
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "tree.json")

	bName, err := outfile.Backup(name)
	if err != nil {
		t.Fatalf("backup of missing file: %v", err)
	}
	if bName != "" {
		t.Errorf("backup of missing file: got %q", bName)
	}

	if err := os.WriteFile(name, []byte(`{"tree": {}}`), 0644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}
	bName, err = outfile.Backup(name)
	if err != nil {
		t.Fatalf("unable to backup: %v", err)
	}
	if want := name + outfile.BackupSuffix; bName != want {
		t.Errorf("backup name: got %q, want %q", bName, want)
	}
	testContent(t, bName, `{"tree": {}}`)
}

func testContent(t testing.TB, name, want string) {
	t.Helper()

	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("unable to read %q: %v", name, err)
	}
	if string(b) != want {
		t.Errorf("file %q: got %q, want %q", name, b, want)
	}
}
