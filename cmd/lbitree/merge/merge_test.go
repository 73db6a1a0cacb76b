// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package merge_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/js-arias/lbitree/annot"
	"github.com/js-arias/lbitree/auspice"
	"github.com/js-arias/lbitree/cmd/lbitree/merge"
	"github.com/js-arias/lbitree/param"
	"github.com/js-arias/lbitree/project"
	"github.com/js-arias/lbitree/tree"
)

const blob = `{"tree": {
	"name": "root",
	"node_attrs": {"div": 0, "num_date": {"value": 2020}},
	"children": [
		{"name": "A", "node_attrs": {"div": 1, "num_date": {"value": 2021}}},
		{"name": "B", "node_attrs": {"div": 2}}
	]
}}`

const results = `{"nodes": {
	"root": {"lbi": 0.5},
	"A": {"lbi": 0.25},
	"B": {"lbi": 1},
	"ghost": {"lbi": 0.75}
}}`

func writeFile(t testing.TB, name, data string) {
	t.Helper()

	if err := os.WriteFile(name, []byte(data), 0644); err != nil {
		t.Fatalf("unable to write %q: %v", name, err)
	}
}

func newProject(tf, rf, out string) *project.Project {
	prj := project.New()
	prj.Add(project.Auspice, tf)
	prj.Add(project.Results, rf)
	prj.Add(project.Output, out)
	return prj
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	tf := filepath.Join(dir, "tree.json")
	writeFile(t, tf, blob)
	rf := filepath.Join(dir, "lbi.json")
	writeFile(t, rf, results)

	ws, err := merge.Merge(log.New(io.Discard), newProject(tf, rf, ""), merge.Options{
		Plot: filepath.Join(dir, "lbi.png"),
	}, param.New(""))
	if err != nil {
		t.Fatalf("unable to merge: %v", err)
	}
	if len(ws) != 1 || ws[0].Kind != tree.OrphanAnnotation || ws[0].Node != "ghost" {
		t.Errorf("warnings: got %v, want one orphan", ws)
	}

	b, err := os.ReadFile(tf + ".backup")
	if err != nil {
		t.Fatalf("unable to read backup: %v", err)
	}
	if string(b) != blob {
		t.Errorf("backup: got %s, want %s", b, blob)
	}

	f, err := os.Open(tf)
	if err != nil {
		t.Fatalf("unable to open output: %v", err)
	}
	defer f.Close()
	d, err := auspice.Read(f)
	if err != nil {
		t.Fatalf("unable to read output: %v", err)
	}
	if !d.HasColoring("lbi") {
		t.Errorf("output: coloring %q not found", "lbi")
	}

	if _, err := os.Stat(filepath.Join(dir, "lbi.png")); err != nil {
		t.Errorf("plot: %v", err)
	}
}

func TestMergeNoBackup(t *testing.T) {
	dir := t.TempDir()
	tf := filepath.Join(dir, "tree.json")
	writeFile(t, tf, blob)
	rf := filepath.Join(dir, "lbi.json")
	writeFile(t, rf, results)
	out := filepath.Join(dir, "out.json")

	p := param.New("")
	if err := p.Set(param.Title, "LBI"); err != nil {
		t.Fatalf("unable to set title: %v", err)
	}
	_, err := merge.Merge(log.New(io.Discard), newProject(tf, rf, out), merge.Options{
		NoBackup: true,
	}, p)
	if err != nil {
		t.Fatalf("unable to merge: %v", err)
	}

	b, err := os.ReadFile(tf)
	if err != nil {
		t.Fatalf("unable to read tree: %v", err)
	}
	if string(b) != blob {
		t.Errorf("input tree modified")
	}
	b, err = os.ReadFile(out)
	if err != nil {
		t.Fatalf("unable to read output: %v", err)
	}
	if !strings.Contains(string(b), `"title": "LBI"`) {
		t.Errorf("output: coloring title not found:\n%s", b)
	}
	if _, err := os.Stat(out + ".backup"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("backup created with no-backup option")
	}
}

func TestMergeSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	tf := filepath.Join(dir, "tree.json")
	writeFile(t, tf, blob)
	rf := filepath.Join(dir, "lbi.json")
	writeFile(t, rf, `{"nodes": {"x": {"lbi": 1}}}`)
	out := filepath.Join(dir, "out.json")

	_, err := merge.Merge(log.New(io.Discard), newProject(tf, rf, out), merge.Options{}, param.New(""))
	var se *annot.SchemaMismatchError
	if !errors.As(err, &se) {
		t.Fatalf("disjoint: got error %v, want a schema mismatch", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file %q: created after error", out)
	}

	// branch lengths with a node without value
	writeFile(t, rf, results)
	bf := filepath.Join(dir, "brlen.json")
	writeFile(t, bf, `{"nodes": {"root": {}, "A": {}, "B": {}, "C": {}}}`)
	prj := newProject(tf, rf, out)
	prj.Add(project.BranchLengths, bf)
	_, err = merge.Merge(log.New(io.Discard), prj, merge.Options{}, param.New(""))
	if !errors.As(err, &se) {
		t.Fatalf("partial: got error %v, want a schema mismatch", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file %q: created after error", out)
	}
}

func TestMergeProjectParams(t *testing.T) {
	dir := t.TempDir()
	tf := filepath.Join(dir, "tree.json")
	writeFile(t, tf, blob)
	rf := filepath.Join(dir, "growth.json")
	writeFile(t, rf, strings.ReplaceAll(results, "lbi", "growth"))
	out := filepath.Join(dir, "out.json")

	pf := filepath.Join(dir, "params.tab")
	pm := param.New(pf)
	if err := pm.Set(param.Attribute, "growth"); err != nil {
		t.Fatalf("unable to set attribute: %v", err)
	}
	if err := pm.Write(); err != nil {
		t.Fatalf("unable to write params: %v", err)
	}

	prj := newProject(tf, rf, out)
	prj.Add(project.Params, pf)
	p, err := prj.Params()
	if err != nil {
		t.Fatalf("project params: %v", err)
	}
	if _, err := merge.Merge(log.New(io.Discard), prj, merge.Options{NoBackup: true}, p); err != nil {
		t.Fatalf("unable to merge: %v", err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("unable to read output: %v", err)
	}
	if !strings.Contains(string(b), `"growth"`) {
		t.Errorf("output: attribute %q not found:\n%s", "growth", b)
	}
}
