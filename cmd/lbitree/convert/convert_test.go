// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package convert_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/js-arias/lbitree/auspice"
	"github.com/js-arias/lbitree/brlen"
	"github.com/js-arias/lbitree/cmd/lbitree/convert"
	"github.com/js-arias/lbitree/datefill"
	"github.com/js-arias/lbitree/project"
	"github.com/js-arias/lbitree/tree"
)

const blob = `{"meta": {"title": "test"}, "tree": {
	"name": "root",
	"node_attrs": {"div": 0, "num_date": {"value": 2020}},
	"children": [
		{"node_attrs": {"div": 1}, "children": [
			{"name": "A", "node_attrs": {"div": 2, "num_date": {"value": 2021}}},
			{"name": "B", "node_attrs": {"div": 1.2, "num_date": {"value": 2021.5}}}
		]},
		{"name": "C", "branch_length": -0.2, "node_attrs": {"num_date": {"value": 2020.5}}},
		{"name": "D", "node_attrs": {"num_date": {"value": 2020.7}}}
	]
}}`

func writeFile(t testing.TB, name, data string) {
	t.Helper()

	if err := os.WriteFile(name, []byte(data), 0644); err != nil {
		t.Fatalf("unable to write %q: %v", name, err)
	}
}

func newProject(input, nwk string) *project.Project {
	prj := project.New()
	prj.Add(project.Auspice, input)
	prj.Add(project.Newick, nwk)
	return prj
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tree.json")
	writeFile(t, in, blob)

	nwk := filepath.Join(dir, "tree.nwk")
	ws, err := convert.Convert(log.New(io.Discard), newProject(in, nwk), convert.Options{
		Epsilon: datefill.DefaultEpsilon,
		Verify:  true,
	})
	if err != nil {
		t.Fatalf("unable to convert: %v", err)
	}

	if n := ws.Count(tree.NegativeBranchLength); n != 1 {
		t.Errorf("warnings: got %d negative branch lengths, want %d", n, 1)
	}
	if n := ws.Count(tree.MissingBranchLength); n != 1 {
		t.Errorf("warnings: got %d missing branch lengths, want %d", n, 1)
	}

	b, err := os.ReadFile(nwk)
	if err != nil {
		t.Fatalf("unable to read newick: %v", err)
	}
	want := "((A:1,B:0.2)NODE_0000000:1,C:0,D:0)root;\n"
	if string(b) != want {
		t.Errorf("newick: got %q, want %q", b, want)
	}

	bl := filepath.Join(dir, "tree_branch_lengths.json")
	if got := convert.BranchLengthsName(nwk); got != bl {
		t.Errorf("branch lengths name: got %q, want %q", got, bl)
	}
	f, err := os.Open(bl)
	if err != nil {
		t.Fatalf("unable to open branch lengths: %v", err)
	}
	defer f.Close()
	d, err := brlen.Read(f)
	if err != nil {
		t.Fatalf("unable to read branch lengths: %v", err)
	}
	if len(d) != 6 {
		t.Errorf("branch lengths: got %d nodes, want %d", len(d), 6)
	}
	if r := d["NODE_0000000"]; r.NumDate <= 2020 || r.NumDate >= 2021.5 {
		t.Errorf("node %q: got date %g, want between 2020 and 2021.5", "NODE_0000000", r.NumDate)
	}
}

func TestConvertNoTree(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tree.json")
	writeFile(t, in, `{"meta": {}, "nodes": {}}`)

	nwk := filepath.Join(dir, "tree.nwk")
	_, err := convert.Convert(log.New(io.Discard), newProject(in, nwk), convert.Options{})
	var se *auspice.StructureError
	if !errors.As(err, &se) {
		t.Fatalf("got error %v, want a structure error", err)
	}

	ls, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unable to read dir: %v", err)
	}
	if len(ls) != 1 {
		t.Errorf("files: got %d, want %d", len(ls), 1)
	}
}

func TestConvertNoDates(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tree.json")
	writeFile(t, in, strings.ReplaceAll(blob, "num_date", "date"))

	nwk := filepath.Join(dir, "tree.nwk")
	_, err := convert.Convert(log.New(io.Discard), newProject(in, nwk), convert.Options{})
	if !errors.Is(err, datefill.ErrNoTemporalAnchor) {
		t.Fatalf("got error %v, want %v", err, datefill.ErrNoTemporalAnchor)
	}
	if _, err := os.Stat(nwk); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file %q: created after error", nwk)
	}
}

func TestConvertProject(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tree.json")
	writeFile(t, in, blob)
	nwk := filepath.Join(dir, "tree.nwk")

	prj := newProject(in, nwk)
	if _, err := convert.Convert(log.New(io.Discard), prj, convert.Options{Epsilon: datefill.DefaultEpsilon}); err != nil {
		t.Fatalf("unable to convert: %v", err)
	}

	bl := convert.BranchLengthsName(nwk)
	if got := prj.Path(project.BranchLengths); got != bl {
		t.Errorf("project: got branch lengths %q, want %q", got, bl)
	}

	root, err := prj.Newick()
	if err != nil {
		t.Fatalf("project newick: %v", err)
	}
	d, err := prj.BranchLengths()
	if err != nil {
		t.Fatalf("project branch lengths: %v", err)
	}
	if got, want := root.Names(), d.Names(); !slices.Equal(got, want) {
		t.Errorf("names: newick %v, branch lengths %v", got, want)
	}
}

func TestConvertNoNewick(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tree.json")
	writeFile(t, in, blob)

	prj := project.New()
	prj.Add(project.Auspice, in)
	if _, err := convert.Convert(log.New(io.Discard), prj, convert.Options{}); err == nil {
		t.Errorf("expecting error for undefined newick file")
	}
}
