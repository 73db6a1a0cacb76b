// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package brlen_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/lbitree/auspice"
	"github.com/js-arias/lbitree/brlen"
	"github.com/js-arias/lbitree/datefill"
	"github.com/js-arias/lbitree/newick"
	"github.com/js-arias/lbitree/tree"
)

const blob = `{"tree": {
	"node_attrs": {"div": 0, "num_date": {"value": 2019.5}},
	"children": [
		{"node_attrs": {"div": 1, "region": {"value": "Asia"}}, "children": [
			{"name": "A", "node_attrs": {"div": 2, "num_date": {"value": 2020.5}}},
			{"name": "B c", "node_attrs": {"div": 3, "num_date": {"value": 2020.75}}}
		]},
		{"name": "D", "node_attrs": {"div": 0.5}}
	]
}}`

func readTree(t testing.TB) *tree.Tree {
	t.Helper()

	d, err := auspice.Read(strings.NewReader(blob))
	if err != nil {
		t.Fatalf("unable to read document: %v", err)
	}
	tr := d.Tree()
	if _, err := datefill.Fill(tr, datefill.DefaultEpsilon); err != nil {
		t.Fatalf("unable to fill dates: %v", err)
	}
	return tr
}

func TestExtract(t *testing.T) {
	tr := readTree(t)

	d, err := brlen.Extract(tr)
	if err != nil {
		t.Fatalf("unable to extract records: %v", err)
	}

	// the Newick tree and the records
	// must have the same names
	root, err := newick.Decode(strings.NewReader(newick.String(tr)))
	if err != nil {
		t.Fatalf("unable to decode Newick tree: %v", err)
	}
	if !reflect.DeepEqual(d.Names(), root.Names()) {
		t.Errorf("names: got %v, want %v", d.Names(), root.Names())
	}

	rec := d["B c"]
	if rec.BranchLength != 2 || rec.NumDate != 2020.75 || !rec.HasDiv || rec.Div != 3 {
		t.Errorf("record %q: got %+v", "B c", rec)
	}
	if v := d["NODE_0000001"].Traits["region"]; v != "Asia" {
		t.Errorf("record %q: trait region: got %v, want %q", "NODE_0000001", v, "Asia")
	}
}

func TestExtractUndated(t *testing.T) {
	root := &tree.Node{Name: "root", Date: 2020, HasDate: true}
	root.Add(&tree.Node{Name: "a"})
	tr, err := tree.New(root)
	if err != nil {
		t.Fatalf("unable to build tree: %v", err)
	}

	if _, err := brlen.Extract(tr); err == nil {
		t.Errorf("expecting error for undated node")
	}
}

func TestReadWrite(t *testing.T) {
	tr := readTree(t)
	d, err := brlen.Extract(tr)
	if err != nil {
		t.Fatalf("unable to extract records: %v", err)
	}

	var buf bytes.Buffer
	if err := d.Write(&buf, true); err != nil {
		t.Fatalf("unable to write records: %v", err)
	}
	t.Logf("output:\n%s\n", buf.String())

	nd, err := brlen.Read(&buf)
	if err != nil {
		t.Fatalf("unable to read records: %v", err)
	}
	if !reflect.DeepEqual(nd, d) {
		t.Errorf("read:\ngot  %v\nwant %v", nd, d)
	}
}

func TestReadErrors(t *testing.T) {
	tests := map[string]string{
		"no nodes":     `{"generated_by": {}}`,
		"invalid json": `{"nodes": `,
		"bad length":   `{"nodes": {"a": {"branch_length": "x"}}}`,
		"bad date":     `{"nodes": {"a": {"numdate": null}}}`,
	}
	for name, doc := range tests {
		if _, err := brlen.Read(strings.NewReader(doc)); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}
}
