// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package newick_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/lbitree/newick"
	"github.com/js-arias/lbitree/tree"
)

func newTree(t testing.TB) *tree.Tree {
	t.Helper()

	root := &tree.Node{Name: "root"}
	a := &tree.Node{Name: "NODE_0000001", BranchLength: 0.0025}
	root.Add(a)
	a.Add(&tree.Node{Name: "hCoV-19/Chile/1/2020", BranchLength: 0.0005})
	a.Add(&tree.Node{Name: "it's (odd), isn't it", BranchLength: 1e-7})
	root.Add(&tree.Node{Name: "B", BranchLength: 12})
	root.Add(&tree.Node{Name: "C:1", BranchLength: 0})

	tr, err := tree.New(root)
	if err != nil {
		t.Fatalf("unable to build tree: %v", err)
	}
	return tr
}

func TestEncode(t *testing.T) {
	tr := newTree(t)

	want := "((hCoV-19/Chile/1/2020:0.0005,'it''s (odd), isn''t it':0.0000001)NODE_0000001:0.0025,B:12,'C:1':0)root;\n"
	if got := newick.String(tr); got != want {
		t.Errorf("encode:\ngot  %s\nwant %s", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	tr := newTree(t)

	s := newick.String(tr)
	root, err := newick.Decode(strings.NewReader(s))
	if err != nil {
		t.Fatalf("unable to decode %q: %v", s, err)
	}
	if err := newick.Check(root, tr); err != nil {
		t.Errorf("round trip: %v", err)
	}
	if got := root.Names(); !reflect.DeepEqual(got, tr.Names()) {
		t.Errorf("names: got %v, want %v", got, tr.Names())
	}
}

func TestDecode(t *testing.T) {
	s := `[a comment]
	((a:0.1, b : 0.2 )x[&&NHX:y=1]:1e-3,
	 'c d':2)
	;`
	root, err := newick.Decode(strings.NewReader(s))
	if err != nil {
		t.Fatalf("unable to decode: %v", err)
	}

	if want := []string{"", "a", "b", "c d", "x"}; !reflect.DeepEqual(root.Names(), want) {
		t.Errorf("names: got %v, want %v", root.Names(), want)
	}
	x := root.Children[0]
	if x.Name != "x" || !x.HasLength || x.Length != 0.001 {
		t.Errorf("node x: got %q %v %g", x.Name, x.HasLength, x.Length)
	}
	if b := x.Children[1]; b.Length != 0.2 {
		t.Errorf("node b: got length %g, want %g", b.Length, 0.2)
	}
	if root.HasLength {
		t.Errorf("root: unexpected branch length %g", root.Length)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string]string{
		"no semicolon":   "(a,b)c",
		"unbalanced":     "((a,b)c;",
		"bad length":     "(a:x,b)c;",
		"unterminated":   "('a,b)c;",
		"missing close":  "(a,b;",
		"trailing comma": "(a,b,;",
	}

	for name, s := range tests {
		if _, err := newick.Decode(strings.NewReader(s)); err == nil {
			t.Errorf("%s: expecting error for %q", name, s)
		}
	}
}

func TestCheck(t *testing.T) {
	tr := newTree(t)

	tests := map[string]string{
		"name":     "((hCoV-19/Chile/1/2020:0.0005,'it''s (odd), isn''t it':0.0000001)NODE_0000002:0.0025,B:12,'C:1':0)root;",
		"length":   "((hCoV-19/Chile/1/2020:0.0005,'it''s (odd), isn''t it':0.0000001)NODE_0000001:0.0035,B:12,'C:1':0)root;",
		"children": "((hCoV-19/Chile/1/2020:0.0005)NODE_0000001:0.0025,B:12,'C:1':0)root;",
	}
	for name, s := range tests {
		root, err := newick.Decode(strings.NewReader(s))
		if err != nil {
			t.Fatalf("%s: unable to decode: %v", name, err)
		}
		if err := newick.Check(root, tr); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}
}

func TestFormatLength(t *testing.T) {
	tests := map[float64]string{
		0:          "0",
		1:          "1",
		0.5:        "0.5",
		1e-10:      "0.0000000001",
		1e-12:      "0",
		123.456:    "123.456",
		0.1 + 0.2:  "0.3",
		1234567890: "1234567890",
	}
	for v, want := range tests {
		if got := newick.FormatLength(v); got != want {
			t.Errorf("format %g: got %q, want %q", v, got, want)
		}
	}
}

func TestTimetreeError(t *testing.T) {
	if _, err := newick.Timetree(strings.NewReader(""), "test"); err == nil {
		t.Errorf("expecting error")
	}
}

func fourLeaves(t testing.TB) *tree.Tree {
	t.Helper()

	root := &tree.Node{Name: "root"}
	n := &tree.Node{Name: "N", BranchLength: 1}
	root.Add(n)
	n.Add(&tree.Node{Name: "A", BranchLength: 1})
	n.Add(&tree.Node{Name: "B", BranchLength: 0.2})
	root.Add(&tree.Node{Name: "C"})
	root.Add(&tree.Node{Name: "D"})

	tr, err := tree.New(root)
	if err != nil {
		t.Fatalf("unable to build tree: %v", err)
	}
	return tr
}

func TestCheckTerms(t *testing.T) {
	tr := fourLeaves(t)

	tt, err := newick.Timetree(strings.NewReader("((A:1,B:0.2)N:1,C:0,D:0)root;"), "test")
	if err != nil {
		t.Fatalf("timetree: unexpected error: %v", err)
	}
	if err := newick.CheckTerms(tt, tr); err != nil {
		t.Errorf("check terms: unexpected error: %v", err)
	}
}

func TestCheckTermsMismatch(t *testing.T) {
	tr := fourLeaves(t)

	tt, err := newick.Timetree(strings.NewReader("((A:0.0005,B:0.0003)N:0.0001,C:0.0004)root;"), "test")
	if err != nil {
		t.Fatalf("timetree: unexpected error: %v", err)
	}
	if err := newick.CheckTerms(tt, tr); err == nil {
		t.Errorf("check terms: expecting error: got %d terminals, tree has %d leaves", len(tt.Terms()), len(tr.Leaves()))
	}
}
