// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package annot implements the merge
// of node annotations
// computed by an external tool
// (for example, the local branching index computed by augur)
// into a phylogenetic tree.
package annot

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/js-arias/lbitree/brlen"
	"github.com/js-arias/lbitree/tree"
)

// DefaultAttribute is the default name
// of the annotation.
const DefaultAttribute = "lbi"

// Results are the annotation values
// indexed by node name.
type Results map[string]float64

// Names returns the node names of the results,
// sorted alphabetically.
func (res Results) Names() []string {
	names := make([]string, 0, len(res))
	for nm := range res {
		names = append(names, nm)
	}
	slices.Sort(names)
	return names
}

// ReadResults reads the values of an annotation
// from an Augur node data file.
// Nodes without the annotation are ignored.
//
// Here is an example file:
//
//	{
//	  "nodes": {
//	    "NODE_0000000": {"lbi": 0.41},
//	    "hCoV-19/Chile/1/2020": {"lbi": 0.12}
//	  }
//	}
func ReadResults(r io.Reader, attr string) (Results, error) {
	var doc struct {
		Nodes map[string]map[string]any `json:"nodes"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("annot: while decoding: %v", err)
	}
	if doc.Nodes == nil {
		return nil, fmt.Errorf("annot: key %q not found", "nodes")
	}

	res := make(Results, len(doc.Nodes))
	for nm, obj := range doc.Nodes {
		v, ok := obj[attr]
		if !ok {
			continue
		}
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("annot: node %q: invalid %s value %v", nm, attr, v)
		}
		res[nm] = f
	}
	return res, nil
}

// A SchemaMismatchError is returned when the names
// of the results do not match the names
// of a tree or a set of node records.
type SchemaMismatchError struct {
	Msg     string
	Missing []string // names without a result
}

func (e *SchemaMismatchError) Error() string {
	if len(e.Missing) == 0 {
		return "annot: schema mismatch: " + e.Msg
	}
	ls := e.Missing
	more := ""
	if len(ls) > 5 {
		ls = ls[:5]
		more = fmt.Sprintf(" (and %d more)", len(e.Missing)-5)
	}
	return fmt.Sprintf("annot: schema mismatch: %s: %s%s", e.Msg, strings.Join(ls, ", "), more)
}

// A Report is the result of a merge.
type Report struct {
	Updated  int
	Warnings tree.Warnings
}

// Merge sets the annotation values of the results
// in the nodes of a tree.
// Merging the same results again
// produces the same tree.
//
// Results for names not found in the tree
// are reported as warnings.
// If no result matches a node of the tree
// it returns a SchemaMismatchError.
func Merge(t *tree.Tree, res Results, attr string) (Report, error) {
	var matched int
	for nm := range res {
		if t.Node(nm) != nil {
			matched++
		}
	}
	if matched == 0 {
		return Report{}, &SchemaMismatchError{
			Msg: fmt.Sprintf("none of the %d %s values match a node of the tree", len(res), attr),
		}
	}

	var rep Report
	for _, nm := range res.Names() {
		v := res[nm]
		n := t.Node(nm)
		if n == nil {
			rep.Warnings.Add(tree.OrphanAnnotation, nm, "%s value %g without node in tree", attr, v)
			continue
		}
		n.SetAnnotation(attr, v)
		rep.Updated++
	}
	return rep, nil
}

// CheckSchema checks that all nodes
// in a set of node records
// have a result.
func CheckSchema(d brlen.Data, res Results) error {
	var missing []string
	for _, nm := range d.Names() {
		if _, ok := res[nm]; !ok {
			missing = append(missing, nm)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &SchemaMismatchError{
		Msg:     fmt.Sprintf("%d of %d nodes without result", len(missing), len(d)),
		Missing: missing,
	}
}
