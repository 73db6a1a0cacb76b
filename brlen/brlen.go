// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package brlen implements the extraction
// of the branch length and date
// of each node of a tree,
// and its reading and writing as an Augur node data file.
//
// An Augur node data file is a JSON object
// with the data of each node stored
// in the "nodes" key,
// using the node name as the key.
// Here is an example file:
//
//	{
//	  "nodes": {
//	    "NODE_0000000": {"branch_length": 0, "numdate": 2019.95, "div": 0},
//	    "hCoV-19/Chile/1/2020": {"branch_length": 0.0005, "numdate": 2020.25, "div": 0.0005}
//	  },
//	  "generated_by": {"program": "lbitree", "version": "1.0.0"}
//	}
package brlen

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/js-arias/lbitree/tree"
)

// Program and version
// written in the "generated_by" field.
const (
	Program = "lbitree"
	Version = "1.0.0"
)

// Field names of a node record.
const (
	BranchLength = "branch_length"
	NumDate      = "numdate"
	Div          = "div"
)

// A Record is the data of a node.
type Record struct {
	BranchLength float64
	NumDate      float64
	Div          float64
	HasDiv       bool

	// Traits are additional scalar values
	// of the node.
	Traits map[string]any
}

// Data is a collection of node records,
// indexed by node name.
type Data map[string]Record

// Extract returns the records of all nodes in a tree.
// All nodes must have a date.
func Extract(t *tree.Tree) (Data, error) {
	d := make(Data, t.Len())
	for _, n := range t.Nodes() {
		if !n.HasDate {
			return nil, fmt.Errorf("brlen: node %q: undefined date", n.Name)
		}
		d[n.Name] = Record{
			BranchLength: n.BranchLength,
			NumDate:      n.Date,
			Div:          n.Div,
			HasDiv:       n.HasDiv,
			Traits:       n.Traits,
		}
	}
	return d, nil
}

// Names returns the node names of the records,
// sorted alphabetically.
func (d Data) Names() []string {
	names := make([]string, 0, len(d))
	for nm := range d {
		names = append(names, nm)
	}
	slices.Sort(names)
	return names
}

// Write writes the records
// as an Augur node data file.
// If pretty is true,
// the output will be indented.
func (d Data) Write(w io.Writer, pretty bool) error {
	nodes := make(map[string]map[string]any, len(d))
	for nm, r := range d {
		obj := make(map[string]any, len(r.Traits)+3)
		for k, v := range r.Traits {
			obj[k] = v
		}
		obj[BranchLength] = r.BranchLength
		obj[NumDate] = r.NumDate
		if r.HasDiv {
			obj[Div] = r.Div
		}
		nodes[nm] = obj
	}

	doc := map[string]any{
		"nodes": nodes,
		"generated_by": map[string]string{
			"program": Program,
			"version": Version,
		},
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("brlen: while encoding: %v", err)
	}
	return nil
}

// Read reads records from an Augur node data file.
func Read(r io.Reader) (Data, error) {
	var doc struct {
		Nodes map[string]map[string]any `json:"nodes"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("brlen: while decoding: %v", err)
	}
	if doc.Nodes == nil {
		return nil, fmt.Errorf("brlen: key %q not found", "nodes")
	}

	d := make(Data, len(doc.Nodes))
	for nm, obj := range doc.Nodes {
		var rec Record
		for k, v := range obj {
			f, isNum := v.(float64)
			switch k {
			case BranchLength:
				if !isNum {
					return nil, fmt.Errorf("brlen: node %q: invalid %s value %v", nm, k, v)
				}
				rec.BranchLength = f
			case NumDate:
				if !isNum {
					return nil, fmt.Errorf("brlen: node %q: invalid %s value %v", nm, k, v)
				}
				rec.NumDate = f
			case Div:
				if !isNum {
					return nil, fmt.Errorf("brlen: node %q: invalid %s value %v", nm, k, v)
				}
				rec.Div = f
				rec.HasDiv = true
			default:
				if rec.Traits == nil {
					rec.Traits = make(map[string]any)
				}
				rec.Traits[k] = v
			}
		}
		d[nm] = rec
	}
	return d, nil
}
