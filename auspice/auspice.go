// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package auspice implements reading and writing
// of phylogenetic trees in Auspice JSON format
// (version 2).
//
// An Auspice document is a JSON object
// with the tree stored in the "tree" key,
// and visualization metadata stored in the "meta" key.
// Each node of the tree is an object
// with a name,
// a set of node attributes,
// and an optional array of children.
//
// The original document is never modified.
// When a document is written,
// only the annotations set on the tree nodes
// and the requested metadata entries
// are added to a copy of the original document,
// so any other field is kept as it was read.
package auspice

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/js-arias/lbitree/tree"
)

// TreeKey is the key of the tree container
// in an Auspice document.
const TreeKey = "tree"

// A StructureError is returned when a document
// does not have the expected tree shape.
type StructureError struct {
	// Path is the location of the problem,
	// for example "tree.children[2]".
	Path string
	Msg  string
}

func (e *StructureError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("auspice: invalid document: %s", e.Msg)
	}
	return fmt.Sprintf("auspice: invalid document: at %s: %s", e.Path, e.Msg)
}

// A Document is an Auspice JSON document
// with its phylogenetic tree.
type Document struct {
	raw  map[string]any
	tree *tree.Tree

	colorings []Coloring
	warnings  tree.Warnings
}

// Read reads an Auspice document from a reader.
func Read(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("auspice: while decoding: %v", err)
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, &StructureError{Msg: "document is not a JSON object"}
	}

	tv, ok := raw[TreeKey]
	if !ok {
		return nil, &StructureError{Msg: fmt.Sprintf("key %q not found", TreeKey)}
	}
	obj, ok := tv.(map[string]any)
	if !ok {
		return nil, &StructureError{Path: TreeKey, Msg: "tree is not a JSON object"}
	}

	d := &Document{raw: raw}
	b := &builder{
		used: make(map[string]bool),
		ws:   &d.warnings,
	}
	if err := b.collectNames(obj, TreeKey); err != nil {
		return nil, err
	}
	root := b.node(obj, nil)

	t, err := tree.New(root)
	if err != nil {
		return nil, fmt.Errorf("auspice: %v", err)
	}
	d.tree = t
	return d, nil
}

// Tree returns the phylogenetic tree of the document.
func (d *Document) Tree() *tree.Tree {
	return d.tree
}

// Warnings returns the data quality warnings
// found while reading the document.
func (d *Document) Warnings() tree.Warnings {
	return d.warnings
}

// NumNodes returns the number of nodes
// in the tree container of a document.
func (d *Document) NumNodes() int {
	obj, _ := d.raw[TreeKey].(map[string]any)
	return len(nodeObjects(obj))
}

// nodeObjects returns the node objects
// in pre-order.
func nodeObjects(root map[string]any) []map[string]any {
	if root == nil {
		return nil
	}
	var objs []map[string]any
	var visit func(obj map[string]any)
	visit = func(obj map[string]any) {
		objs = append(objs, obj)
		for _, c := range children(obj) {
			visit(c)
		}
	}
	visit(root)
	return objs
}

// children returns the children objects of a node object.
// Read validates the shape,
// so invalid values are ignored.
func children(obj map[string]any) []map[string]any {
	arr, _ := obj["children"].([]any)
	cs := make([]map[string]any, 0, len(arr))
	for _, v := range arr {
		if c, ok := v.(map[string]any); ok {
			cs = append(cs, c)
		}
	}
	return cs
}

// number returns the value of a JSON number.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// clone returns a deep copy of a decoded JSON value.
func clone(v any) any {
	switch x := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = clone(e)
		}
		return m
	case []any:
		s := make([]any, len(x))
		for i, e := range x {
			s[i] = clone(e)
		}
		return s
	}
	return v
}
