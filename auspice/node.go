// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package auspice

import (
	"encoding/json"
	"fmt"

	"github.com/js-arias/lbitree/tree"
)

// Prefixes used for nodes without a name.
const (
	internalPrefix = "NODE"
	leafPrefix     = "LEAF"
)

// A builder builds tree nodes
// from the node objects of a document.
type builder struct {
	source  map[string]bool // names in the document
	used    map[string]bool // names already assigned
	counter int
	ws      *tree.Warnings
}

// collectNames validates the shape of the tree
// and stores the names found in the document.
func (b *builder) collectNames(obj map[string]any, path string) error {
	if b.source == nil {
		b.source = make(map[string]bool)
	}
	if nm := sourceName(obj); nm != "" {
		b.source[nm] = true
	}

	cv, ok := obj["children"]
	if !ok || cv == nil {
		return nil
	}
	arr, ok := cv.([]any)
	if !ok {
		return &StructureError{Path: path, Msg: "children is not an array"}
	}
	for i, v := range arr {
		cp := fmt.Sprintf("%s.children[%d]", path, i)
		c, ok := v.(map[string]any)
		if !ok {
			return &StructureError{Path: cp, Msg: "node is not a JSON object"}
		}
		if err := b.collectNames(c, cp); err != nil {
			return err
		}
	}
	return nil
}

// node builds a node,
// and all of its descendants,
// from a node object.
func (b *builder) node(obj map[string]any, parent *tree.Node) *tree.Node {
	cs := children(obj)
	n := &tree.Node{
		Name:   b.name(obj, len(cs) == 0),
		Traits: traits(obj),
	}
	n.Date, n.HasDate = date(obj)
	n.Div, n.HasDiv = div(obj)

	if parent == nil {
		if bl, ok := number(obj["branch_length"]); ok && bl > 0 {
			n.BranchLength = bl
		}
	} else {
		b.branchLength(n, obj, parent)
	}

	for _, c := range cs {
		n.Add(b.node(c, n))
	}
	return n
}

// name returns a unique name for a node object.
func (b *builder) name(obj map[string]any, isLeaf bool) string {
	nm := sourceName(obj)
	if nm == "" {
		prefix := internalPrefix
		if isLeaf {
			prefix = leafPrefix
		}
		for {
			nm = fmt.Sprintf("%s_%07d", prefix, b.counter)
			b.counter++
			if !b.source[nm] && !b.used[nm] {
				break
			}
		}
		b.used[nm] = true
		return nm
	}

	if !b.used[nm] {
		b.used[nm] = true
		return nm
	}

	orig := nm
	for i := 2; ; i++ {
		nm = fmt.Sprintf("%s_%d", orig, i)
		if !b.source[nm] && !b.used[nm] {
			break
		}
	}
	b.used[nm] = true
	b.ws.Add(tree.DuplicateName, orig, "renamed to %q", nm)
	return nm
}

// branchLength sets the branch length of a non-root node.
// The divergence difference with the parent is preferred,
// then an explicit branch length.
func (b *builder) branchLength(n *tree.Node, obj map[string]any, parent *tree.Node) {
	var bl float64
	switch {
	case n.HasDiv && parent.HasDiv:
		bl = n.Div - parent.Div
	case n.HasDiv:
		bl = n.Div
	default:
		v, ok := number(obj["branch_length"])
		if !ok {
			b.ws.Add(tree.MissingBranchLength, n.Name, "branch length set to 0")
			return
		}
		bl = v
	}

	if bl < 0 {
		b.ws.Add(tree.NegativeBranchLength, n.Name, "branch length %g set to 0", bl)
		bl = 0
	}
	n.BranchLength = bl
}

// sourceName returns the name of a node object
// as stored in the document.
func sourceName(obj map[string]any) string {
	for _, k := range []string{"name", "strain"} {
		switch v := obj[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

// attrObjects returns the attribute objects of a node,
// the current "node_attrs",
// and the legacy "attr".
func attrObjects(obj map[string]any) []map[string]any {
	var objs []map[string]any
	for _, k := range []string{"node_attrs", "attr"} {
		if m, ok := obj[k].(map[string]any); ok {
			objs = append(objs, m)
		}
	}
	return objs
}

// date returns the date of a node object.
func date(obj map[string]any) (float64, bool) {
	for _, attrs := range attrObjects(obj) {
		v, ok := attrs["num_date"]
		if !ok {
			continue
		}
		if d, ok := number(v); ok {
			return d, true
		}
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if d, ok := number(m["value"]); ok {
			return d, true
		}
		conf, ok := m["confidence"].([]any)
		if !ok || len(conf) != 2 {
			continue
		}
		min, ok1 := number(conf[0])
		max, ok2 := number(conf[1])
		if ok1 && ok2 {
			return (min + max) / 2, true
		}
	}
	return 0, false
}

// div returns the divergence of a node object.
func div(obj map[string]any) (float64, bool) {
	for _, attrs := range attrObjects(obj) {
		v, ok := attrs["div"]
		if !ok {
			continue
		}
		if d, ok := number(v); ok {
			return d, true
		}
		if m, ok := v.(map[string]any); ok {
			if d, ok := number(m["value"]); ok {
				return d, true
			}
		}
	}
	return 0, false
}

// traits returns the scalar attributes of a node object.
func traits(obj map[string]any) map[string]any {
	attrs, ok := obj["node_attrs"].(map[string]any)
	if !ok {
		return nil
	}

	tr := make(map[string]any)
	for k, v := range attrs {
		if k == "div" || k == "num_date" {
			continue
		}
		if m, ok := v.(map[string]any); ok {
			v, ok = m["value"]
			if !ok {
				continue
			}
		}
		switch x := v.(type) {
		case json.Number:
			f, err := x.Float64()
			if err != nil {
				continue
			}
			tr[k] = f
		case string, bool:
			tr[k] = x
		}
	}
	if len(tr) == 0 {
		return nil
	}
	return tr
}
