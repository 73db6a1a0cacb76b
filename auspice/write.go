// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package auspice

import (
	"encoding/json"
	"fmt"
	"io"
)

// A Coloring is a coloring entry
// of the visualization metadata.
type Coloring struct {
	Key   string
	Title string
	Type  string // for example "continuous"
	Scale []Stop
}

// A Stop is a value-color pair of a color scale.
type Stop struct {
	Value float64
	Color string // hex color, as "#4575b4"
}

func (c Coloring) object() map[string]any {
	obj := map[string]any{
		"key":   c.Key,
		"title": c.Title,
		"type":  c.Type,
	}
	if len(c.Scale) > 0 {
		scale := make([]any, 0, len(c.Scale))
		for _, s := range c.Scale {
			scale = append(scale, []any{s.Value, s.Color})
		}
		obj["scale"] = scale
	}
	return obj
}

// HasColoring returns true if the document
// has a coloring with the given key.
func (d *Document) HasColoring(key string) bool {
	for _, c := range d.colorings {
		if c.Key == key {
			return true
		}
	}

	meta, _ := d.raw["meta"].(map[string]any)
	colorings, _ := meta["colorings"].([]any)
	for _, v := range colorings {
		c, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if k, _ := c["key"].(string); k == key {
			return true
		}
	}
	return false
}

// AddColoring adds a coloring entry
// to the metadata of the document.
// If the document already has a coloring with the same key,
// the coloring is not added,
// and it returns false.
func (d *Document) AddColoring(c Coloring) bool {
	if d.HasColoring(c.Key) {
		return false
	}
	d.colorings = append(d.colorings, c)
	return true
}

// Write writes the document into a writer,
// with the annotations of the tree nodes.
// If indent is true,
// the output will be indented.
func (d *Document) Write(w io.Writer, indent bool) error {
	doc, err := d.patch()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("auspice: while encoding: %v", err)
	}
	return nil
}

// patch returns a copy of the original document
// with the annotations and metadata set.
func (d *Document) patch() (map[string]any, error) {
	doc := clone(d.raw).(map[string]any)

	obj, _ := doc[TreeKey].(map[string]any)
	objs := nodeObjects(obj)
	nodes := d.tree.Nodes()
	if len(objs) != len(nodes) {
		return nil, fmt.Errorf("auspice: tree has %d nodes, document %d", len(nodes), len(objs))
	}

	changed := len(d.colorings) > 0
	for i, n := range nodes {
		if len(n.Annotations) == 0 {
			continue
		}
		changed = true
		setAnnotations(objs[i], n.Annotations)
	}
	if !changed {
		return doc, nil
	}

	meta, ok := doc["meta"].(map[string]any)
	if !ok {
		if _, exists := doc["meta"]; exists {
			return nil, &StructureError{Path: "meta", Msg: "meta is not a JSON object"}
		}
		meta = make(map[string]any)
		doc["meta"] = meta
	}
	if len(d.colorings) > 0 {
		colorings, ok := meta["colorings"].([]any)
		if !ok && meta["colorings"] != nil {
			return nil, &StructureError{Path: "meta.colorings", Msg: "colorings is not an array"}
		}
		for _, c := range d.colorings {
			colorings = append(colorings, c.object())
		}
		meta["colorings"] = colorings
	}
	if _, ok := meta["updated"]; !ok {
		meta["updated"] = "unknown"
	}
	return doc, nil
}

// setAnnotations sets the annotation values
// in a node object.
// The legacy "attr" object is only updated
// if it is already present.
func setAnnotations(obj map[string]any, annot map[string]float64) {
	attrs, ok := obj["node_attrs"].(map[string]any)
	if !ok {
		attrs = make(map[string]any)
		obj["node_attrs"] = attrs
	}
	legacy, _ := obj["attr"].(map[string]any)

	for k, v := range annot {
		attrs[k] = map[string]any{"value": v}
		if legacy != nil {
			legacy[k] = v
		}
	}
}
