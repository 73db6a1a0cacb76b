// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import "fmt"

// Kind is the kind of a data quality warning.
type Kind string

// Valid warning kinds.
const (
	// A non-root node without a branch length,
	// the length was set to 0.
	MissingBranchLength Kind = "missing-branch-length"

	// A negative branch length,
	// the length was set to 0.
	NegativeBranchLength Kind = "negative-branch-length"

	// A node name used more than once
	// in the input tree.
	DuplicateName Kind = "duplicate-name"

	// An interpolated date older than
	// the date of its parent.
	NonMonotonicDate Kind = "non-monotonic-date"

	// An annotation for a node not found in the tree.
	OrphanAnnotation Kind = "orphan-annotation"
)

// A Warning is a non-fatal data quality condition
// found while processing a tree.
type Warning struct {
	Kind Kind
	Node string
	Msg  string
}

func (w Warning) String() string {
	if w.Node == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Msg)
	}
	return fmt.Sprintf("%s: node %q: %s", w.Kind, w.Node, w.Msg)
}

// Warnings is a list of warnings.
type Warnings []Warning

// Add adds a new warning.
func (ws *Warnings) Add(kind Kind, node, format string, args ...any) {
	*ws = append(*ws, Warning{
		Kind: kind,
		Node: node,
		Msg:  fmt.Sprintf(format, args...),
	})
}

// Count returns the number of warnings
// of the given kind.
func (ws Warnings) Count(kind Kind) int {
	var c int
	for _, w := range ws {
		if w.Kind == kind {
			c++
		}
	}
	return c
}
