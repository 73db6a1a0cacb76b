// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tree implements an in-memory phylogenetic tree
// with named nodes,
// dates,
// and branch lengths.
//
// A tree is built from a root node,
// each node owns its children,
// and node names are unique in the tree.
package tree

import (
	"fmt"
	"slices"
)

// A Node is a node of a phylogenetic tree,
// either a terminal taxon
// or an internal ancestor.
type Node struct {
	// Name is the unique identifier of the node.
	Name string

	// Children are the descendants of the node.
	// A node without children is a terminal.
	Children []*Node

	// Date is the temporal coordinate of the node
	// (in decimal years).
	// It is only valid if HasDate is true.
	Date    float64
	HasDate bool

	// Interpolated is true if the date
	// was not present in the input data.
	Interpolated bool

	// BranchLength is the distance
	// between the node and its parent.
	BranchLength float64

	// Div is the cumulative divergence from the root,
	// only valid if HasDiv is true.
	Div    float64
	HasDiv bool

	// Traits are additional scalar attributes of the node.
	Traits map[string]any

	// Annotations are numeric values
	// set after an external computation.
	Annotations map[string]float64

	parent *Node
}

// Add adds a child to the node.
func (n *Node) Add(child *Node) {
	child.parent = n
	n.Children = append(n.Children, child)
}

// IsLeaf returns true if the node is a terminal.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Parent returns the parent of the node.
// For the root,
// or a node not yet added to a parent,
// it returns nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// SetAnnotation sets an annotation value of the node.
func (n *Node) SetAnnotation(key string, v float64) {
	if n.Annotations == nil {
		n.Annotations = make(map[string]float64)
	}
	n.Annotations[key] = v
}

// A Tree is a rooted phylogenetic tree.
type Tree struct {
	root  *Node
	nodes []*Node
	names map[string]*Node
}

// New creates a new tree from a root node.
// It returns an error if a node has an empty name,
// or if a name is used by more than one node.
func New(root *Node) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("tree: nil root")
	}
	root.parent = nil

	t := &Tree{
		root:  root,
		names: make(map[string]*Node),
	}

	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Name == "" {
			return nil, fmt.Errorf("tree: node without name")
		}
		if _, dup := t.names[n.Name]; dup {
			return nil, fmt.Errorf("tree: repeated node name %q", n.Name)
		}
		t.names[n.Name] = n
		t.nodes = append(t.nodes, n)

		// push in reverse order
		// so children are visited in pre-order
		for i := len(n.Children) - 1; i >= 0; i-- {
			c := n.Children[i]
			c.parent = n
			stack = append(stack, c)
		}
	}
	return t, nil
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Leaves returns the terminal nodes of the tree
// in pre-order.
func (t *Tree) Leaves() []*Node {
	var ls []*Node
	for _, n := range t.nodes {
		if n.IsLeaf() {
			ls = append(ls, n)
		}
	}
	return ls
}

// Names returns the node names of the tree,
// sorted alphabetically.
func (t *Tree) Names() []string {
	names := make([]string, 0, len(t.names))
	for nm := range t.names {
		names = append(names, nm)
	}
	slices.Sort(names)
	return names
}

// Node returns a node by its name.
// It returns nil if there is no node with that name.
func (t *Tree) Node(name string) *Node {
	return t.names[name]
}

// Nodes returns the nodes of the tree
// in pre-order.
// The returned slice should not be modified.
func (t *Tree) Nodes() []*Node {
	return t.nodes
}

// Root returns the root of the tree.
func (t *Tree) Root() *Node {
	return t.root
}
