// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package datefill implements the interpolation
// of missing node dates
// in a phylogenetic tree.
//
// Some computations on a tree,
// for example the local branching index,
// require that each node of the tree has a date.
// Dates in the input data are never modified,
// missing dates are filled in two passes.
//
// In the first pass,
// nodes without a dated ancestor
// are visited from the tips to the root,
// and if all of its children are dated,
// the node is dated just before the oldest child.
//
// In the second pass,
// the remaining nodes are visited from the root to the tips.
// If the node has a dated descendant,
// the date is interpolated between the parent date
// and the date of the closest dated descendant,
// using the branch lengths as weights.
// An interpolated date is never later than the earliest
// of the nearest dated descendants;
// it is set just before that date
// and reported as a warning.
// If the node does not have dated descendants,
// it is dated just after its parent.
// The root,
// if still undated,
// is dated just before its oldest dated descendant.
package datefill

import (
	"errors"
	"fmt"

	"github.com/js-arias/lbitree/tree"
)

// DefaultEpsilon is the default time interval
// (in years)
// used to separate an interpolated node
// from its parent or children.
const DefaultEpsilon = 1e-4

// ErrNoTemporalAnchor is the error returned
// when the tree does not have any dated node.
var ErrNoTemporalAnchor = errors.New("no dated node in tree")

// A NoTemporalAnchorError is returned
// when the tree does not have any dated node.
type NoTemporalAnchorError struct {
	Nodes int // number of nodes in the tree
}

func (e *NoTemporalAnchorError) Error() string {
	return fmt.Sprintf("datefill: %v: %d nodes without date", ErrNoTemporalAnchor, e.Nodes)
}

// Is returns true for ErrNoTemporalAnchor.
func (e *NoTemporalAnchorError) Is(target error) bool {
	return target == ErrNoTemporalAnchor
}

// Fill sets a date for all nodes of a tree
// without a date.
// Eps is the time interval used to separate nodes,
// if eps <= 0,
// DefaultEpsilon will be used.
//
// Interpolated dates older than the date of the parent
// are set just after the parent,
// and interpolated dates at or after the date
// of a dated descendant are set just before that descendant.
// Both cases are reported as warnings.
func Fill(t *tree.Tree, eps float64) (tree.Warnings, error) {
	if eps <= 0 {
		eps = DefaultEpsilon
	}

	nodes := t.Nodes()
	anchored := make(map[*tree.Node]bool, len(nodes))
	var dated, undated int
	for _, n := range nodes {
		if n.HasDate {
			dated++
		} else {
			undated++
		}
		if p := n.Parent(); p != nil {
			anchored[n] = p.HasDate || anchored[p]
		}
	}
	if dated == 0 {
		return nil, &NoTemporalAnchorError{Nodes: len(nodes)}
	}
	if undated == 0 {
		return nil, nil
	}

	bottomUp(nodes, anchored, eps)
	closest := closestDated(nodes)

	var ws tree.Warnings
	for _, n := range nodes {
		if n.HasDate {
			continue
		}

		p := n.Parent()
		ref, ok := closest[n]
		var d float64
		switch {
		case p == nil:
			// an undated root
			d = oldest(nodes) - eps
		case ok:
			d = interpolate(p.Date, ref.date, n.BranchLength, n.BranchLength+ref.dist)
		default:
			d = p.Date + eps
		}

		warned := false
		if ok && d >= ref.earliest {
			ws.Add(tree.NonMonotonicDate, n.Name, "interpolated date %.6f not older than descendant date %.6f", d, ref.earliest)
			d = ref.earliest - eps
			warned = true
		}
		if p != nil && d < p.Date {
			if !warned {
				ws.Add(tree.NonMonotonicDate, n.Name, "interpolated date %.6f older than parent %q date %.6f", d, p.Name, p.Date)
			}
			d = p.Date + eps
		}
		setDate(n, d)
	}
	return ws, nil
}

// bottomUp dates the nodes without a dated ancestor
// if all of its children are dated.
func bottomUp(nodes []*tree.Node, anchored map[*tree.Node]bool, eps float64) {
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if n.HasDate || n.IsLeaf() || anchored[n] {
			continue
		}

		first := n.Children[0].Date
		all := true
		for _, c := range n.Children {
			if !c.HasDate {
				all = false
				break
			}
			if c.Date < first {
				first = c.Date
			}
		}
		if !all {
			continue
		}
		setDate(n, first-eps)
	}
}

// A reference is the closest dated descendant
// of a node.
type reference struct {
	date float64
	dist float64 // sum of branch lengths to the node

	// earliest is the earliest date
	// of the nearest dated descendants
	earliest float64
}

// closestDated returns the closest dated descendant
// of each node.
// On ties,
// the first descendant in pre-order is used.
func closestDated(nodes []*tree.Node) map[*tree.Node]reference {
	closest := make(map[*tree.Node]reference, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]

		var best reference
		found := false
		for _, c := range n.Children {
			var r reference
			if c.HasDate {
				r = reference{date: c.Date, dist: c.BranchLength, earliest: c.Date}
			} else {
				cr, ok := closest[c]
				if !ok {
					continue
				}
				r = reference{date: cr.date, dist: cr.dist + c.BranchLength, earliest: cr.earliest}
			}
			if !found {
				best = r
				found = true
				continue
			}
			earliest := min(best.earliest, r.earliest)
			if r.dist < best.dist {
				best = r
			}
			best.earliest = earliest
		}
		if found {
			closest[n] = best
		}
	}
	return closest
}

// interpolate returns the date of a node
// in the path between an ancestor and a descendant.
// Dist is the distance to the node from the ancestor,
// and total is the distance
// between the ancestor and the descendant.
func interpolate(anc, desc, dist, total float64) float64 {
	if total <= 0 {
		return anc + (desc-anc)/2
	}
	return anc + (dist/total)*(desc-anc)
}

// oldest returns the oldest date in the tree.
func oldest(nodes []*tree.Node) float64 {
	var old float64
	first := true
	for _, n := range nodes {
		if !n.HasDate {
			continue
		}
		if first || n.Date < old {
			old = n.Date
			first = false
		}
	}
	return old
}

func setDate(n *tree.Node, d float64) {
	n.Date = d
	n.HasDate = true
	n.Interpolated = true
}
