// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package newick

import (
	"fmt"
	"io"

	"github.com/js-arias/lbitree/tree"
	"github.com/js-arias/timetree"
)

// Timetree reads a Newick tree
// using the time-calibrated tree reader
// of the package timetree,
// with the branch lengths as million years.
// It is used as an independent check
// of a written Newick tree.
func Timetree(r io.Reader, name string) (*timetree.Tree, error) {
	c, err := timetree.Newick(r, name, 0)
	if err != nil {
		return nil, fmt.Errorf("newick: timetree: %v", err)
	}

	ls := c.Names()
	if len(ls) == 0 {
		return nil, fmt.Errorf("newick: timetree: tree not found")
	}
	return c.Tree(ls[0]), nil
}

// CheckTerms returns an error
// if a tree read with the package timetree
// has a different number of terminals
// than a tree.
func CheckTerms(tt *timetree.Tree, t *tree.Tree) error {
	got, want := len(tt.Terms()), len(t.Leaves())
	if got != want {
		return fmt.Errorf("newick: timetree: got %d terminals, want %d", got, want)
	}
	return nil
}
