// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package newick implements reading and writing
// of phylogenetic trees in Newick
// (parenthetical)
// format.
//
// All nodes are written with its name,
// including internal nodes,
// so the nodes of the written tree
// can be matched by name
// with other data about the same tree.
// Names with spaces,
// or any Newick punctuation,
// are quoted with single quotes.
package newick

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/js-arias/lbitree/tree"
)

// Precision is the number of decimal digits
// used for branch lengths.
const Precision = 10

// special are the characters that require
// a name to be quoted.
const special = " \t\r\n()[]':;,"

// Encode writes a tree in Newick format.
// The branch length of the root is omitted.
func Encode(w io.Writer, t *tree.Tree) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, t.Root())
	bw.WriteString(";\n")
	return bw.Flush()
}

// String returns a tree in Newick format.
func String(t *tree.Tree) string {
	var sb strings.Builder
	Encode(&sb, t)
	return sb.String()
}

func writeNode(w *bufio.Writer, n *tree.Node) {
	if !n.IsLeaf() {
		w.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				w.WriteByte(',')
			}
			writeNode(w, c)
		}
		w.WriteByte(')')
	}
	w.WriteString(Quote(n.Name))
	if n.Parent() != nil {
		w.WriteByte(':')
		w.WriteString(FormatLength(n.BranchLength))
	}
}

// Quote returns a node name
// in a form that can be read by a Newick parser.
func Quote(name string) string {
	if name != "" && !strings.ContainsAny(name, special) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// FormatLength formats a branch length
// without exponent,
// and without trailing zeros.
func FormatLength(v float64) string {
	s := strconv.FormatFloat(v, 'f', Precision, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" || s == "-0" {
		return "0"
	}
	return s
}
