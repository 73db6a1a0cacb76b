// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package newick

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/js-arias/lbitree/tree"
)

// A Node is a node read from a Newick tree.
type Node struct {
	Name      string
	Length    float64
	HasLength bool
	Children  []*Node
}

// Names returns the names of the node
// and all of its descendants,
// sorted alphabetically.
func (n *Node) Names() []string {
	var names []string
	var visit func(*Node)
	visit = func(n *Node) {
		names = append(names, n.Name)
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(n)
	slices.Sort(names)
	return names
}

// Decode reads a tree in Newick format
// and returns its root.
func Decode(r io.Reader) (*Node, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := &parser{src: string(b)}
	p.skip()
	root, err := p.node()
	if err != nil {
		return nil, err
	}
	p.skip()
	if !p.eat(';') {
		return nil, p.errorf("expecting ';'")
	}
	return root, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("newick: at byte %d: %s", p.pos, fmt.Sprintf(format, args...))
}

// skip skips white spaces and comments.
func (p *parser) skip() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		case '[':
			end := strings.IndexByte(p.src[p.pos:], ']')
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 1
		default:
			return
		}
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) eat(c byte) bool {
	if p.peek() != c {
		return false
	}
	p.pos++
	return true
}

func (p *parser) node() (*Node, error) {
	n := &Node{}
	if p.eat('(') {
		for {
			p.skip()
			c, err := p.node()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, c)
			p.skip()
			if p.eat(',') {
				continue
			}
			if p.eat(')') {
				break
			}
			return nil, p.errorf("expecting ',' or ')'")
		}
		p.skip()
	}

	name, err := p.label()
	if err != nil {
		return nil, err
	}
	n.Name = name

	p.skip()
	if p.eat(':') {
		p.skip()
		start := p.pos
		for p.pos < len(p.src) && !strings.ContainsRune(special, rune(p.src[p.pos])) {
			p.pos++
		}
		v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
		if err != nil {
			return nil, p.errorf("invalid branch length %q", p.src[start:p.pos])
		}
		n.Length = v
		n.HasLength = true
	}
	return n, nil
}

func (p *parser) label() (string, error) {
	if !p.eat('\'') {
		start := p.pos
		for p.pos < len(p.src) && !strings.ContainsRune(special, rune(p.src[p.pos])) {
			p.pos++
		}
		return p.src[start:p.pos], nil
	}

	var sb strings.Builder
	for {
		end := strings.IndexByte(p.src[p.pos:], '\'')
		if end < 0 {
			return "", p.errorf("unterminated quoted label")
		}
		sb.WriteString(p.src[p.pos : p.pos+end])
		p.pos += end + 1
		if !p.eat('\'') {
			break
		}
		sb.WriteByte('\'')
	}
	return sb.String(), nil
}

// Tolerance is the maximum difference
// accepted between branch lengths
// when a decoded tree is compared with a tree.
const Tolerance = 1e-6

// Check compares a decoded Newick tree
// with a tree.
// It returns an error if the trees have a different shape,
// different node names,
// or different branch lengths.
func Check(root *Node, t *tree.Tree) error {
	return check(root, t.Root(), true)
}

func check(d *Node, n *tree.Node, isRoot bool) error {
	if d.Name != n.Name {
		return fmt.Errorf("newick: got node %q, want %q", d.Name, n.Name)
	}
	if len(d.Children) != len(n.Children) {
		return fmt.Errorf("newick: node %q: got %d children, want %d", n.Name, len(d.Children), len(n.Children))
	}
	if !isRoot && math.Abs(d.Length-n.BranchLength) > Tolerance {
		return fmt.Errorf("newick: node %q: got branch length %g, want %g", n.Name, d.Length, n.BranchLength)
	}
	for i, c := range d.Children {
		if err := check(c, n.Children[i], false); err != nil {
			return err
		}
	}
	return nil
}
