// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"

	"github.com/js-arias/lbitree/annot"
	"github.com/js-arias/lbitree/auspice"
	"github.com/js-arias/lbitree/brlen"
	"github.com/js-arias/lbitree/newick"
	"github.com/js-arias/lbitree/param"
)

// Auspice reads the input tree
// as defined in a project.
func (p *Project) Auspice() (*auspice.Document, error) {
	name := p.Path(Auspice)
	if name == "" {
		return nil, fmt.Errorf("auspice tree not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := auspice.Read(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %w", name, err)
	}
	return d, nil
}

// BranchLengths reads the branch length records
// as defined in a project.
func (p *Project) BranchLengths() (brlen.Data, error) {
	name := p.Path(BranchLengths)
	if name == "" {
		return nil, fmt.Errorf("branch lengths not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := brlen.Read(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return d, nil
}

// Newick reads the Newick tree
// as defined in a project.
func (p *Project) Newick() (*newick.Node, error) {
	name := p.Path(Newick)
	if name == "" {
		return nil, fmt.Errorf("newick tree not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root, err := newick.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return root, nil
}

// Params reads the parameters
// as defined in a project.
// If no parameter file is defined,
// it returns the default parameters.
func (p *Project) Params() (*param.P, error) {
	name := p.Path(Params)
	if name == "" {
		return param.New(""), nil
	}
	return param.Read(name)
}

// Results reads the values of an annotation
// as defined in a project.
func (p *Project) Results(attr string) (annot.Results, error) {
	name := p.Path(Results)
	if name == "" {
		return nil, fmt.Errorf("results not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res, err := annot.ReadResults(f, attr)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return res, nil
}
