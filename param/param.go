// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package param implements reading and writing
// of the parameters used to convert a tree
// and to compute and merge the local branching index.
package param

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/lbitree/annot"
	"github.com/js-arias/lbitree/datefill"
)

// Param is a keyword to identify
// a parameter in a parameter file.
type Param string

// Valid parameters.
const (
	// Epsilon is the time interval
	// used to separate interpolated dates.
	Epsilon Param = "epsilon"

	// Tau is the temporal decay
	// of the local branching index.
	Tau Param = "tau"

	// Window is the time window width
	// of the local branching index.
	Window Param = "window"

	// Attribute is the name of the annotation.
	Attribute Param = "attribute"

	// Title is the title of the annotation coloring.
	Title Param = "title"

	// Color is the color scheme of the annotation coloring.
	Color Param = "color"

	// Augur is the augur executable.
	Augur Param = "augur"
)

// Default values for the local branching index.
const (
	DefaultTau    = 0.3
	DefaultWindow = 0.5
)

// P is a collection of parameters.
type P struct {
	name string // file name

	eps    float64
	tau    float64
	window float64

	attr  string
	title string
	color string
	augur string
}

// New creates a new parameter collection
// with default values.
func New(name string) *P {
	return &P{
		name:   name,
		eps:    datefill.DefaultEpsilon,
		tau:    DefaultTau,
		window: DefaultWindow,
		attr:   annot.DefaultAttribute,
		title:  annot.DefaultTitle,
		color:  "default",
		augur:  "augur",
	}
}

var header = []string{
	"parameter",
	"value",
}

// Read reads a parameter file from a TSV file.
//
// The TSV must contains the following fields:
//
//   - parameter, the name of the parameter
//   - value, the value of the parameter
//
// Here is an example file:
//
//	# lbitree parameters
//	parameter	value
//	epsilon	0.0001
//	tau	0.3
//	window	0.5
//	attribute	lbi
//	color	iridescent
func Read(name string) (*P, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	p.name = name
	return p, nil
}

func read(r io.Reader) (*P, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	p := New("")
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "parameter"
		pm := Param(strings.ToLower(strings.TrimSpace(row[fields[f]])))

		f = "value"
		if err := p.Set(pm, row[fields[f]]); err != nil {
			return nil, fmt.Errorf("on row %d, field %q: %v", ln, f, err)
		}
	}
	return p, nil
}

// Set sets the value of a parameter
// from a string.
func (p *P) Set(pm Param, value string) error {
	value = strings.TrimSpace(value)
	switch pm {
	case Epsilon:
		v, err := positive(value)
		if err != nil {
			return err
		}
		p.eps = v
	case Tau:
		v, err := positive(value)
		if err != nil {
			return err
		}
		p.tau = v
	case Window:
		v, err := positive(value)
		if err != nil {
			return err
		}
		p.window = v
	case Attribute:
		if value == "" {
			return fmt.Errorf("empty attribute name")
		}
		p.attr = value
	case Title:
		p.title = value
	case Color:
		value = strings.ToLower(value)
		if _, ok := annot.Schemes[value]; !ok && value != "default" {
			return fmt.Errorf("unknown color scheme %q", value)
		}
		p.color = value
	case Augur:
		if value == "" {
			return fmt.Errorf("empty augur executable")
		}
		p.augur = value
	default:
		return fmt.Errorf("unknown parameter %q", pm)
	}
	return nil
}

func positive(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid value %v: must be positive", v)
	}
	return v, nil
}

// Name returns the file name of the parameters.
func (p *P) Name() string {
	return p.name
}

// SetName sets the file name of the parameters.
func (p *P) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	p.name = name
}

// Epsilon returns the time interval
// used to separate interpolated dates.
func (p *P) Epsilon() float64 {
	return p.eps
}

// Tau returns the temporal decay
// of the local branching index.
func (p *P) Tau() float64 {
	return p.tau
}

// Window returns the time window width
// of the local branching index.
func (p *P) Window() float64 {
	return p.window
}

// Attribute returns the name of the annotation.
func (p *P) Attribute() string {
	return p.attr
}

// Title returns the title of the annotation coloring.
func (p *P) Title() string {
	return p.title
}

// Color returns the color scheme
// of the annotation coloring.
func (p *P) Color() string {
	return p.color
}

// Augur returns the augur executable.
func (p *P) Augur() string {
	return p.augur
}

// Values returns the parameters
// and its values as strings,
// in a fixed order.
func (p *P) Values() [][2]string {
	return [][2]string{
		{string(Epsilon), strconv.FormatFloat(p.eps, 'g', -1, 64)},
		{string(Tau), strconv.FormatFloat(p.tau, 'g', -1, 64)},
		{string(Window), strconv.FormatFloat(p.window, 'g', -1, 64)},
		{string(Attribute), p.attr},
		{string(Title), p.title},
		{string(Color), p.color},
		{string(Augur), p.augur},
	}
}

// Write writes a parameter collection into a file.
func (p *P) Write() (err error) {
	f, err := os.Create(p.name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := p.write(f); err != nil {
		return fmt.Errorf("on file %q: %v", p.name, err)
	}
	return nil
}

func (p *P) write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# lbitree parameters\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}
	for _, v := range p.Values() {
		if err := tsv.Write(v[:]); err != nil {
			return err
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}
