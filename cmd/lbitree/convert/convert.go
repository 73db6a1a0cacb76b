// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package convert implements a command to convert
// an Auspice JSON tree
// into a Newick tree
// and a branch length file.
package convert

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/js-arias/command"
	"github.com/js-arias/lbitree/brlen"
	"github.com/js-arias/lbitree/cmd/lbitree/report"
	"github.com/js-arias/lbitree/datefill"
	"github.com/js-arias/lbitree/newick"
	"github.com/js-arias/lbitree/outfile"
	"github.com/js-arias/lbitree/project"
	"github.com/js-arias/lbitree/tree"
)

var Command = &command.Command{
	Usage: `convert [-i|--input <auspice-file>] [-o|--output <newick-file>]
	[-b|--branch-lengths <file>] [--pretty]
	[--param <param-file>] [--epsilon <value>]
	[--project <project-file>] [--verify] [--verbose]`,
	Short: "convert an Auspice tree into Newick and branch length files",
	Long: `
Command convert reads a phylogenetic tree in Auspice JSON format and writes
it as a Newick tree, as well as a branch length file in the Augur node data
format. Both files are the inputs required by 'augur lbi'.

The flag --input, or -i, indicates the Auspice JSON file. The tree must be
stored in the "tree" key of the file. See 'lbitree help auspice-files' for
the details.

The flag --output, or -o, indicates the name of the Newick file.

If the flag --project is defined, the files not given with flags will be taken
from the indicated project file, and the names of the files used will be
stored in it. If the project file does not exist, it will be created. See
'lbitree help projects'. Without a project, the flags --input and --output
are required.

Nodes without a name will be named using "NODE_" for internal nodes and
"LEAF_" for terminals, followed by a seven digit number. Repeated names will
receive a numeric suffix. The same names are used in both output files.

Each node will be dated (as a decimal year) in the branch length file. Nodes
without a date in the Auspice file will be interpolated from the dates of its
ancestors and descendants. The minimum time interval between an interpolated
date and the date of its parent is set with the flag --epsilon. By default it
is 0.0001 years, or the value defined in a parameter file given with the flag
--param.

By default, the branch length file will be stored in the same directory of
the Newick file, using the name of the Newick file with the suffix
"_branch_lengths.json". Use the flag --branch-lengths, or -b, to set a
different name. By default the JSON is written in compact form, use the flag
--pretty to write an indented JSON.

If the flag --verify is defined, the Newick tree will be read back and
compared with the original tree before writing any file.

Data quality problems, such as missing or negative branch lengths, or
interpolated dates older than the date of the parent, are reported as
warnings at the end of the run. Use the flag --verbose to report the progress
of each step.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var input string
var output string
var brlenFile string
var paramFile string
var projectFile string
var epsilon float64
var pretty bool
var verify bool
var verbose bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&input, "input", "", "")
	c.Flags().StringVar(&input, "i", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().StringVar(&brlenFile, "branch-lengths", "", "")
	c.Flags().StringVar(&brlenFile, "b", "", "")
	c.Flags().StringVar(&paramFile, "param", "", "")
	c.Flags().StringVar(&projectFile, "project", "", "")
	c.Flags().Float64Var(&epsilon, "epsilon", 0, "")
	c.Flags().BoolVar(&pretty, "pretty", false, "")
	c.Flags().BoolVar(&verify, "verify", false, "")
	c.Flags().BoolVar(&verbose, "verbose", false, "")
}

func run(c *command.Command, args []string) error {
	prj, err := project.Open(projectFile)
	if err != nil {
		return err
	}
	flags := map[project.Dataset]string{
		project.Auspice:       input,
		project.Newick:        output,
		project.BranchLengths: brlenFile,
		project.Params:        paramFile,
	}
	for set, path := range flags {
		if path != "" {
			prj.Add(set, path)
		}
	}
	if prj.Path(project.Auspice) == "" {
		return c.UsageError("expecting input file, flag --input")
	}
	if prj.Path(project.Newick) == "" {
		return c.UsageError("expecting output file, flag --output")
	}

	p, err := prj.Params()
	if err != nil {
		return err
	}
	eps := p.Epsilon()
	if epsilon > 0 {
		eps = epsilon
	}

	l := report.New(c.Stderr(), verbose)
	ws, err := Convert(l, prj, Options{
		Epsilon: eps,
		Pretty:  pretty,
		Verify:  verify,
	})
	if err != nil {
		return err
	}
	if projectFile != "" {
		if err := prj.Write(); err != nil {
			return err
		}
		l.Info("project written", "file", projectFile)
	}
	report.Warnings(l, "convert", ws)
	return nil
}

// Options are the options of a conversion.
type Options struct {
	Epsilon float64
	Pretty  bool
	Verify  bool
}

// BranchLengthsName returns the default name
// of the branch length file
// for a given Newick file.
func BranchLengthsName(newickFile string) string {
	ext := filepath.Ext(newickFile)
	stem := strings.TrimSuffix(filepath.Base(newickFile), ext)
	return filepath.Join(filepath.Dir(newickFile), stem+"_branch_lengths.json")
}

// Convert reads the Auspice JSON tree of a project
// and writes the Newick and branch length files
// of the project.
// If the project does not define a branch length file,
// the default name is added to the project.
// Files are written only if all the steps
// were completed without errors.
// It returns the data quality warnings
// found during the conversion.
func Convert(l *log.Logger, prj *project.Project, o Options) (tree.Warnings, error) {
	nwkFile := prj.Path(project.Newick)
	if nwkFile == "" {
		return nil, fmt.Errorf("newick tree not defined in project %q", prj.Name())
	}
	if prj.Path(project.BranchLengths) == "" {
		prj.Add(project.BranchLengths, BranchLengthsName(nwkFile))
	}
	blFile := prj.Path(project.BranchLengths)

	pr := report.Start(l)
	d, err := prj.Auspice()
	if err != nil {
		return nil, err
	}
	input := prj.Path(project.Auspice)
	t := d.Tree()
	ws := d.Warnings()
	pr.Done("tree read", "file", input, "nodes", t.Len(), "terminals", len(t.Leaves()))

	var dated int
	for _, n := range t.Nodes() {
		if n.HasDate {
			dated++
		}
	}
	l.Debug("nodes with dates", "dated", dated, "nodes", t.Len())

	fw, err := datefill.Fill(t, o.Epsilon)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %w", input, err)
	}
	ws = append(ws, fw...)
	first, last := dateRange(t)
	l.Debug("dates interpolated", "interpolated", t.Len()-dated, "first", fmt.Sprintf("%.4f", first), "last", fmt.Sprintf("%.4f", last))

	rec, err := brlen.Extract(t)
	if err != nil {
		return nil, err
	}
	var bl bytes.Buffer
	if err := rec.Write(&bl, o.Pretty); err != nil {
		return nil, err
	}

	nwk := newick.String(t)
	if o.Verify {
		if err := verifyNewick(l, nwk, t); err != nil {
			return nil, err
		}
	}

	if err := writeData(nwkFile, []byte(nwk)); err != nil {
		return nil, err
	}
	l.Info("newick tree written", "file", nwkFile)
	if err := writeData(blFile, bl.Bytes()); err != nil {
		return nil, err
	}
	l.Info("branch lengths written", "file", blFile, "nodes", len(rec))

	return ws, nil
}

func dateRange(t *tree.Tree) (first, last float64) {
	for i, n := range t.Nodes() {
		if i == 0 || n.Date < first {
			first = n.Date
		}
		if i == 0 || n.Date > last {
			last = n.Date
		}
	}
	return first, last
}

// verifyNewick reads the Newick tree
// and compares it with the original tree.
// The tree is also read with the package timetree,
// as an independent reader,
// and the number of terminals must be the same.
// If the timetree reader fails
// it is reported as a warning,
// as it might not support all valid Newick trees.
func verifyNewick(l *log.Logger, nwk string, t *tree.Tree) error {
	root, err := newick.Decode(strings.NewReader(nwk))
	if err != nil {
		return fmt.Errorf("while verifying newick tree: %v", err)
	}
	if err := newick.Check(root, t); err != nil {
		return fmt.Errorf("while verifying newick tree: %v", err)
	}
	l.Debug("newick tree verified", "nodes", len(root.Names()))

	tt, err := newick.Timetree(strings.NewReader(nwk), "verify")
	if err != nil {
		l.Warn("newick tree not readable as a time tree", "err", err)
		return nil
	}
	if err := newick.CheckTerms(tt, t); err != nil {
		return fmt.Errorf("while verifying newick tree: %v", err)
	}
	l.Debug("newick tree read as a time tree", "terminals", len(tt.Terms()))
	return nil
}

func writeData(name string, data []byte) error {
	return outfile.Write(name, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
