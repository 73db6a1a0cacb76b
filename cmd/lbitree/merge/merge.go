// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package merge implements a command to merge
// the local branching index computed by augur
// into an Auspice JSON tree.
package merge

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/js-arias/command"
	"github.com/js-arias/lbitree/annot"
	"github.com/js-arias/lbitree/cmd/lbitree/report"
	"github.com/js-arias/lbitree/datefill"
	"github.com/js-arias/lbitree/outfile"
	"github.com/js-arias/lbitree/param"
	"github.com/js-arias/lbitree/project"
	"github.com/js-arias/lbitree/tree"
)

var Command = &command.Command{
	Usage: `merge [-t|--tree <auspice-file>] [-l|--lbi <results-file>]
	[-o|--output <file>] [--no-backup] [--project <project-file>]
	[-b|--branch-lengths <file>]
	[--param <param-file>] [--attribute <name>]
	[--title <text>] [--color <scheme>]
	[--plot <image-file>] [--verbose]`,
	Short: "merge local branching index values into an Auspice tree",
	Long: `
Command merge reads the values of the local branching index (LBI) computed by
'augur lbi' and stores them in the nodes of an Auspice JSON tree.

The flag --tree, or -t, indicates the Auspice JSON file. The flag --lbi, or
-l, indicates the file with the values, in Augur node data format.

If the flag --project is defined, the files not given with flags, as well as
the parameter file, will be taken from the indicated project file, and the
names of the files used will be stored in it. Without a project, the flags
--tree and --lbi are required.

By default, the tree file will be replaced with the annotated tree. Use the
flag --output, or -o, to set a different output file. Before an existing file
is replaced, a copy of its content is stored in a file with the suffix
".backup". Use the flag --no-backup to prevent the creation of the copy.

Each value is stored in the "node_attrs" of the node with the same name. The
name of the attribute is "lbi"; use the flag --attribute to define a
different one. Values without a node in the tree are reported as warnings. If
no value matches a node of the tree, the command fails and no file is
written.

If the flag --branch-lengths, or -b, is defined with the branch length file
used to compute the values, all the nodes in that file must have a value.

If the tree does not have a coloring for the attribute, a continuous coloring
will be added. Use the flag --title to set the title of the coloring, and the
flag --color to set the color scheme. Valid color schemes are:

	default       blue, yellow and red, as used by Nextstrain
	gradient      a purple to yellow gradient
	incandescent  the incandescent scheme of Paul Tol
	iridescent    the iridescent scheme of Paul Tol
	rainbow       the rainbow scheme of Paul Tol

These values can also be defined in a parameter file, with the flag --param.
See 'lbitree help parameters'.

If the flag --plot is defined, a plot of the values against the date of each
node will be stored in the indicated image file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeFile string
var lbiFile string
var output string
var brlenFile string
var paramFile string
var projectFile string
var attribute string
var title string
var colorName string
var plotFile string
var noBackup bool
var verbose bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&treeFile, "tree", "", "")
	c.Flags().StringVar(&treeFile, "t", "", "")
	c.Flags().StringVar(&lbiFile, "lbi", "", "")
	c.Flags().StringVar(&lbiFile, "l", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().StringVar(&brlenFile, "branch-lengths", "", "")
	c.Flags().StringVar(&brlenFile, "b", "", "")
	c.Flags().StringVar(&paramFile, "param", "", "")
	c.Flags().StringVar(&projectFile, "project", "", "")
	c.Flags().StringVar(&attribute, "attribute", "", "")
	c.Flags().StringVar(&title, "title", "", "")
	c.Flags().StringVar(&colorName, "color", "", "")
	c.Flags().StringVar(&plotFile, "plot", "", "")
	c.Flags().BoolVar(&noBackup, "no-backup", false, "")
	c.Flags().BoolVar(&verbose, "verbose", false, "")
}

func run(c *command.Command, args []string) error {
	prj, err := project.Open(projectFile)
	if err != nil {
		return err
	}
	flags := map[project.Dataset]string{
		project.Auspice:       treeFile,
		project.Results:       lbiFile,
		project.Output:        output,
		project.BranchLengths: brlenFile,
		project.Params:        paramFile,
	}
	for set, path := range flags {
		if path != "" {
			prj.Add(set, path)
		}
	}
	if prj.Path(project.Auspice) == "" {
		return c.UsageError("expecting tree file, flag --tree")
	}
	if prj.Path(project.Results) == "" {
		return c.UsageError("expecting LBI file, flag --lbi")
	}

	p, err := prj.Params()
	if err != nil {
		return err
	}
	if attribute != "" {
		if err := p.Set(param.Attribute, attribute); err != nil {
			return err
		}
	}
	if title != "" {
		if err := p.Set(param.Title, title); err != nil {
			return err
		}
	}
	if colorName != "" {
		if err := p.Set(param.Color, colorName); err != nil {
			return err
		}
	}

	l := report.New(c.Stderr(), verbose)
	ws, err := Merge(l, prj, Options{
		Plot:     plotFile,
		NoBackup: noBackup,
	}, p)
	if err != nil {
		return err
	}
	if projectFile != "" {
		if err := prj.Write(); err != nil {
			return err
		}
		l.Info("project written", "file", projectFile)
	}
	report.Warnings(l, "merge", ws)
	return nil
}

// Options are the options of a merge.
type Options struct {
	Plot     string // optional, plot image file
	NoBackup bool
}

// Merge reads the annotation values of a project
// and stores them into the Auspice JSON tree
// of the project.
// If the project defines a branch length file,
// all of its nodes must have a value.
// If the project does not define an output file,
// the tree file will be replaced.
// The output is written only if all the steps
// were completed without errors.
// It returns the data quality warnings
// found during the merge.
func Merge(l *log.Logger, prj *project.Project, o Options, p *param.P) (tree.Warnings, error) {
	treeFile := prj.Path(project.Auspice)
	resFile := prj.Path(project.Results)
	output := prj.Path(project.Output)
	if output == "" {
		output = treeFile
	}
	attr := p.Attribute()

	pr := report.Start(l)
	d, err := prj.Auspice()
	if err != nil {
		return nil, err
	}
	ws := d.Warnings()
	pr.Done("tree read", "file", treeFile, "nodes", d.NumNodes())

	res, err := prj.Results(attr)
	if err != nil {
		return nil, err
	}
	l.Debug("values read", "file", resFile, "attribute", attr, "values", len(res))

	if bl := prj.Path(project.BranchLengths); bl != "" {
		rec, err := prj.BranchLengths()
		if err != nil {
			return nil, err
		}
		if err := annot.CheckSchema(rec, res); err != nil {
			return nil, fmt.Errorf("files %q and %q: %w", bl, resFile, err)
		}
	}

	rep, err := annot.Merge(d.Tree(), res, attr)
	if err != nil {
		return nil, fmt.Errorf("files %q and %q: %w", treeFile, resFile, err)
	}
	ws = append(ws, rep.Warnings...)

	cl, err := annot.Coloring(attr, p.Title(), p.Color())
	if err != nil {
		return nil, err
	}
	if d.AddColoring(cl) {
		l.Debug("coloring added", "key", attr, "scheme", p.Color())
	} else {
		l.Debug("coloring already defined", "key", attr)
	}

	var buf bytes.Buffer
	if err := d.Write(&buf, true); err != nil {
		return nil, err
	}

	var img io.WriterTo
	if o.Plot != "" {
		img, err = plotValues(o.Plot, d.Tree(), p)
		if errors.Is(err, datefill.ErrNoTemporalAnchor) {
			l.Warn("plot not created", "file", o.Plot, "err", err)
		} else if err != nil {
			return nil, err
		}
	}

	if !o.NoBackup {
		bName, err := outfile.Backup(output)
		if err != nil {
			return nil, fmt.Errorf("while making backup: %v", err)
		}
		if bName != "" {
			l.Info("backup created", "file", bName)
		}
	}
	err = outfile.Write(output, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	})
	if err != nil {
		return nil, err
	}
	l.Info("tree written", "file", output, "updated", rep.Updated)

	matched := make(annot.Results, rep.Updated)
	for nm, v := range res {
		if d.Tree().Node(nm) != nil {
			matched[nm] = v
		}
	}
	s := annot.Summarize(matched)
	l.Info(attr+" values",
		"n", s.N,
		"min", fmt.Sprintf("%.4f", s.Min),
		"max", fmt.Sprintf("%.4f", s.Max),
		"mean", fmt.Sprintf("%.4f", s.Mean),
		"median", fmt.Sprintf("%.4f", s.Median),
	)

	if img != nil {
		err := outfile.Write(o.Plot, func(w io.Writer) error {
			_, err := img.WriteTo(w)
			return err
		})
		if err != nil {
			return nil, err
		}
		l.Info("plot written", "file", o.Plot)
	}
	return ws, nil
}
