// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package runcmd implements a command to run
// the full pipeline:
// conversion of an Auspice tree,
// calculation of the local branching index with augur,
// and merge of the values into the Auspice tree.
package runcmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"

	"github.com/js-arias/command"
	"github.com/js-arias/lbitree/cmd/lbitree/convert"
	"github.com/js-arias/lbitree/cmd/lbitree/merge"
	"github.com/js-arias/lbitree/cmd/lbitree/report"
	"github.com/js-arias/lbitree/param"
	"github.com/js-arias/lbitree/project"
)

var Command = &command.Command{
	Usage: `run [-i|--input <auspice-file>] [-o|--output <file>]
	[--param <param-file>] [--epsilon <value>]
	[--tau <value>] [--window <value>] [--augur <path>]
	[--attribute <name>] [--title <text>] [--color <scheme>]
	[--dir <directory>] [--project <project-file>]
	[--no-backup] [--verbose]`,
	Short: "compute the local branching index of an Auspice tree",
	Long: `
Command run computes the local branching index (LBI) of the nodes of an
Auspice JSON tree. It converts the tree into a Newick tree and a branch length
file (as in 'lbitree convert'), runs 'augur lbi' with these files, and merges
the resulting values into the tree (as in 'lbitree merge').

The flag --input, or -i, is required and indicates the Auspice JSON file. By
default the input file will be replaced by the annotated tree (with a backup
of the original content, unless the flag --no-backup is defined). Use the flag
--output, or -o, to set a different output file.

The augur executable must be installed. By default it is searched as "augur"
in the system path; use the flag --augur to set a different executable. The
flag --tau sets the temporal decay (default 0.3) and the flag --window sets
the time window width (default 0.5) used by augur. The other flags are the
same as in the commands convert and merge. All of them can also be defined in
a parameter file, with the flag --param, the flags override the values in
the file.

By default, the intermediate files are stored in a temporary directory that is
removed at the end of the run. Use the flag --dir to store them in the
indicated directory, that will be kept. If the flag --project is defined, the
names of all the files used in the run will be stored in the indicated project
file. If the project file already exists, the input tree, the output tree, and
the parameter file not given with flags are taken from the project. See
'lbitree help projects'.

Data quality warnings of all the steps are reported at the end of the run.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var input string
var output string
var paramFile string
var workDir string
var projectFile string
var attribute string
var title string
var colorName string
var augurPath string
var epsilon float64
var tau float64
var window float64
var noBackup bool
var verbose bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&input, "input", "", "")
	c.Flags().StringVar(&input, "i", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().StringVar(&paramFile, "param", "", "")
	c.Flags().StringVar(&workDir, "dir", "", "")
	c.Flags().StringVar(&projectFile, "project", "", "")
	c.Flags().StringVar(&attribute, "attribute", "", "")
	c.Flags().StringVar(&title, "title", "", "")
	c.Flags().StringVar(&colorName, "color", "", "")
	c.Flags().StringVar(&augurPath, "augur", "", "")
	c.Flags().Float64Var(&epsilon, "epsilon", 0, "")
	c.Flags().Float64Var(&tau, "tau", 0, "")
	c.Flags().Float64Var(&window, "window", 0, "")
	c.Flags().BoolVar(&noBackup, "no-backup", false, "")
	c.Flags().BoolVar(&verbose, "verbose", false, "")
}

func run(c *command.Command, args []string) (err error) {
	prj, err := project.Open(projectFile)
	if err != nil {
		return err
	}
	if input != "" {
		prj.Add(project.Auspice, input)
	}
	if output != "" {
		prj.Add(project.Output, output)
	}
	if paramFile != "" {
		prj.Add(project.Params, paramFile)
	}
	if prj.Path(project.Auspice) == "" {
		return c.UsageError("expecting input file, flag --input")
	}
	if prj.Path(project.Output) == "" {
		prj.Add(project.Output, prj.Path(project.Auspice))
	}

	p, err := readParams(prj)
	if err != nil {
		return err
	}

	dir := workDir
	if dir == "" {
		dir, err = os.MkdirTemp("", "lbitree-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	stem := "tree"
	prj.Add(project.Newick, filepath.Join(dir, stem+".nwk"))
	prj.Add(project.BranchLengths, filepath.Join(dir, stem+"_branch_lengths.json"))
	prj.Add(project.Results, filepath.Join(dir, stem+"_"+p.Attribute()+".json"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	l := report.New(c.Stderr(), verbose)
	ws, err := convert.Convert(l, prj, convert.Options{
		Epsilon: p.Epsilon(),
		Verify:  true,
	})
	if err != nil {
		return err
	}
	if err := checkNames(prj); err != nil {
		return err
	}

	pr := report.Start(l)
	a := augur{
		exe:    p.Augur(),
		tree:   prj.Path(project.Newick),
		brlen:  prj.Path(project.BranchLengths),
		output: prj.Path(project.Results),
		attr:   p.Attribute(),
		tau:    p.Tau(),
		window: p.Window(),
	}
	l.Debug("running augur", "args", a.args())
	if err := a.run(ctx); err != nil {
		return err
	}
	pr.Done("augur lbi completed", "file", prj.Path(project.Results))

	mws, err := merge.Merge(l, prj, merge.Options{
		NoBackup: noBackup,
	}, p)
	if err != nil {
		return err
	}

	if projectFile != "" {
		if err := writeProject(prj, p, dir); err != nil {
			return err
		}
		l.Info("project written", "file", projectFile)
	}

	report.Warnings(l, "convert", ws)
	report.Warnings(l, "merge", mws)
	return nil
}

// readParams reads the parameters of a project
// and sets the values defined by flags.
func readParams(prj *project.Project) (*param.P, error) {
	p, err := prj.Params()
	if err != nil {
		return nil, err
	}

	flags := []struct {
		p   param.Param
		v   string
		set bool
	}{
		{param.Epsilon, fmt.Sprint(epsilon), epsilon != 0},
		{param.Tau, fmt.Sprint(tau), tau != 0},
		{param.Window, fmt.Sprint(window), window != 0},
		{param.Attribute, attribute, attribute != ""},
		{param.Title, title, title != ""},
		{param.Color, colorName, colorName != ""},
		{param.Augur, augurPath, augurPath != ""},
	}
	for _, f := range flags {
		if !f.set {
			continue
		}
		if err := p.Set(f.p, f.v); err != nil {
			return nil, fmt.Errorf("flag --%s: %v", f.p, err)
		}
	}
	return p, nil
}

// checkNames checks that the Newick tree
// and the branch length file of a project
// have the same node names,
// as required by augur.
func checkNames(prj *project.Project) error {
	root, err := prj.Newick()
	if err != nil {
		return err
	}
	bl, err := prj.BranchLengths()
	if err != nil {
		return err
	}

	names := root.Names()
	if !slices.Equal(names, bl.Names()) {
		return fmt.Errorf("files %q and %q: different node names", prj.Path(project.Newick), prj.Path(project.BranchLengths))
	}
	return nil
}

// writeProject writes the project file of a run.
// Intermediate files are only stored
// if they are kept after the run.
func writeProject(prj *project.Project, p *param.P, dir string) error {
	prj.SetName(projectFile)
	if workDir == "" {
		prj.Add(project.Newick, "")
		prj.Add(project.BranchLengths, "")
		prj.Add(project.Results, "")
		return prj.Write()
	}

	p.SetName(filepath.Join(dir, "params.tab"))
	if err := p.Write(); err != nil {
		return err
	}
	prj.Add(project.Params, p.Name())
	return prj.Write()
}
