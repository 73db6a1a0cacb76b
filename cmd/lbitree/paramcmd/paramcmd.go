// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package paramcmd implements a command to manage
// the parameters of lbitree commands.
package paramcmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/lbitree/param"
	"github.com/js-arias/lbitree/project"
)

var Command = &command.Command{
	Usage: `param [--project <project-file>]
	<param-file> [<parameter>=<value>...]`,
	Short: "manage lbitree parameters",
	Long: `
Command param manages the parameters used by the commands convert, merge and
run. See 'lbitree help parameters' for a description of each parameter.

The first argument of the command is the name of the parameter file.

By default, the command will print the parameters defined in the file, or the
default values, if the file does not exist.

Any other argument is read as a parameter to be set, in the form
<parameter>=<value>, for example "tau=0.4". If one or more parameters are set,
the file will be updated (or created, if it does not exist).

If the flag --project is defined, the parameter file will be stored in the
indicated project file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var projectFile string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&projectFile, "project", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting parameter file")
	}

	name := args[0]
	p, err := param.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p = param.New(name)
	} else if err != nil {
		return err
	}

	ed := false
	for _, a := range args[1:] {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return c.UsageError(fmt.Sprintf("invalid parameter %q, expecting <parameter>=<value>", a))
		}
		pm := param.Param(strings.ToLower(strings.TrimSpace(k)))
		if err := p.Set(pm, v); err != nil {
			return fmt.Errorf("parameter %q: %v", k, err)
		}
		ed = true
	}

	if ed {
		if err := p.Write(); err != nil {
			return err
		}
	}

	if projectFile != "" {
		if !ed {
			if _, err := os.Stat(name); err != nil {
				if err := p.Write(); err != nil {
					return err
				}
			}
		}
		if err := addToProject(name); err != nil {
			return err
		}
	}

	if !ed {
		printParams(c.Stdout(), p)
	}
	return nil
}

func addToProject(name string) error {
	prj, err := project.Read(projectFile)
	if errors.Is(err, os.ErrNotExist) {
		prj = project.New()
		prj.SetName(projectFile)
	} else if err != nil {
		return fmt.Errorf("unable to open project %q: %v", projectFile, err)
	}
	prj.Add(project.Params, name)
	return prj.Write()
}

func printParams(w io.Writer, p *param.P) {
	fmt.Fprintf(w, "file:       %s\n", p.Name())
	for _, v := range p.Values() {
		fmt.Fprintf(w, "%-11s %s\n", v[0]+":", v[1])
	}
}
