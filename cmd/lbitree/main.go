// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Lbitree is a tool to compute the local branching index
// of the nodes of an Auspice phylogenetic tree.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/lbitree/cmd/lbitree/convert"
	"github.com/js-arias/lbitree/cmd/lbitree/merge"
	"github.com/js-arias/lbitree/cmd/lbitree/paramcmd"
	"github.com/js-arias/lbitree/cmd/lbitree/runcmd"
)

var app = &command.Command{
	Usage: "lbitree <command> [<argument>...]",
	Short: "a tool to compute the local branching index of Auspice trees",
}

func init() {
	app.Add(convert.Command)
	app.Add(merge.Command)
	app.Add(paramcmd.Command)
	app.Add(runcmd.Command)
}

func main() {
	app.Main()
}
