// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(auspiceFilesGuide)
	app.Add(parametersGuide)
	app.Add(projectsGuide)
}

var auspiceFilesGuide = &command.Command{
	Usage: "auspice-files",
	Short: "about Auspice and Augur files",
	Long: `
Lbitree reads phylogenetic trees in the Auspice JSON format, used by
Nextstrain. The tree is stored in the "tree" key of the file as nested
objects, each node with the following keys:

	- name        the name of the node (if absent, "strain" is used)
	- children    the list of descendant nodes
	- node_attrs  the attributes of the node
	- branch_attrs

Older files might use "attr" instead of "node_attrs". The attributes used by
lbitree are:

	- div       the cumulative divergence from the root, used to
	            calculate the branch lengths
	- num_date  the date of the node, as a decimal year. It can be a
	            number, or an object with a "value" field, or a
	            "confidence" interval.

If "div" is not defined, the "branch_length" attribute is used. Any other
key of the file is kept untouched when the tree is written.

Here is an example file:

	{
	  "meta": {"title": "ncov"},
	  "tree": {
	    "name": "NODE_0000000",
	    "node_attrs": {"div": 0, "num_date": {"value": 2019.95}},
	    "children": [
	      {"name": "hCoV-19/Wuhan/1/2019", "node_attrs": {"div": 0.0001, "num_date": {"value": 2019.98}}},
	      {"name": "hCoV-19/Chile/1/2020", "node_attrs": {"div": 0.0003, "num_date": {"value": 2020.21}}}
	    ]
	  }
	}

Augur uses the node data format to store values of the nodes. It is a JSON
file with the values stored in the "nodes" key, for example, the branch
length file written by 'lbitree convert' is:

	{
	  "nodes": {
	    "NODE_0000000": {"branch_length": 0, "numdate": 2019.95, "div": 0},
	    "hCoV-19/Wuhan/1/2019": {"branch_length": 0.0001, "numdate": 2019.98, "div": 0.0001}
	  },
	  "generated_by": {"program": "lbitree", "version": "1.0.0"}
	}

And the LBI values computed by 'augur lbi' are:

	{
	  "nodes": {
	    "NODE_0000000": {"lbi": 0.41},
	    "hCoV-19/Wuhan/1/2019": {"lbi": 0.12}
	  }
	}
	`,
}

var parametersGuide = &command.Command{
	Usage: "parameters",
	Short: "about the parameter file",
	Long: `
The parameters used by lbitree commands can be stored in a parameter file.
The recommended way to edit the file is by using the command 'lbitree param'.

A parameter file is a tab-delimited file with the following fields:

	- parameter  the name of the parameter
	- value      the value of the parameter

The valid parameters are:

	- epsilon    the minimum time interval (in years) between an
	             interpolated date and the date of its parent. The default
	             value is 0.0001.
	- tau        the temporal decay used by 'augur lbi'. The default value
	             is 0.3.
	- window     the time window width used by 'augur lbi'. The default
	             value is 0.5.
	- attribute  the name of the annotation. The default is "lbi".
	- title      the title of the annotation coloring.
	- color      the color scheme of the annotation coloring. The default
	             is "default".
	- augur      the augur executable. The default is "augur".

Here is an example file:

	# lbitree parameters
	parameter	value
	epsilon	0.0001
	tau	0.4
	window	0.5
	attribute	lbi
	title	Local Branching Index (LBI)
	color	iridescent
	augur	augur
	`,
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
A project file stores the paths of the files used in a run of 'lbitree run'.
The commands 'lbitree convert', 'lbitree merge', and 'lbitree run' accept a
project file with the flag --project: the files not given with flags are taken
from the project, and the files used are stored in it. In this way, the
output of 'lbitree convert' can be used by 'augur lbi', and then merged with
'lbitree merge --project <project-file> --lbi <results-file>'.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# lbitree project files
	dataset	path
	auspice	ncov.json
	brlen	work/tree_branch_lengths.json
	newick	work/tree.nwk
	output	ncov-lbi.json
	params	work/params.tab
	results	work/tree_lbi.json

The valid file types are:

- Input tree. Defined by the dataset keyword "auspice". The Auspice JSON file
  read in the run.
- Newick tree. Defined by the dataset keyword "newick". The tree in Newick
  format used by augur.
- Branch lengths. Defined by the dataset keyword "brlen". The branch length
  and date of each node, in Augur node data format.
- Results. Defined by the dataset keyword "results". The values computed by
  augur, in Augur node data format.
- Output tree. Defined by the dataset keyword "output". The annotated Auspice
  JSON file.
- Parameters. Defined by the dataset keyword "params". The parameters used in
  the run.
	`,
}
