// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package runcmd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// augur is an invocation of 'augur lbi'.
type augur struct {
	exe    string
	tree   string
	brlen  string
	output string
	attr   string
	tau    float64
	window float64
}

func (a augur) args() []string {
	return []string{
		"lbi",
		"--tree", a.tree,
		"--branch-lengths", a.brlen,
		"--output", a.output,
		"--attribute-names", a.attr,
		"--tau", strconv.FormatFloat(a.tau, 'g', -1, 64),
		"--window", strconv.FormatFloat(a.window, 'g', -1, 64),
	}
}

func (a augur) run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, a.exe, a.args()...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg == "" {
			return fmt.Errorf("while running %s lbi: %v", a.exe, err)
		}
		return fmt.Errorf("while running %s lbi: %v\n%s", a.exe, err, msg)
	}
	return nil
}
