// Copyright (c) 2014, Kevin Walsh.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/cli"
	"github.com/hashicorp/go-hclog"
	"github.com/posener/complete"

	"github.com/kevinawalsh/rete/config"
)

// ReplCommand is `rete repl`: an interactive shell reading one
// balanced-parenthesis form per prompt, ported from
// original_source/src/shell/CommandLine.py's cmd.Cmd loop onto a plain
// bufio.Scanner; a form may span several input lines (see readForm).
type ReplCommand struct {
	ui cli.Ui
}

func (c *ReplCommand) Help() string {
	return `Usage: rete repl [-strategy=depth] [-load=file ...]

Starts an interactive shell. Supported forms: (assert ...), (retract ...),
(deffacts ...), (defrule ...), (defglobal ...), (reset), (run [n]),
(facts), (rules), (agenda), (strategy [name]), (quit)/(exit).`
}

func (c *ReplCommand) Synopsis() string { return "Start the interactive rete shell" }

func (c *ReplCommand) AutocompleteFlags() complete.Flags {
	return complete.Flags{
		"-strategy": complete.PredictSet("depth", "breadth", "random", "complexity", "simplicity", "lex", "mea"),
		"-load":     complete.PredictFiles("*.clp"),
	}
}

func (c *ReplCommand) AutocompleteArgs() complete.Predictor { return complete.PredictNothing }

func (c *ReplCommand) Run(args []string) int {
	var strategy string
	var loadFiles stringSliceFlag
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.StringVar(&strategy, "strategy", "depth", "initial conflict-resolution strategy")
	fs.Var(&loadFiles, "load", "source file to load before starting (repeatable)")
	if err := fs.Parse(args); err != nil {
		c.ui.Error(err.Error())
		return 1
	}

	cfg, err := config.Decode(config.Default(), map[string]interface{}{
		"strategy": strategy,
		"files":    []string(loadFiles),
	})
	if err != nil {
		c.ui.Error(err.Error())
		return 1
	}

	log := hclog.New(&hclog.LoggerOptions{Name: "rete", Level: hclog.Warn})
	s := newShell(c.ui, log, cfg)

	for _, f := range cfg.Files {
		if err := loadFile(s, f); err != nil {
			c.ui.Error(err.Error())
		}
	}

	c.ui.Output("rete shell. Type (quit) or (exit) to leave.")
	return c.loop(s)
}

func (c *ReplCommand) loop(s *shell) int {
	reader := bufio.NewScanner(os.Stdin)
	for {
		c.ui.Output("rete> ")
		form, ok := readForm(reader)
		if !ok {
			return 0
		}
		if strings.TrimSpace(form) == "" {
			continue
		}
		out, quit, err := s.execForm(form)
		if err != nil {
			c.ui.Error(err.Error())
			continue
		}
		if out != "" {
			c.ui.Output(out)
		}
		if quit {
			return 0
		}
	}
}

// readForm reads lines from scanner until parentheses balance (or EOF),
// returning the accumulated form and whether anything was read.
func readForm(scanner *bufio.Scanner) (string, bool) {
	var b strings.Builder
	depth := 0
	started := false
	for scanner.Scan() {
		line := scanner.Text()
		for _, r := range line {
			switch r {
			case '(':
				depth++
				started = true
			case ')':
				depth--
			}
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if started && depth <= 0 {
			return b.String(), true
		}
	}
	return b.String(), b.Len() > 0
}

// stringSliceFlag implements flag.Value for a repeatable -load flag.
type stringSliceFlag []string

func (s *stringSliceFlag) String() string { return fmt.Sprint([]string(*s)) }
func (s *stringSliceFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}
