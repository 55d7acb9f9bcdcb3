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
	"flag"
	"fmt"
	"os"

	"github.com/hashicorp/cli"
	"github.com/hashicorp/go-hclog"
	"github.com/posener/complete"

	"github.com/kevinawalsh/rete/config"
)

// RunCommand is `rete run <file>...`: a non-interactive batch runner,
// the scripted equivalent of CommandLine.py's do_load followed by
// do_reset and do_run.
type RunCommand struct {
	ui cli.Ui
}

func (c *RunCommand) Help() string {
	return `Usage: rete run [-strategy=depth] [-firings=n] <file> [file ...]

Loads each file, resets the network (asserting every deffacts fact),
and runs the recognize-act cycle to completion (or until -firings
firings have happened), printing the working memory afterward.`
}

func (c *RunCommand) Synopsis() string { return "Load and run one or more source files" }

func (c *RunCommand) AutocompleteFlags() complete.Flags {
	return complete.Flags{
		"-strategy": complete.PredictSet("depth", "breadth", "random", "complexity", "simplicity", "lex", "mea"),
		"-firings":  complete.PredictAnything,
	}
}

func (c *RunCommand) AutocompleteArgs() complete.Predictor { return complete.PredictFiles("*.clp") }

func (c *RunCommand) Run(args []string) int {
	var strategy string
	var firings int
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.StringVar(&strategy, "strategy", "depth", "initial conflict-resolution strategy")
	fs.IntVar(&firings, "firings", 0, "maximum number of rule firings (0 means unbounded)")
	if err := fs.Parse(args); err != nil {
		c.ui.Error(err.Error())
		return 1
	}
	files := fs.Args()
	if len(files) == 0 {
		c.ui.Error("run: at least one source file is required")
		return 1
	}

	cfg, err := config.Decode(config.Default(), map[string]interface{}{
		"strategy":    strategy,
		"max_firings": firings,
		"files":       files,
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
			return 1
		}
	}

	if err := s.doReset(); err != nil {
		c.ui.Error(err.Error())
		return 1
	}

	var limit *int
	if cfg.MaxFirings > 0 {
		limit = &cfg.MaxFirings
	}
	out, err := s.doRun(limit)
	if err != nil {
		c.ui.Error(err.Error())
		return 1
	}
	c.ui.Output(out)
	c.ui.Output(s.doFacts())
	return 0
}

// loadFile reads path and builds it into s, per CommandLine.py's
// do_load.
func loadFile(s *shell, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to access the file %q: %w", path, err)
	}
	return s.loadSource(path, string(content))
}
