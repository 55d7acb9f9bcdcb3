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

// Package main is rete's command-line front end: an interactive shell
// (`rete repl`) and a batch runner (`rete run <file>...`), ported from
// original_source/src/shell/CommandLine.py's command set onto
// hashicorp/cli subcommands.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/cli"
	"github.com/hashicorp/go-hclog"

	"github.com/kevinawalsh/rete"
	"github.com/kevinawalsh/rete/builder"
	"github.com/kevinawalsh/rete/config"
	"github.com/kevinawalsh/rete/parser"
)

// shell holds the engine state a session of commands accumulates:
// every deffacts/defrule seen so far (so `reset` can rebuild the
// network from scratch, the way CommandLine.py's do_reset replays
// self.__facts/self.__rules), plus the live builder/network pair.
type shell struct {
	ui  cli.Ui
	log hclog.Logger

	cfg config.EngineConfig

	b   *builder.Builder
	net *rete.Network

	storedFacts []*rete.Fact
	storedRules []*rete.Rule
}

func newShell(ui cli.Ui, log hclog.Logger, cfg config.EngineConfig) *shell {
	b := builder.New(log)
	kind, _ := cfg.StrategyKind()
	net := rete.NewNetworkWithEnvironment(b.Evaluator(), b.Environment(), kind, log)
	return &shell{ui: ui, log: log, cfg: cfg, b: b, net: net}
}

// loadSource parses and builds source (a whole program, or a single
// wrapped form), registering any new facts/rules. name is used only
// for parse-error messages.
func (s *shell) loadSource(name, source string) error {
	items, err := parser.Parse(name, source)
	if err != nil {
		return err
	}
	facts, rules, err := s.b.Build(items)
	if err != nil {
		return err
	}
	s.storedFacts = append(s.storedFacts, facts...)
	for _, r := range rules {
		s.storedRules = append(s.storedRules, r)
		if err := s.net.AddRule(r); err != nil {
			return err
		}
	}
	if _, err := s.net.AssertAll(facts); err != nil {
		return err
	}
	return nil
}

// doAssert implements `(assert <fact>+)`: each fact is parsed and
// evaluated as if it were a deffacts body, then asserted immediately
// (not merely stored for a future reset), per CommandLine.py's
// do_assert.
func (s *shell) doAssert(args string) (string, error) {
	items, err := parser.Parse("<assert>", "(deffacts <shell-assert> "+args+")")
	if err != nil {
		return "", err
	}
	facts, _, err := s.b.Build(items)
	if err != nil {
		return "", err
	}
	s.storedFacts = append(s.storedFacts, facts...)
	ids, err := s.net.AssertAll(facts)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for i, id := range ids {
		if i > 0 {
			out.WriteByte('\n')
		}
		fmt.Fprintf(&out, "<Fact-%d>", id)
	}
	return out.String(), nil
}

// doRetract implements `(retract <fact-id>+)`.
func (s *shell) doRetract(args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", rete.NewEvaluateError("retract: one or more fact identifiers must be specified")
	}
	var out strings.Builder
	for i, f := range fields {
		id, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return "", rete.NewEvaluateError("retract: %q is not a fact identifier", f)
		}
		if i > 0 {
			out.WriteByte('\n')
		}
		if s.net.RetractFact(id) {
			fmt.Fprintf(&out, "the fact with identifier %d has been removed", id)
		} else {
			fmt.Fprintf(&out, "the fact %d doesn't exist", id)
		}
	}
	return out.String(), nil
}

// doReset rebuilds working and production memory from every
// deffacts/defrule seen so far, per CommandLine.py's do_reset.
func (s *shell) doReset() error {
	kind, _ := s.cfg.StrategyKind()
	s.net = rete.NewNetworkWithEnvironment(s.b.Evaluator(), s.b.Environment(), kind, s.log)
	for _, r := range s.storedRules {
		if err := s.net.AddRule(r); err != nil {
			return err
		}
	}
	_, err := s.net.AssertAll(s.storedFacts)
	return err
}

// doRun implements `(run)` / `(run <n>)`.
func (s *shell) doRun(limit *int) (string, error) {
	fired, err := s.net.RecognizeActCycle(limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d rule(s) fired", fired), nil
}

func (s *shell) doFacts() string {
	var out strings.Builder
	for _, wme := range s.net.WorkingMemory().All() {
		fmt.Fprintln(&out, wme.String())
	}
	return out.String()
}

func (s *shell) doRules() string {
	var out strings.Builder
	for _, name := range s.net.ProductionMemory().Names() {
		fmt.Fprintln(&out, name)
	}
	return out.String()
}

func (s *shell) doAgenda() string {
	var out strings.Builder
	for _, item := range s.net.Agenda().Items() {
		fmt.Fprintf(&out, "%d\t%s: %s\n", item.Rule.Salience, item.Rule.Name, item.Token.FormatWMEIDs())
	}
	return out.String()
}

func (s *shell) doStrategy(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.cfg.Strategy, nil
	}
	cfg := s.cfg
	cfg.Strategy = name
	if _, ok := cfg.StrategyKind(); !ok {
		return "", rete.NewEvaluateError("the specified strategy %q doesn't exist", name)
	}
	s.cfg = cfg
	kind, _ := cfg.StrategyKind()
	s.net.SetStrategy(kind)
	return "strategy set to " + name, nil
}

// execForm dispatches one whole, balanced-parenthesis form typed at
// the shell, mirroring CommandLine.py's do_* command family.
func (s *shell) execForm(form string) (string, bool, error) {
	form = strings.TrimSpace(form)
	form = strings.TrimPrefix(form, "(")
	form = strings.TrimSuffix(form, ")")
	fields := strings.SplitN(form, " ", 2)
	head := fields[0]
	rest := ""
	if len(fields) > 1 {
		rest = fields[1]
	}
	switch head {
	case "assert":
		out, err := s.doAssert(rest)
		return out, false, err
	case "retract":
		out, err := s.doRetract(rest)
		return out, false, err
	case "deffacts", "defrule", "defglobal":
		err := s.loadSource("<shell>", "("+form+")")
		return "OK.", false, err
	case "reset":
		return "OK.", false, s.doReset()
	case "run":
		var limit *int
		if strings.TrimSpace(rest) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil {
				return "", false, rete.NewEvaluateError("run: expects an integer, got %q", rest)
			}
			limit = &n
		}
		out, err := s.doRun(limit)
		return out, false, err
	case "facts":
		return s.doFacts(), false, nil
	case "rules":
		return s.doRules(), false, nil
	case "agenda":
		return s.doAgenda(), false, nil
	case "strategy":
		out, err := s.doStrategy(rest)
		return out, false, err
	case "quit", "exit":
		return "", true, nil
	default:
		return "", false, rete.NewEvaluateError("missing function declaration for %q", head)
	}
}
