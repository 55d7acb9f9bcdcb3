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
	"strings"
	"testing"

	"github.com/hashicorp/cli"
	"github.com/hashicorp/go-hclog"

	"github.com/kevinawalsh/rete/config"
)

func newTestShell(t *testing.T) *shell {
	t.Helper()
	return newShell(&cli.BasicUi{Writer: nil}, hclog.NewNullLogger(), config.Default())
}

func TestShellExecFormAssertAndFacts(t *testing.T) {
	s := newTestShell(t)
	out, quit, err := s.execForm("(assert (on a b))")
	if err != nil {
		t.Fatal(err)
	}
	if quit {
		t.Fatal("did not expect assert to request quit")
	}
	if !strings.HasPrefix(out, "<Fact-") {
		t.Fatalf("expected a <Fact-N> identifier, got %q", out)
	}
	if got := s.doFacts(); !strings.Contains(got, "(on a b)") {
		t.Fatalf("expected (on a b) to be in working memory, got %q", got)
	}
}

func TestShellExecFormRetract(t *testing.T) {
	s := newTestShell(t)
	if _, _, err := s.execForm("(assert (on a b))"); err != nil {
		t.Fatal(err)
	}
	out, _, err := s.execForm("(retract 1)")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "has been removed") {
		t.Fatalf("expected a removal confirmation, got %q", out)
	}
	if got := s.doFacts(); strings.Contains(got, "(on a b)") {
		t.Fatalf("expected (on a b) to be gone, got %q", got)
	}
}

func TestShellExecFormRetractUnknownID(t *testing.T) {
	s := newTestShell(t)
	out, _, err := s.execForm("(retract 999)")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "doesn't exist") {
		t.Fatalf("expected a doesn't-exist message, got %q", out)
	}
}

func TestShellExecFormDefruleAndRun(t *testing.T) {
	s := newTestShell(t)
	if _, _, err := s.execForm("(deffacts s (a))"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.execForm("(defrule r (a) => (assert (b)))"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.execForm("(reset)"); err != nil {
		t.Fatal(err)
	}
	out, _, err := s.execForm("(run)")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1 rule(s) fired") {
		t.Fatalf("expected exactly 1 firing, got %q", out)
	}
	if got := s.doFacts(); !strings.Contains(got, "(b)") {
		t.Fatalf("expected (b) to have been asserted by the rule, got %q", got)
	}
}

func TestShellDoRulesListsDefinedRules(t *testing.T) {
	s := newTestShell(t)
	if _, _, err := s.execForm("(defrule r1 (a) => (assert (b)))"); err != nil {
		t.Fatal(err)
	}
	if got := s.doRules(); !strings.Contains(got, "r1") {
		t.Fatalf("expected rule r1 listed, got %q", got)
	}
}

func TestShellExecFormQuitRequestsExit(t *testing.T) {
	s := newTestShell(t)
	_, quit, err := s.execForm("(quit)")
	if err != nil {
		t.Fatal(err)
	}
	if !quit {
		t.Fatal("expected (quit) to request shell exit")
	}
}

func TestShellExecFormUnknownHeadErrors(t *testing.T) {
	s := newTestShell(t)
	if _, _, err := s.execForm("(bogus 1 2)"); err == nil {
		t.Fatal("expected an unknown command head to error")
	}
}

func TestShellDoStrategyGetAndSet(t *testing.T) {
	s := newTestShell(t)
	got, err := s.doStrategy("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "depth" {
		t.Fatalf("expected the default strategy to be depth, got %q", got)
	}
	if _, err := s.doStrategy("breadth"); err != nil {
		t.Fatal(err)
	}
	got, err = s.doStrategy("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "breadth" {
		t.Fatalf("expected strategy to have been changed to breadth, got %q", got)
	}
}

func TestShellDoStrategyRejectsUnknownName(t *testing.T) {
	s := newTestShell(t)
	if _, err := s.doStrategy("bogus"); err == nil {
		t.Fatal("expected an unrecognized strategy name to error")
	}
}

func TestShellDoResetReplaysStoredFactsAndRules(t *testing.T) {
	s := newTestShell(t)
	if _, _, err := s.execForm("(deffacts s (a))"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.execForm("(reset)"); err != nil {
		t.Fatal(err)
	}
	if got := s.doFacts(); !strings.Contains(got, "(a)") {
		t.Fatalf("expected (a) to be present after reset, got %q", got)
	}
	// A second reset must rebuild from the same stored facts, not
	// accumulate duplicates.
	if err := s.doReset(); err != nil {
		t.Fatal(err)
	}
	got := s.doFacts()
	if strings.Count(got, "(a)") != 1 {
		t.Fatalf("expected exactly one (a) after a second reset, got %q", got)
	}
}

func TestShellDoAgendaListsPendingActivation(t *testing.T) {
	s := newTestShell(t)
	if _, _, err := s.execForm("(deffacts s (a))"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.execForm("(defrule r (a) => (assert (b)))"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.execForm("(reset)"); err != nil {
		t.Fatal(err)
	}
	got := s.doAgenda()
	if !strings.Contains(got, "r:") {
		t.Fatalf("expected rule r's activation listed on the agenda, got %q", got)
	}
}
