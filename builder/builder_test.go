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

package builder

import (
	"strings"
	"testing"

	"github.com/kevinawalsh/rete"
	"github.com/kevinawalsh/rete/parser"
)

func parseAndBuild(t *testing.T, source string) ([]*rete.Fact, []*rete.Rule, *Builder) {
	t.Helper()
	items, err := parser.Parse("<test>", source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	b := New(nil)
	facts, rules, err := b.Build(items)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	return facts, rules, b
}

func TestBuildDefglobalSetsEnvironment(t *testing.T) {
	_, _, b := parseAndBuild(t, `(defglobal ?*limit* = 10)`)
	v, ok := b.Environment().GetGlobal("limit")
	if !ok || v.Int() != 10 {
		t.Fatalf("expected global \"limit\" == 10, got %v, ok=%v", v, ok)
	}
}

func TestBuildDeffactsEvaluatesFields(t *testing.T) {
	facts, _, _ := parseAndBuild(t, `(deffacts s (on a b) (count (+ 1 2)))`)
	if len(facts) != 2 {
		t.Fatalf("expected 2 facts, got %d", len(facts))
	}
	if facts[1].Head != "count" || facts[1].Values[0].Int() != 3 {
		t.Fatalf("expected (count 3), got %+v", facts[1])
	}
}

func TestBuildDefruleComputesComplexity(t *testing.T) {
	_, rules, _ := parseAndBuild(t, `
		(defrule r
			(on ?x ?y)
			(on ?y ?z)
			=>
			(assert (above ?x ?z)))
	`)
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if rules[0].Complexity <= 0 {
		t.Fatalf("expected a positive complexity score, got %d", rules[0].Complexity)
	}
}

func TestBuildDefruleSalienceMustBeInteger(t *testing.T) {
	items, err := parser.Parse("<test>", `
		(defrule r
			(declare (salience "high"))
			(a)
			=>
			(printout "x"))
	`)
	if err != nil {
		t.Fatal(err)
	}
	b := New(nil)
	if _, _, err := b.Build(items); err == nil {
		t.Fatal("expected a non-integer salience to fail at build time")
	}
}

func TestBuildAggregatesErrorsAcrossConstructs(t *testing.T) {
	items, err := parser.Parse("<test>", `
		(defglobal ?*x* = (undefined-function))
		(deffacts s (on (also-undefined)))
	`)
	if err != nil {
		t.Fatal(err)
	}
	b := New(nil)
	_, _, err = b.Build(items)
	if err == nil {
		t.Fatal("expected both undefined-function calls to surface as errors")
	}
	if msg := err.Error(); !strings.Contains(msg, "defglobal") || !strings.Contains(msg, "deffacts") {
		t.Fatalf("expected both the defglobal and the deffacts error, got %q", msg)
	}
}

func TestBuildSameRegisteredUnderThatName(t *testing.T) {
	b := New(nil)
	if _, ok := b.Functions().Lookup("same"); !ok {
		t.Fatal("expected dlprim's ported predicate to be registered as \"same\"")
	}
	if _, ok := b.Functions().Lookup("eq"); !ok {
		t.Fatal("expected the dialect's own built-in \"eq\" to still be registered")
	}
}
