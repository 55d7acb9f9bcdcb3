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

package parser

import (
	"testing"

	"github.com/kevinawalsh/rete"
)

func TestParseDefglobalAssignment(t *testing.T) {
	items, err := Parse("<test>", `(defglobal ?*limit* = 10)`)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	dg, ok := items[0].(*DefGlobal)
	if !ok {
		t.Fatalf("expected *DefGlobal, got %T", items[0])
	}
	if len(dg.Assignments) != 1 || dg.Assignments[0].Name != "limit" {
		t.Fatalf("expected assignment named \"limit\", got %+v", dg.Assignments)
	}
}

func TestParseDeffactsWithComment(t *testing.T) {
	items, err := Parse("<test>", `(deffacts initial-state "starting facts" (on a b) (on b c))`)
	if err != nil {
		t.Fatal(err)
	}
	df, ok := items[0].(*DefFacts)
	if !ok {
		t.Fatalf("expected *DefFacts, got %T", items[0])
	}
	if df.Name != "initial-state" || len(df.Facts) != 2 {
		t.Fatalf("expected 2 facts named initial-state, got %+v", df)
	}
	if df.Facts[0].Head != "on" || len(df.Facts[0].Fields) != 2 {
		t.Fatalf("unexpected first fact: %+v", df.Facts[0])
	}
}

func TestParseDefruleInterleavedLHS(t *testing.T) {
	items, err := Parse("<test>", `
		(defrule r
			?f <- (a ?x)
			(test (neq ?x 0))
			(b ?x ?y)
			=>
			(assert (c ?y)))
	`)
	if err != nil {
		t.Fatal(err)
	}
	rule, ok := items[0].(*DefRule)
	if !ok {
		t.Fatalf("expected *DefRule, got %T", items[0])
	}
	if len(rule.LHS) != 3 {
		t.Fatalf("expected 3 LHS elements, got %d", len(rule.LHS))
	}
	if rule.LHS[0].AssignedVar != "f" || rule.LHS[0].Pattern == nil {
		t.Fatalf("expected element 0 to be an assigned pattern named \"f\", got %+v", rule.LHS[0])
	}
	if rule.LHS[1].Test == nil {
		t.Fatalf("expected element 1 to be a test CE, got %+v", rule.LHS[1])
	}
	if rule.LHS[2].Pattern == nil || rule.LHS[2].Pattern.Head != "b" {
		t.Fatalf("expected element 2 to be a plain (b ...) pattern, got %+v", rule.LHS[2])
	}
}

func TestParseDefruleSalienceDeclaration(t *testing.T) {
	items, err := Parse("<test>", `
		(defrule r
			(declare (salience 10))
			(a)
			=>
			(printout "hi"))
	`)
	if err != nil {
		t.Fatal(err)
	}
	rule := items[0].(*DefRule)
	if rule.Salience == nil {
		t.Fatal("expected a parsed salience expression")
	}
}

func TestParseLHSConstraintRejectsNestedCall(t *testing.T) {
	_, err := Parse("<test>", `
		(defrule r
			(a (+ 1 2))
			=>
			(printout "hi"))
	`)
	if err == nil {
		t.Fatal("expected a nested function call in an LHS pattern field to be a parse error")
	}
}

func TestParseAssertFactArgumentsGetCallNodeShape(t *testing.T) {
	items, err := Parse("<test>", `
		(defrule r
			(a)
			=>
			(assert (b 1 2)))
	`)
	if err != nil {
		t.Fatal(err)
	}
	rule := items[0].(*DefRule)
	assertNode := rule.RHS[0]
	if assertNode.Name != "assert" {
		t.Fatalf("expected top call \"assert\", got %q", assertNode.Name)
	}
	factNode := assertNode.Args[0]
	if !factNode.IsCall || factNode.Name != "b" || len(factNode.Args) != 2 {
		t.Fatalf("expected a call-shaped fact node named \"b\" with 2 fields, got %+v", factNode)
	}
}

func TestParseBindKeepsRawVariable(t *testing.T) {
	items, err := Parse("<test>", `
		(defrule r
			(a)
			=>
			(bind ?x 5))
	`)
	if err != nil {
		t.Fatal(err)
	}
	rule := items[0].(*DefRule)
	bindNode := rule.RHS[0]
	if bindNode.Args[0].Value.Name() != "x" || bindNode.Args[0].Value.Scope() != rete.LocalScope {
		t.Fatalf("expected bind's first arg to be the raw variable ?x, got %+v", bindNode.Args[0])
	}
}

func TestParseBindAcceptsGlobalVariable(t *testing.T) {
	items, err := Parse("<test>", `
		(defrule r
			(a)
			=>
			(bind ?*limit* 5))
	`)
	if err != nil {
		t.Fatal(err)
	}
	rule := items[0].(*DefRule)
	bindNode := rule.RHS[0]
	if bindNode.Args[0].Value.Name() != "limit" || bindNode.Args[0].Value.Scope() != rete.GlobalScope {
		t.Fatalf("expected bind's first arg to be the raw global variable ?*limit*, got %+v", bindNode.Args[0])
	}
}

func TestParseMalformedInputReturnsParseError(t *testing.T) {
	_, err := Parse("<test>", `(defrule r (a) =>`)
	if err == nil {
		t.Fatal("expected an unterminated rule to fail parsing")
	}
	if _, ok := err.(*rete.ParseError); !ok {
		t.Fatalf("expected a *rete.ParseError, got %T", err)
	}
}
