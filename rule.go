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

package rete

import (
	set "github.com/hashicorp/go-set/v3"
)

// Pattern is one LHS conditional element: a fact head plus a constraint
// per field (a constant Value, a bound/unbound Variable Value, or a
// previously-seen variable used for intra-pattern equality), and an
// optional assigned-pattern binding name (the "?f <- (b ?x)" form),
// which is bound to the matching WME's id rather than to a field.
// Ported from original_source/core/Builder.py's pattern construction.
type Pattern struct {
	Head        string
	Constraints []Value
	AssignedVar string // "" if this pattern is not bound to a name
}

func NewPattern(head string, constraints ...Value) *Pattern {
	return &Pattern{Head: head, Constraints: constraints}
}

// Test is a Special Test Call: a boolean expression evaluated at
// join-time over the variables bound so far. Ported from
// original_source/core/Builder.py / Rule.py's test bookkeeping.
type Test struct {
	Call      *ASTNode // the test's top-level call, e.g. (eq ?x ?y)
	Variables *set.Set[string]
}

// NewTest wraps call and collects the set of variable names it
// references, recursing into nested calls.
func NewTest(call *ASTNode) *Test {
	t := &Test{Call: call, Variables: set.New[string](0)}
	t.build(call)
	return t
}

func (t *Test) build(node *ASTNode) {
	if node == nil {
		return
	}
	if node.IsCall {
		for _, arg := range node.Args {
			t.build(arg)
		}
		return
	}
	if node.Value.IsVariable() {
		t.Variables.Insert(node.Value.Name())
	}
}

// Rule is a compiled production: an ordered LHS (patterns interleaved
// with the tests that become executable as soon as their variables are
// all bound), an ordered RHS (action calls), salience, and the
// variable-to-tests index used while building the beta network so each
// test runs at the earliest join where it is decidable. Ported from
// original_source/core/Rule.py.
type Rule struct {
	Name     string
	Salience int
	LHS      []*Pattern
	RHS      []*ASTNode

	// Tests is every test attached anywhere in the rule's LHS.
	Tests *set.Set[*Test]

	// VariableTests maps a variable name to the set of tests that
	// mention it; used both for complexity (§4.10) and for deciding, at
	// build time, the earliest join node at which a test's variables are
	// all bound.
	VariableTests map[string]*set.Set[*Test]

	// Complexity is computed once, by ComputeComplexity, after LHS/RHS
	// and Tests/VariableTests are fully populated.
	Complexity int
}

func NewRule(name string, salience int) *Rule {
	return &Rule{
		Name:          name,
		Salience:      salience,
		Tests:         set.New[*Test](0),
		VariableTests: make(map[string]*set.Set[*Test]),
	}
}

// AddPattern appends a pattern to the rule's LHS.
func (r *Rule) AddPattern(p *Pattern) { r.LHS = append(r.LHS, p) }

// AddAction appends an action call to the rule's RHS.
func (r *Rule) AddAction(a *ASTNode) { r.RHS = append(r.RHS, a) }

// AddTest registers test against the rule, indexing it by every
// variable it mentions.
func (r *Rule) AddTest(test *Test) {
	r.Tests.Insert(test)
	for _, name := range test.Variables.Slice() {
		vt, ok := r.VariableTests[name]
		if !ok {
			vt = set.New[*Test](0)
			r.VariableTests[name] = vt
		}
		vt.Insert(test)
	}
}
