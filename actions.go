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

import "fmt"

// This file is the Network facade the five RHS special functions (and
// `strategy`) call into, per spec.md §6's "RHS action semantics". The
// special functions themselves — recognizing `assert`/`retract`/`bind`/
// `printout`/`test`/`strategy` as distinct from ordinary calls, and
// evaluating their arguments the right way for each — live in the
// external eval package; this file only implements what each one does
// once its arguments are in hand. Ported from
// original_source/core/functions/SpecialFunctions.py.

// DoAssert materializes each fact and asserts it, in order, stopping at
// the first error (spec.md §7: an RHS error aborts the activation).
func (net *Network) DoAssert(facts ...*Fact) ([]uint64, error) {
	ids := make([]uint64, 0, len(facts))
	for _, f := range facts {
		id, err := net.AssertFact(f)
		if err != nil {
			return ids, err
		}
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids, nil
}

// DoRetract retracts each id in order; a missing id is silently
// ignored, matching RetractFact's own bool-returning (not erroring)
// contract.
func (net *Network) DoRetract(ids ...uint64) {
	for _, id := range ids {
		net.RetractFact(id)
	}
}

// DoBind sets a variable's value in whichever environment scope it
// belongs to.
func (net *Network) DoBind(variable Value, value Value) error {
	if !variable.IsVariable() {
		return NewEvaluateError("bind: first argument must be a variable, got %s", variable.Kind())
	}
	if variable.Scope() == GlobalScope {
		net.env.SetGlobal(variable.Name(), value)
	} else {
		net.env.SetLocal(variable.Name(), value)
	}
	return nil
}

// DoPrintout writes every value space-separated to net.Out, terminated
// with a newline, exactly as spec.md §6 specifies. This is plain
// fmt.Fprint*, not the structured logger: printout is user-facing
// output, not a diagnostic.
func (net *Network) DoPrintout(values ...Value) {
	for i, v := range values {
		if i > 0 {
			fmt.Fprint(net.Out, " ")
		}
		fmt.Fprint(net.Out, v.String())
	}
	fmt.Fprintln(net.Out)
}

// DoTest validates that every argument is a Boolean and returns the
// first one, per spec.md §6's `test(network, bool)` prototype.
func (net *Network) DoTest(values ...Value) (Value, error) {
	if len(values) == 0 {
		return Value{}, NewEvaluateError("test: expects at least one boolean argument")
	}
	for _, v := range values {
		if v.Kind() != Boolean {
			return Value{}, NewEvaluateError("the \"test\" predicate takes only boolean parameters")
		}
	}
	return values[0], nil
}

var strategyNames = map[string]StrategyKind{
	"depth":      Depth,
	"breadth":    Breadth,
	"random":     Random,
	"complexity": Complexity,
	"simplicity": Simplicity,
	"lex":        Lex,
	"mea":        MEA,
}

// DoStrategy switches the active conflict-resolution strategy by name,
// returning whether the name was recognized (regardless of whether it
// was already the active strategy — spec.md §6: "return true iff
// recognized").
func (net *Network) DoStrategy(name string) bool {
	kind, ok := strategyNames[name]
	if !ok {
		return false
	}
	net.agenda.SetStrategy(kind)
	return true
}
