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

// Environment holds the three disjoint variable scopes: globals
// (defglobal bindings, long-lived), locals (rebuilt per activation for
// RHS evaluation), and test-locals (rebuilt per test during join-time
// evaluation). Ported from original_source/core/Environment.py.
type Environment struct {
	globals    map[string]Value
	locals     map[string]Value
	testLocals map[string]Value
}

func NewEnvironment() *Environment {
	return &Environment{
		globals:    make(map[string]Value),
		locals:     make(map[string]Value),
		testLocals: make(map[string]Value),
	}
}

// ClearGlobals empties the globals map. The Python original's
// clear_global_variables assigns to a differently-named field
// (self.__globals instead of self.__global_variables) and so never
// actually clears anything reachable through global_variables; per
// spec.md §9 that is a bug, and this port fixes it.
func (e *Environment) ClearGlobals() { e.globals = make(map[string]Value) }

func (e *Environment) ClearLocals() { e.locals = make(map[string]Value) }

func (e *Environment) ClearTestLocals() { e.testLocals = make(map[string]Value) }

func (e *Environment) SetGlobal(name string, v Value) { e.globals[name] = v }
func (e *Environment) SetLocal(name string, v Value)  { e.locals[name] = v }
func (e *Environment) SetTestLocal(name string, v Value) { e.testLocals[name] = v }

// GetGlobal returns (value, true) if name is bound, else (zero, false).
// A miss here is an error to the evaluator (globals must be declared);
// a miss in GetLocal/GetTestLocal is permitted and leaves the variable
// symbolic.
func (e *Environment) GetGlobal(name string) (Value, bool) {
	v, ok := e.globals[name]
	return v, ok
}

func (e *Environment) GetLocal(name string) (Value, bool) {
	v, ok := e.locals[name]
	return v, ok
}

func (e *Environment) GetTestLocal(name string) (Value, bool) {
	v, ok := e.testLocals[name]
	return v, ok
}

// ReplaceLocals swaps in a freshly built local-variable map, used once
// per activation before RHS evaluation.
func (e *Environment) ReplaceLocals(vars map[string]Value) { e.locals = vars }

// ReplaceTestLocals swaps in a freshly built test-local map, used once
// per join-test evaluation.
func (e *Environment) ReplaceTestLocals(vars map[string]Value) { e.testLocals = vars }
