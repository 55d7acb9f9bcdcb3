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

// Package eval is the concrete rete.Evaluator/rete.FunctionMapper this
// engine plugs into the core: arithmetic, string, and comparison
// built-ins, the `and`/`or`/`not` predicates, and the `assert`/
// `retract`/`bind`/`printout`/`test`/`strategy` special forms. Ported
// from original_source/core/Evaluator.py,
// core/functions/{Functions,Predicates,SpecialFunctions,FunctionMapper,
// Module}.py.
package eval

import "github.com/kevinawalsh/rete"

// Mapper is a flat name -> rete.Function table, the Go analogue of the
// original FunctionMapper.py's dict-backed module loader (minus its
// dynamic .py/.pyc plugin loading, which has no idiomatic Go
// equivalent and no caller in this codebase).
type Mapper struct {
	funcs map[string]rete.Function
}

// NewMapper returns a Mapper preloaded with the arithmetic, string, and
// predicate built-ins (the equivalent of Functions.py + Predicates.py).
// dlprim's `same` builtin is registered separately, by package builder,
// via Register, mirroring FunctionMapper.load_class's "first
// registration wins" rule.
func NewMapper() *Mapper {
	m := &Mapper{funcs: make(map[string]rete.Function)}
	registerArithmetic(m)
	registerPredicates(m)
	registerStrings(m)
	return m
}

// Register adds name to the mapper if it is not already present,
// matching load_class's "don't clobber an earlier module's function".
func (m *Mapper) Register(name string, fn rete.Function) {
	if _, exists := m.funcs[name]; exists {
		return
	}
	m.funcs[name] = fn
}

// Lookup implements rete.FunctionMapper.
func (m *Mapper) Lookup(name string) (rete.Function, bool) {
	fn, ok := m.funcs[name]
	return fn, ok
}
