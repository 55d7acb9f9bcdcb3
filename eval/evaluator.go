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

package eval

import "github.com/kevinawalsh/rete"

// Evaluator implements rete.Evaluator: it walks the ASTNode shapes the
// core declares (see rete.ASTNode), resolving variables against the
// environment and dispatching calls either to the special forms below
// or to a plain rete.Function from the Mapper. Ported from
// original_source/core/Evaluator.py's type-dispatch visitor, collapsed
// into a single switch since Go doesn't need the original's
// defaultdict-of-visitors indirection.
type Evaluator struct {
	env   *rete.Environment
	funcs *Mapper
}

// New returns an Evaluator bound to env for global-variable lookups and
// to funcs for ordinary function and special-form dispatch.
func New(env *rete.Environment, funcs *Mapper) *Evaluator {
	return &Evaluator{env: env, funcs: funcs}
}

// Evaluate implements rete.Evaluator.
func (e *Evaluator) Evaluate(node *rete.ASTNode, testMode bool, vars map[string]rete.Value) (rete.Value, error) {
	if !node.IsCall {
		return e.evaluateValue(node.Value, vars)
	}
	if isSpecialForm(node.Name) {
		return e.evaluateSpecial(node, testMode, vars)
	}
	return e.evaluateCall(node, testMode, vars)
}

func (e *Evaluator) evaluateValue(v rete.Value, vars map[string]rete.Value) (rete.Value, error) {
	if !v.IsVariable() {
		return v, nil
	}
	if v.Scope() == rete.GlobalScope {
		val, ok := e.env.GetGlobal(v.Name())
		if !ok {
			return rete.Value{}, rete.NewEvaluateError("the global variable %s has not been instanced", v.Name())
		}
		return val, nil
	}
	// Local and test-local variables are looked up directly in the
	// bindings map the core passed in (built from the matching token), not
	// through Environment.locals/testLocals: those fields are not read
	// here, and the per-evaluation bindings always come from vars.
	if val, ok := vars[v.Name()]; ok {
		return val, nil
	}
	return v, nil
}

func (e *Evaluator) evaluateCall(node *rete.ASTNode, testMode bool, vars map[string]rete.Value) (rete.Value, error) {
	fn, ok := e.funcs.Lookup(node.Name)
	if !ok {
		return rete.Value{}, rete.NewEvaluateError("unable to find the function %s", node.Name)
	}
	args := make([]rete.Value, len(node.Args))
	for i, a := range node.Args {
		v, err := e.Evaluate(a, testMode, vars)
		if err != nil {
			return rete.Value{}, err
		}
		args[i] = v.Resolve()
	}
	return fn(node.Caller, args)
}
