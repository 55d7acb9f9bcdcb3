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

// The RHS special functions are not ordinary calls: `assert`'s fact
// arguments are raw (head, fields) structures rather than pre-evaluated
// Values (a pattern like `(b ?x)` inside an assert means "construct a
// fact with head b", not "call function b"), and `bind`'s first
// argument is the variable being assigned, not a value to resolve.
// Ported from original_source/core/functions/SpecialFunctions.py and
// core/typesystem/TypeSystem.py's SpecialFunctionCallType/
// SpecialTestCallType.

func isSpecialForm(name string) bool {
	switch name {
	case "assert", "retract", "bind", "printout", "test", "strategy":
		return true
	}
	return false
}

func (e *Evaluator) evaluateSpecial(node *rete.ASTNode, testMode bool, vars map[string]rete.Value) (rete.Value, error) {
	switch node.Name {
	case "assert":
		return e.evalAssert(node, testMode, vars)
	case "retract":
		return e.evalRetract(node, testMode, vars)
	case "bind":
		return e.evalBind(node, testMode, vars)
	case "printout":
		return e.evalPrintout(node, testMode, vars)
	case "test":
		return e.evalTest(node, testMode, vars)
	case "strategy":
		return e.evalStrategy(node)
	}
	return rete.Value{}, rete.NewEvaluateError("unrecognized special form %s", node.Name)
}

// evalAssert: each arg is a call-shaped node whose Name is the new
// fact's head and whose Args are the field expressions to evaluate.
func (e *Evaluator) evalAssert(node *rete.ASTNode, testMode bool, vars map[string]rete.Value) (rete.Value, error) {
	facts := make([]*rete.Fact, len(node.Args))
	for i, patternNode := range node.Args {
		values := make([]rete.Value, len(patternNode.Args))
		for j, field := range patternNode.Args {
			v, err := e.Evaluate(field, testMode, vars)
			if err != nil {
				return rete.Value{}, err
			}
			values[j] = v.Resolve()
		}
		facts[i] = &rete.Fact{Head: patternNode.Name, Values: values}
	}
	if _, err := node.Caller.DoAssert(facts...); err != nil {
		return rete.Value{}, err
	}
	return rete.NewBoolean(true), nil
}

func (e *Evaluator) evalRetract(node *rete.ASTNode, testMode bool, vars map[string]rete.Value) (rete.Value, error) {
	ids := make([]uint64, len(node.Args))
	for i, a := range node.Args {
		v, err := e.Evaluate(a, testMode, vars)
		if err != nil {
			return rete.Value{}, err
		}
		v = v.Resolve()
		if v.Kind() != rete.Integer {
			return rete.Value{}, rete.NewEvaluateError("retract requires fact ids, got %s", v.Kind())
		}
		ids[i] = uint64(v.Int())
	}
	node.Caller.DoRetract(ids...)
	return rete.NewBoolean(true), nil
}

// evalBind: Args[0] carries the raw (unevaluated) variable being
// assigned; Args[1] is the expression to evaluate for its new content.
func (e *Evaluator) evalBind(node *rete.ASTNode, testMode bool, vars map[string]rete.Value) (rete.Value, error) {
	if len(node.Args) != 2 {
		return rete.Value{}, rete.NewEvaluateError("bind requires exactly 2 parameters")
	}
	value, err := e.Evaluate(node.Args[1], testMode, vars)
	if err != nil {
		return rete.Value{}, err
	}
	value = value.Resolve()
	if err := node.Caller.DoBind(node.Args[0].Value, value); err != nil {
		return rete.Value{}, err
	}
	return value, nil
}

func (e *Evaluator) evalPrintout(node *rete.ASTNode, testMode bool, vars map[string]rete.Value) (rete.Value, error) {
	values := make([]rete.Value, len(node.Args))
	for i, a := range node.Args {
		v, err := e.Evaluate(a, testMode, vars)
		if err != nil {
			return rete.Value{}, err
		}
		values[i] = v.Resolve()
	}
	node.Caller.DoPrintout(values...)
	return rete.NewBoolean(true), nil
}

// evalTest backs a `test` call form (SpecialTestCallType in the
// original). The parser unwraps an LHS `(test <expr>)` conditional
// element to its inner expression, so join tests do not pass through
// here. DoTest never dereferences the Network, so this is safe even when
// node.Caller is nil.
func (e *Evaluator) evalTest(node *rete.ASTNode, testMode bool, vars map[string]rete.Value) (rete.Value, error) {
	values := make([]rete.Value, len(node.Args))
	for i, a := range node.Args {
		v, err := e.Evaluate(a, testMode, vars)
		if err != nil {
			return rete.Value{}, err
		}
		values[i] = v.Resolve()
	}
	return node.Caller.DoTest(values...)
}

// evalStrategy: Args[0] carries the raw strategy-name symbol.
func (e *Evaluator) evalStrategy(node *rete.ASTNode) (rete.Value, error) {
	if len(node.Args) != 1 {
		return rete.Value{}, rete.NewEvaluateError("strategy requires exactly 1 parameter")
	}
	name := node.Args[0].Value.Str()
	return rete.NewBoolean(node.Caller.DoStrategy(name)), nil
}
