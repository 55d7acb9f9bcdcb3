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

// registerPredicates installs eq, neq, <, <=, >, >=, and, or, not from
// Predicates.py. Note these evaluate every argument eagerly before the
// predicate runs (see Evaluator.Evaluate) — the original dialect's
// `and`/`or` do not short-circuit.
func registerPredicates(m *Mapper) {
	m.Register("eq", chain(func(a, b rete.Value) bool { return a.Equal(b) }))
	m.Register("neq", chain(func(a, b rete.Value) bool { return !a.Equal(b) }))
	m.Register("<", compareChain(func(c int) bool { return c < 0 }))
	m.Register("<=", compareChain(func(c int) bool { return c <= 0 }))
	m.Register(">", compareChain(func(c int) bool { return c > 0 }))
	m.Register(">=", compareChain(func(c int) bool { return c >= 0 }))
	m.Register("and", logicalAll("and"))
	m.Register("or", logicalAny("or"))
	m.Register("not", logicalNot)
}

// chain applies pairwise(args[0], x) for every later x, requiring all to
// hold, matching Predicates.py's `all([args[0] == x for x in args[1:]])`.
func chain(pairwise func(a, b rete.Value) bool) rete.Function {
	return func(_ *rete.Network, args []rete.Value) (rete.Value, error) {
		if len(args) < 1 {
			return rete.Value{}, rete.NewEvaluateError("comparison requires at least 1 parameter")
		}
		for _, a := range args[1:] {
			if !pairwise(args[0], a) {
				return rete.NewBoolean(false), nil
			}
		}
		return rete.NewBoolean(true), nil
	}
}

// compareChain applies the ordering relation between every adjacent pair,
// matching Predicates.py's `all([x < y for (x, y) in zip(args, args[1:])])`.
func compareChain(holds func(cmp int) bool) rete.Function {
	return func(_ *rete.Network, args []rete.Value) (rete.Value, error) {
		if len(args) < 2 {
			return rete.Value{}, rete.NewEvaluateError("comparison requires at least 2 parameters")
		}
		for i := 0; i < len(args)-1; i++ {
			cmp, ok := args[i].Compare(args[i+1])
			if !ok {
				return rete.NewBoolean(false), nil
			}
			if !holds(cmp) {
				return rete.NewBoolean(false), nil
			}
		}
		return rete.NewBoolean(true), nil
	}
}

func requireBoolean(name string, args []rete.Value) error {
	for _, a := range args {
		if a.Kind() != rete.Boolean {
			return rete.NewEvaluateError("the %q predicate takes only boolean parameters", name)
		}
	}
	return nil
}

func logicalAll(name string) rete.Function {
	return func(_ *rete.Network, args []rete.Value) (rete.Value, error) {
		if err := requireBoolean(name, args); err != nil {
			return rete.Value{}, err
		}
		for _, a := range args {
			if !a.Bool() {
				return rete.NewBoolean(false), nil
			}
		}
		return rete.NewBoolean(true), nil
	}
}

func logicalAny(name string) rete.Function {
	return func(_ *rete.Network, args []rete.Value) (rete.Value, error) {
		if err := requireBoolean(name, args); err != nil {
			return rete.Value{}, err
		}
		for _, a := range args {
			if a.Bool() {
				return rete.NewBoolean(true), nil
			}
		}
		return rete.NewBoolean(false), nil
	}
}

func logicalNot(_ *rete.Network, args []rete.Value) (rete.Value, error) {
	if err := requireBoolean("not", args); err != nil {
		return rete.Value{}, err
	}
	if len(args) != 1 {
		return rete.Value{}, rete.NewEvaluateError("the \"not\" predicate takes only one parameter")
	}
	return rete.NewBoolean(!args[0].Bool()), nil
}
