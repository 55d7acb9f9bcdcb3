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

import (
	"math"
	"math/rand"

	"github.com/kevinawalsh/rete"
)

// registerArithmetic installs the numeric built-ins from Functions.py:
// +, -, *, /, %, **, abs, min, max, randint.
func registerArithmetic(m *Mapper) {
	m.Register("+", reduceArith("+", rete.Add, rete.NewInteger(0)))
	m.Register("-", reduceArithNoIdentity("-", rete.Sub))
	m.Register("*", reduceArith("*", rete.Mul, rete.NewInteger(1)))
	m.Register("/", reduceArithNoIdentity("/", rete.Div))
	m.Register("%", reduceArithNoIdentity("%", rete.Mod))
	m.Register("**", power)
	m.Register("abs", absFn)
	m.Register("min", minmax("min", true))
	m.Register("max", minmax("max", false))
	m.Register("randint", randint)
}

func requireNumeric(name string, args []rete.Value) error {
	for _, a := range args {
		if a.Kind() != rete.Integer && a.Kind() != rete.Float {
			return rete.NewEvaluateError("%q requires all parameters to be numbers", name)
		}
	}
	return nil
}

// reduceArith mirrors `+`/`*`: at least 2 args, left-fold with op starting
// from identity (so the Python's reduce(op, args, identity) semantics are
// matched exactly, though the identity is never externally visible here
// since arity >= 2 is required).
func reduceArith(name string, op func(a, b rete.Value) (rete.Value, error), identity rete.Value) rete.Function {
	return func(_ *rete.Network, args []rete.Value) (rete.Value, error) {
		if len(args) < 2 {
			return rete.Value{}, rete.NewEvaluateError("%q requires at least 2 parameters (%d given)", name, len(args))
		}
		if err := requireNumeric(name, args); err != nil {
			return rete.Value{}, err
		}
		acc := identity
		for _, a := range args {
			v, err := op(acc, a)
			if err != nil {
				return rete.Value{}, err
			}
			acc = v
		}
		return acc, nil
	}
}

// reduceArithNoIdentity mirrors `-`/`/`/`%`: at least 2 args, left-fold
// starting from args[0] (no synthetic identity element).
func reduceArithNoIdentity(name string, op func(a, b rete.Value) (rete.Value, error)) rete.Function {
	return func(_ *rete.Network, args []rete.Value) (rete.Value, error) {
		if len(args) < 2 {
			return rete.Value{}, rete.NewEvaluateError("%q requires at least 2 parameters (%d given)", name, len(args))
		}
		if err := requireNumeric(name, args); err != nil {
			return rete.Value{}, err
		}
		acc := args[0]
		for _, a := range args[1:] {
			v, err := op(acc, a)
			if err != nil {
				return rete.Value{}, err
			}
			acc = v
		}
		return acc, nil
	}
}

func power(_ *rete.Network, args []rete.Value) (rete.Value, error) {
	if len(args) < 2 {
		return rete.Value{}, rete.NewEvaluateError("%q requires at least 2 parameters (%d given)", "**", len(args))
	}
	if err := requireNumeric("**", args); err != nil {
		return rete.Value{}, err
	}
	acc := args[0]
	for _, a := range args[1:] {
		acc = rete.NewFloat(math.Pow(acc.Float64(), a.Float64()))
	}
	if acc.Kind() == rete.Float && args[0].Kind() == rete.Integer {
		allInt := true
		for _, a := range args {
			allInt = allInt && a.Kind() == rete.Integer
		}
		if allInt && acc.Float64() == math.Trunc(acc.Float64()) {
			return rete.NewInteger(int64(acc.Float64())), nil
		}
	}
	return acc, nil
}

func absFn(_ *rete.Network, args []rete.Value) (rete.Value, error) {
	if len(args) != 1 {
		return rete.Value{}, rete.NewEvaluateError("\"abs\" requires 1 parameter")
	}
	if err := requireNumeric("abs", args); err != nil {
		return rete.Value{}, err
	}
	a := args[0]
	if a.Kind() == rete.Integer {
		if a.Int() < 0 {
			return rete.NewInteger(-a.Int()), nil
		}
		return a, nil
	}
	return rete.NewFloat(math.Abs(a.Float64())), nil
}

func minmax(name string, wantMin bool) rete.Function {
	return func(_ *rete.Network, args []rete.Value) (rete.Value, error) {
		if len(args) < 2 {
			return rete.Value{}, rete.NewEvaluateError("%q requires at least 2 parameters (%d given)", name, len(args))
		}
		if err := requireNumeric(name, args); err != nil {
			return rete.Value{}, err
		}
		best := args[0]
		for _, a := range args[1:] {
			cmp, _ := a.Compare(best)
			if (wantMin && cmp < 0) || (!wantMin && cmp > 0) {
				best = a
			}
		}
		return best, nil
	}
}

func randint(_ *rete.Network, args []rete.Value) (rete.Value, error) {
	if len(args) != 2 {
		return rete.Value{}, rete.NewEvaluateError("\"randint\" requires 2 parameters")
	}
	if args[0].Kind() != rete.Integer || args[1].Kind() != rete.Integer {
		return rete.Value{}, rete.NewEvaluateError("\"randint\" requires 2 integers")
	}
	lo, hi := args[0].Int(), args[1].Int()
	if lo > hi {
		lo, hi = hi, lo
	}
	return rete.NewInteger(lo + rand.Int63n(hi-lo+1)), nil
}
