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
	"math"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	Integer Kind = iota
	Float
	Symbol
	String
	Boolean
	VariableKind
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Symbol:
		return "symbol"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case VariableKind:
		return "variable"
	default:
		return "unknown"
	}
}

// VarScope distinguishes the three disjoint variable scopes a Variable
// value can be looked up in; see Environment.
type VarScope int

const (
	GlobalScope VarScope = iota
	LocalScope
	TestScope
)

// Value is a tagged variant over the datalog-ish term types this engine
// works with: Integer, Float, Symbol, String, Boolean, and Variable.
// Variables are themselves Values until resolved against an Environment;
// the `content` slot of a variable is written at most once (see Bind) and
// is thereafter treated as read-only, per the concurrency model.
type Value struct {
	kind Kind

	i int64
	f float64
	s string // Symbol/String content, or Variable name
	b bool

	scope   VarScope
	content *Value // set once a Variable is bound; nil while unresolved
}

func NewInteger(i int64) Value   { return Value{kind: Integer, i: i} }
func NewFloat(f float64) Value   { return Value{kind: Float, f: f} }
func NewSymbol(s string) Value   { return Value{kind: Symbol, s: s} }
func NewString(s string) Value   { return Value{kind: String, s: s} }
func NewBoolean(b bool) Value    { return Value{kind: Boolean, b: b} }

// NewVariable returns an unbound variable with the given scope and name.
func NewVariable(scope VarScope, name string) Value {
	return Value{kind: VariableKind, scope: scope, s: name}
}

func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsVariable() bool { return v.kind == VariableKind }
func (v Value) Name() string     { return v.s }
func (v Value) Scope() VarScope  { return v.scope }

// Bound reports whether a Variable has been given content. Calling it on
// a non-Variable value always returns true.
func (v Value) Bound() bool {
	return v.kind != VariableKind || v.content != nil
}

// Bind sets a variable's content exactly once; rebinding an
// already-bound variable is a programmer error (the engine never does
// this; every binding is rebuilt per-activation or per-test).
func (v *Value) Bind(content Value) {
	if v.kind != VariableKind {
		panic("rete: Bind called on a non-variable value")
	}
	if v.content != nil {
		panic("rete: variable already bound")
	}
	c := content
	v.content = &c
}

// Resolve follows a bound Variable to its content, recursively (a
// variable may be bound to another variable). Non-Variable values, and
// unbound variables, resolve to themselves.
func (v Value) Resolve() Value {
	for v.kind == VariableKind && v.content != nil {
		v = *v.content
	}
	return v
}

func (v Value) Int() int64    { return v.i }
func (v Value) Float64() float64 {
	if v.kind == Integer {
		return float64(v.i)
	}
	return v.f
}
func (v Value) Str() string  { return v.s }
func (v Value) Bool() bool   { return v.b }

func isNumeric(k Kind) bool { return k == Integer || k == Float }

// promote returns the Kind that arithmetic between a and b should
// produce: Int⊕Int→Int, anything else involving a Float→Float.
func promote(a, b Kind) Kind {
	if a == Integer && b == Integer {
		return Integer
	}
	return Float
}

// arith applies one of the four basic arithmetic operators with Go's
// numeric-promotion table (spec.md §3): Int⊕Int→Int, else→Float;
// division always yields Float.
func arith(a, b Value, op byte) (Value, error) {
	if !isNumeric(a.kind) || !isNumeric(b.kind) {
		return Value{}, NewEvaluateError("arithmetic on non-numeric value (%s, %s)", a.kind, b.kind)
	}
	if op == '/' {
		rhs := b.Float64()
		if rhs == 0 {
			return Value{}, NewEvaluateError("division by zero")
		}
		return NewFloat(a.Float64() / rhs), nil
	}
	if op == '%' {
		if promote(a.kind, b.kind) == Integer {
			if b.i == 0 {
				return Value{}, NewEvaluateError("modulo by zero")
			}
			return NewInteger(a.i % b.i), nil
		}
		bf := b.Float64()
		if bf == 0 {
			return Value{}, NewEvaluateError("modulo by zero")
		}
		return NewFloat(math.Mod(a.Float64(), bf)), nil
	}
	result := promote(a.kind, b.kind)
	if result == Integer {
		switch op {
		case '+':
			return NewInteger(a.i + b.i), nil
		case '-':
			return NewInteger(a.i - b.i), nil
		case '*':
			return NewInteger(a.i * b.i), nil
		}
	}
	af, bf := a.Float64(), b.Float64()
	switch op {
	case '+':
		return NewFloat(af + bf), nil
	case '-':
		return NewFloat(af - bf), nil
	case '*':
		return NewFloat(af * bf), nil
	}
	return Value{}, NewEvaluateError("unsupported arithmetic operator %q", op)
}

func Add(a, b Value) (Value, error) { return arith(a, b, '+') }
func Sub(a, b Value) (Value, error) { return arith(a, b, '-') }
func Mul(a, b Value) (Value, error) { return arith(a, b, '*') }
func Div(a, b Value) (Value, error) { return arith(a, b, '/') }
func Mod(a, b Value) (Value, error) { return arith(a, b, '%') }

// Equal implements spec.md §3's equality rule: numeric kinds compare by
// value regardless of Int vs Float; every other kind requires the same
// tag. Unbound variables are never equal to anything, including
// themselves, since they carry no value yet; bound variables compare by
// resolved content.
func (v Value) Equal(other Value) bool {
	a, b := v.Resolve(), other.Resolve()
	if a.kind == VariableKind || b.kind == VariableKind {
		return false
	}
	if isNumeric(a.kind) && isNumeric(b.kind) {
		return a.Float64() == b.Float64()
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Symbol, String:
		return a.s == b.s
	case Boolean:
		return a.b == b.b
	}
	return false
}

// Compare orders numeric values by magnitude and strings
// lexicographically; any other pairing (including cross-kind) reports
// ok=false, mirroring the Python original's NumberType/StringType
// comparisons falling back to False rather than raising.
func (v Value) Compare(other Value) (cmp int, ok bool) {
	a, b := v.Resolve(), other.Resolve()
	switch {
	case isNumeric(a.kind) && isNumeric(b.kind):
		af, bf := a.Float64(), b.Float64()
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	case a.kind == String && b.kind == String:
		switch {
		case a.s < b.s:
			return -1, true
		case a.s > b.s:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

// String renders a Value the way the surface dialect would print it:
// strings regain their surrounding quotes (stored unquoted internally,
// per spec.md §9's resolution of the StringType quoting question),
// booleans print as TRUE/FALSE, and a still-unbound variable prints as
// its bare name.
func (v Value) String() string {
	switch v.kind {
	case Integer:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case Symbol:
		return v.s
	case String:
		return strconv.Quote(v.s)
	case Boolean:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case VariableKind:
		if v.content != nil {
			return "<" + v.s + " = " + v.content.String() + ">"
		}
		return v.s
	default:
		return "?"
	}
}
