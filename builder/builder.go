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

// Package builder turns a parsed AST (package parser's []Item) into the
// facts and rules the core network consumes: it evaluates DEFGLOBAL
// assignments into an Environment, DEFFACTS fields into rete.Fact
// values, and DEFRULE constructs into compiled rete.Rule values with
// complexity precomputed. Ported from
// original_source/src/core/Builder.py's build method.
package builder

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/kevinawalsh/rete"
	"github.com/kevinawalsh/rete/dlprim"
	"github.com/kevinawalsh/rete/eval"
	"github.com/kevinawalsh/rete/parser"
)

// Builder owns the Environment and FunctionMapper a program's
// expressions evaluate against, and the Evaluator built from them. The
// same Environment must be handed to rete.NewNetworkWithEnvironment so
// that DEFGLOBAL bindings evaluated here remain visible to the running
// network.
type Builder struct {
	env       *rete.Environment
	functions *eval.Mapper
	evaluator *eval.Evaluator
	log       hclog.Logger
}

// New returns a Builder with its function mapper preloaded with the
// arithmetic/string/predicate built-ins (package eval) plus the example
// custom predicate from package dlprim, mirroring Builder.py's
// __init__ loading SpecialFunctions/Functions/Predicates.
func New(log hclog.Logger) *Builder {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	env := rete.NewEnvironment()
	funcs := eval.NewMapper()
	funcs.Register("same", dlprim.Same)
	return &Builder{
		env:       env,
		functions: funcs,
		evaluator: eval.New(env, funcs),
		log:       log,
	}
}

// Environment returns the Environment globals were built into; pass it
// to rete.NewNetworkWithEnvironment.
func (b *Builder) Environment() *rete.Environment { return b.env }

// Evaluator returns the Evaluator built from this Builder's Environment
// and function mapper; pass it to rete.NewNetworkWithEnvironment.
func (b *Builder) Evaluator() *eval.Evaluator { return b.evaluator }

// Functions returns the function mapper, so callers can register
// additional custom predicates before Build runs.
func (b *Builder) Functions() *eval.Mapper { return b.functions }

// Build evaluates every item in ast in source order, returning the
// accumulated facts and compiled rules. Unlike the Python original,
// a failure on one DEFRULE or DEFFACTS construct does not abort the
// rest of the AST; every error is collected and returned together via
// go-multierror (see SPEC_FULL.md §4).
func (b *Builder) Build(ast []parser.Item) ([]*rete.Fact, []*rete.Rule, error) {
	var facts []*rete.Fact
	var rules []*rete.Rule
	var result *multierror.Error

	for _, item := range ast {
		switch it := item.(type) {
		case *parser.DefGlobal:
			if err := b.buildDefGlobal(it); err != nil {
				result = multierror.Append(result, err)
			}
		case *parser.DefFacts:
			fs, err := b.buildDefFacts(it)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			facts = append(facts, fs...)
		case *parser.DefRule:
			rule, err := b.buildDefRule(it)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			rules = append(rules, rule)
		default:
			result = multierror.Append(result, fmt.Errorf("builder: unrecognized AST item %T", item))
		}
	}

	return facts, rules, result.ErrorOrNil()
}

func (b *Builder) buildDefGlobal(dg *parser.DefGlobal) error {
	for _, a := range dg.Assignments {
		b.log.Debug("defining defglobal", "name", a.Name)
		v, err := b.evaluator.Evaluate(a.Expr, false, nil)
		if err != nil {
			return fmt.Errorf("defglobal ?*%s*: %w", a.Name, err)
		}
		b.env.SetGlobal(a.Name, v.Resolve())
	}
	return nil
}

func (b *Builder) buildDefFacts(df *parser.DefFacts) ([]*rete.Fact, error) {
	b.log.Debug("defining deffacts", "name", df.Name)
	facts := make([]*rete.Fact, 0, len(df.Facts))
	for _, fp := range df.Facts {
		values := make([]rete.Value, len(fp.Fields))
		for i, field := range fp.Fields {
			v, err := b.evaluator.Evaluate(field, false, nil)
			if err != nil {
				return nil, fmt.Errorf("deffacts %s, fact %q: %w", df.Name, fp.Head, err)
			}
			values[i] = v.Resolve()
		}
		facts = append(facts, &rete.Fact{Head: fp.Head, Values: values})
	}
	return facts, nil
}

func (b *Builder) buildDefRule(dr *parser.DefRule) (*rete.Rule, error) {
	b.log.Debug("defining defrule", "name", dr.Name)
	salience := 0
	if dr.Salience != nil {
		v, err := b.evaluator.Evaluate(dr.Salience, false, nil)
		if err != nil {
			return nil, fmt.Errorf("defrule %s: evaluating salience: %w", dr.Name, err)
		}
		if v.Kind() != rete.Integer {
			return nil, fmt.Errorf("defrule %s: salience must be an integer, got %s", dr.Name, v.Kind())
		}
		salience = int(v.Int())
	}

	rule := rete.NewRule(dr.Name, salience)
	for _, elem := range dr.LHS {
		if elem.Test != nil {
			rule.AddTest(elem.Test)
			continue
		}
		rule.AddPattern(elem.Pattern)
	}
	for _, action := range dr.RHS {
		rule.AddAction(action)
	}
	rete.ComputeComplexity(rule)
	return rule, nil
}
