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

package parser

import "github.com/kevinawalsh/rete"

// Item is one top-level construct of a program: a defglobal, a
// deffacts, or a defrule. Mirrors spec.md §6's "finite ordered sequence
// of top-level items each tagged one of {DEFGLOBAL, DEFFACTS,
// DEFRULE}".
type Item interface{ itemTag() }

// GlobalAssignment binds a defglobal name to an expression, evaluated
// by the builder (globals may reference other, earlier globals or
// constants, but never pattern variables).
type GlobalAssignment struct {
	Name string
	Expr *rete.ASTNode
}

type DefGlobal struct {
	Assignments []GlobalAssignment
}

func (*DefGlobal) itemTag() {}

// FactPattern is a (head, fields) pair, as spec.md §6 describes for
// DEFFACTS content: fields are expressions the builder evaluates (no
// pattern variables are in scope).
type FactPattern struct {
	Head   string
	Fields []*rete.ASTNode
}

type DefFacts struct {
	Name  string
	Facts []FactPattern
}

func (*DefFacts) itemTag() {}

// LHSElement is either an (optionally assigned) pattern or a Test CE;
// exactly one of Pattern/Test is non-nil.
type LHSElement struct {
	AssignedVar string
	Pattern     *rete.Pattern
	Test        *rete.Test
}

type DefRule struct {
	Name     string
	Comment  string
	Salience *rete.ASTNode // nil means the rule's default salience (0)
	LHS      []LHSElement
	RHS      []*rete.ASTNode
}

func (*DefRule) itemTag() {}
