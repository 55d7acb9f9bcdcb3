// Copyright (c) 2014, Kevin Walsh.  All rights reserved.
//
// This library is free software; you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation; either version 2 of the
// License, or (at your option) any later version.
//
// This library is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public
// License along with this library; if not, write to the Free Software
// Foundation, Inc.  51 Franklin St, Fifth Floor, Boston, MA 02110-1301
// USA

// Package dlprim provides custom "primitive" predicates that register
// against an eval.Mapper, the way the teacher's dlprim package provided
// custom datalog.Preds that registered against a datalog.DB. Adapted
// from the teacher's Equals: that predicate derived equality facts
// during a datalog fixpoint; this engine has no fixpoint evaluator to
// plug into (the Rete join itself already unifies shared variables, see
// mergeBindings in beta.go), so Same is re-grounded as a join-test/RHS
// predicate with the same four-case structure Equals documented.
package dlprim

import "github.com/kevinawalsh/rete"

// Same implements a three-valued variant of the teacher's Equals cases,
// expressed as a rete.Function instead of a datalog.Pred:
//
//	Same(bound, bound)     -> structural equality
//	Same(bound, unbound)   -> true (nothing to contradict)
//	Same(unbound, bound)   -> true
//	Same(unbound, unbound) -> true
//
// Register it under whatever name the dialect wants (e.g. "same") via
// Mapper.Register; it does not shadow eval's own "eq", which always
// requires both sides resolved.
func Same(_ *rete.Network, args []rete.Value) (rete.Value, error) {
	if len(args) != 2 {
		return rete.Value{}, rete.NewEvaluateError("\"same\" requires exactly 2 parameters")
	}
	a, b := args[0].Resolve(), args[1].Resolve()
	if a.IsVariable() || b.IsVariable() {
		return rete.NewBoolean(true), nil
	}
	return rete.NewBoolean(a.Equal(b)), nil
}
