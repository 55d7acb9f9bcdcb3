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

import "testing"

func TestComputeComplexityCountsPatternsAndVariableTests(t *testing.T) {
	r := NewRule("r", 0)
	r.AddPattern(NewPattern("on", NewVariable(LocalScope, "?x")))
	r.AddPattern(NewPattern("on", NewVariable(LocalScope, "?y")))
	test := NewTest(NewCallNode("neq",
		NewValueNode(NewVariable(LocalScope, "?x")),
		NewValueNode(NewVariable(LocalScope, "?y")),
	))
	r.AddTest(test)
	ComputeComplexity(r)

	// 2 patterns + 2 distinct variables tested (?x, ?y) + 1 for the test
	// itself (neither argument is itself a call) = 5.
	if r.Complexity != 5 {
		t.Fatalf("expected complexity 5, got %d", r.Complexity)
	}
}

func TestTestComplexityUnwrapsAndOrNot(t *testing.T) {
	inner := NewCallNode("eq",
		NewValueNode(NewVariable(LocalScope, "?x")),
		NewValueNode(NewInteger(1)),
	)
	wrapped := NewCallNode("and", inner)
	if got := testComplexity(wrapped); got != 1 {
		t.Fatalf("expected wrapper to unwrap to the inner call's own score of 1, got %d", got)
	}
}

func TestTestComplexityCountsNestedCallArgs(t *testing.T) {
	call := NewCallNode("gt",
		NewCallNode("+", NewValueNode(NewInteger(1)), NewValueNode(NewInteger(2))),
		NewValueNode(NewInteger(3)),
	)
	// 1 for the test itself, +1 for the one nested call argument.
	if got := testComplexity(call); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}
