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

func TestEnvironmentScopesAreDisjoint(t *testing.T) {
	env := NewEnvironment()
	env.SetGlobal("x", NewInteger(1))
	env.SetLocal("x", NewInteger(2))
	env.SetTestLocal("x", NewInteger(3))

	g, _ := env.GetGlobal("x")
	l, _ := env.GetLocal("x")
	tl, _ := env.GetTestLocal("x")
	if g.Int() != 1 || l.Int() != 2 || tl.Int() != 3 {
		t.Fatalf("expected 1,2,3 across the three scopes, got %d,%d,%d", g.Int(), l.Int(), tl.Int())
	}
}

func TestClearGlobalsActuallyClears(t *testing.T) {
	env := NewEnvironment()
	env.SetGlobal("x", NewInteger(1))
	env.ClearGlobals()
	if _, ok := env.GetGlobal("x"); ok {
		t.Fatal("expected ClearGlobals to remove every global binding")
	}
}

func TestReplaceLocalsSwapsWholeMap(t *testing.T) {
	env := NewEnvironment()
	env.SetLocal("a", NewInteger(1))
	env.ReplaceLocals(map[string]Value{"b": NewInteger(2)})
	if _, ok := env.GetLocal("a"); ok {
		t.Fatal("expected the old local map to be gone after ReplaceLocals")
	}
	if v, ok := env.GetLocal("b"); !ok || v.Int() != 2 {
		t.Fatal("expected the new local map to be in effect")
	}
}

func TestGlobalMissIsFalse(t *testing.T) {
	env := NewEnvironment()
	if _, ok := env.GetGlobal("nope"); ok {
		t.Fatal("expected a miss on an undeclared global")
	}
}
