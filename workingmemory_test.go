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

func TestAddFactAllocatesAscendingIDs(t *testing.T) {
	wm := NewWorkingMemory()
	w1, err := wm.AddFact(NewFact("on", NewSymbol("a"), NewSymbol("b")))
	if err != nil {
		t.Fatal(err)
	}
	w2, err := wm.AddFact(NewFact("on", NewSymbol("b"), NewSymbol("c")))
	if err != nil {
		t.Fatal(err)
	}
	if w1.ID != 1 || w2.ID != 2 {
		t.Fatalf("expected ids 1, 2, got %d, %d", w1.ID, w2.ID)
	}
}

func TestAddFactSuppressesDuplicates(t *testing.T) {
	wm := NewWorkingMemory()
	if _, err := wm.AddFact(NewFact("on", NewSymbol("a"))); err != nil {
		t.Fatal(err)
	}
	dup, err := wm.AddFact(NewFact("on", NewSymbol("a")))
	if err != nil {
		t.Fatal(err)
	}
	if dup != nil {
		t.Fatal("expected a structurally-duplicate fact to be silently ignored")
	}
	if wm.Len() != 1 {
		t.Fatalf("expected 1 fact in working memory, got %d", wm.Len())
	}
}

func TestAddFactRejectsUnresolvedVariable(t *testing.T) {
	wm := NewWorkingMemory()
	_, err := wm.AddFact(NewFact("on", NewVariable(LocalScope, "?x")))
	if err == nil {
		t.Fatal("expected adding a fact with an unbound variable to fail")
	}
}

func TestRemoveFact(t *testing.T) {
	wm := NewWorkingMemory()
	w, _ := wm.AddFact(NewFact("on", NewSymbol("a")))
	if !wm.RemoveFact(w.ID) {
		t.Fatal("expected removal to succeed")
	}
	if wm.RemoveFact(w.ID) {
		t.Fatal("expected a second removal of the same id to report false")
	}
	if _, ok := wm.Get(w.ID); ok {
		t.Fatal("expected the fact to be gone")
	}
}

func TestRemoveThenReassertSameFact(t *testing.T) {
	wm := NewWorkingMemory()
	w1, _ := wm.AddFact(NewFact("on", NewSymbol("a")))
	wm.RemoveFact(w1.ID)
	w2, err := wm.AddFact(NewFact("on", NewSymbol("a")))
	if err != nil {
		t.Fatal(err)
	}
	if w2 == nil {
		t.Fatal("expected re-asserting a removed fact to succeed, not be suppressed as a duplicate")
	}
}

func TestAllIsAscendingByID(t *testing.T) {
	wm := NewWorkingMemory()
	wm.AddFact(NewFact("a"))
	wm.AddFact(NewFact("b"))
	wm.AddFact(NewFact("c"))
	all := wm.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("expected strictly ascending ids, got %d then %d", all[i-1].ID, all[i].ID)
		}
	}
}
