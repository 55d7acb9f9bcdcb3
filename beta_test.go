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

func TestMergeBindingsAgreesOnSharedVariable(t *testing.T) {
	alpha := map[string]Value{"x": NewInteger(1), "y": NewInteger(2)}
	beta := map[string]Value{"y": NewInteger(2), "z": NewInteger(3)}
	merged, ok := mergeBindings(alpha, beta)
	if !ok {
		t.Fatal("expected agreeing shared variable y to merge successfully")
	}
	if merged["x"].Int() != 1 || merged["y"].Int() != 2 || merged["z"].Int() != 3 {
		t.Fatalf("unexpected merged bindings: %v", merged)
	}
}

func TestMergeBindingsRejectsConflict(t *testing.T) {
	alpha := map[string]Value{"x": NewInteger(1)}
	beta := map[string]Value{"x": NewInteger(2)}
	if _, ok := mergeBindings(alpha, beta); ok {
		t.Fatal("expected a disagreeing shared variable to fail the join")
	}
}

// recordingConsumer is a BetaConsumer that records every left-activation
// it receives, standing in for a PNode/BetaMemoryNode in tests that only
// care about the join/dummy-join mechanics above it.
type recordingConsumer struct {
	tokens []*Token
	vars   []map[string]Value
}

func (r *recordingConsumer) LeftActivate(net *Network, t *Token, vars map[string]Value, assignments map[string]uint64) error {
	r.tokens = append(r.tokens, t)
	r.vars = append(r.vars, vars)
	return nil
}

func TestDummyJoinNodeRightActivatePropagatesOnlyOnPassingTests(t *testing.T) {
	net := NewNetwork(nil, Depth, nil)
	dj := NewDummyJoinNode(nil)
	rec := &recordingConsumer{}
	dj.AddChild(rec)

	wme := &WME{ID: 1, Fact: NewFact("a", NewSymbol("x"))}
	if err := dj.RightActivate(net, wme, map[string]Value{"x": NewSymbol("x")}); err != nil {
		t.Fatal(err)
	}
	if len(rec.tokens) != 1 {
		t.Fatalf("expected 1 left-activation, got %d", len(rec.tokens))
	}
	if rec.tokens[0].WME != wme {
		t.Fatalf("expected the new token's WME to be the asserted wme, got %v", rec.tokens[0].WME)
	}
}

func TestJoinNodeOnlyFiresOnCompatibleBindings(t *testing.T) {
	net := NewNetwork(nil, Depth, nil)
	parent := NewBetaMemoryNode()
	alpha := NewAlphaMemory()
	jn := NewJoinNode(parent, alpha)
	rec := &recordingConsumer{}
	jn.AddChild(rec)

	// Seed the parent beta memory with one token bound to x=1.
	seedWME := &WME{ID: 1, Fact: NewFact("a", NewInteger(1))}
	seedToken := NewToken(nil, seedWME)
	if err := parent.LeftActivate(net, seedToken, map[string]Value{"x": NewInteger(1)}, map[string]uint64{}); err != nil {
		t.Fatal(err)
	}

	// A right-activation whose alpha binding for x disagrees must not fire.
	mismatchWME := &WME{ID: 2, Fact: NewFact("b", NewInteger(2))}
	if err := jn.RightActivate(net, mismatchWME, map[string]Value{"x": NewInteger(2)}); err != nil {
		t.Fatal(err)
	}
	if len(rec.tokens) != 0 {
		t.Fatalf("expected no join on conflicting bindings, got %d", len(rec.tokens))
	}

	// A right-activation whose alpha binding agrees must fire and extend the token.
	matchWME := &WME{ID: 3, Fact: NewFact("b", NewInteger(1))}
	if err := jn.RightActivate(net, matchWME, map[string]Value{"x": NewInteger(1)}); err != nil {
		t.Fatal(err)
	}
	if len(rec.tokens) != 1 {
		t.Fatalf("expected exactly 1 successful join, got %d", len(rec.tokens))
	}
	if rec.tokens[0].Parent != seedToken || rec.tokens[0].WME != matchWME {
		t.Fatalf("expected the new token to extend the seed token with matchWME, got %+v", rec.tokens[0])
	}
}

func TestJoinNodeAssignedVarRecordsWMEID(t *testing.T) {
	net := NewNetwork(nil, Depth, nil)
	parent := NewBetaMemoryNode()
	alpha := NewAlphaMemory()
	jn := NewJoinNode(parent, alpha)
	jn.AssignedVar = "f"
	var gotAssignments map[string]uint64
	capture := &captureAssignmentsConsumer{out: &gotAssignments}
	jn.AddChild(capture)

	seedWME := &WME{ID: 1, Fact: NewFact("a")}
	seedToken := NewToken(nil, seedWME)
	if err := parent.LeftActivate(net, seedToken, map[string]Value{}, map[string]uint64{}); err != nil {
		t.Fatal(err)
	}

	rightWME := &WME{ID: 42, Fact: NewFact("b")}
	if err := jn.RightActivate(net, rightWME, map[string]Value{}); err != nil {
		t.Fatal(err)
	}
	if gotAssignments == nil || gotAssignments["f"] != 42 {
		t.Fatalf("expected assigned-pattern variable f bound to WME id 42, got %v", gotAssignments)
	}
}

type captureAssignmentsConsumer struct {
	out *map[string]uint64
}

func (c *captureAssignmentsConsumer) LeftActivate(net *Network, t *Token, vars map[string]Value, assignments map[string]uint64) error {
	*c.out = assignments
	return nil
}

func TestBetaMemoryNodeRemoveToken(t *testing.T) {
	net := NewNetwork(nil, Depth, nil)
	bm := NewBetaMemoryNode()
	wme := &WME{ID: 1, Fact: NewFact("a")}
	tok := NewToken(nil, wme)
	if err := bm.LeftActivate(net, tok, map[string]Value{}, map[string]uint64{}); err != nil {
		t.Fatal(err)
	}
	if len(bm.Tokens()) != 1 {
		t.Fatalf("expected 1 token, got %d", len(bm.Tokens()))
	}
	bm.RemoveToken(tok)
	if len(bm.Tokens()) != 0 {
		t.Fatalf("expected RemoveToken to drop the token, got %d", len(bm.Tokens()))
	}
	if bm.VarsFor(tok) != nil {
		t.Fatal("expected vars to be gone after RemoveToken")
	}
}

func TestPNodeSubmitsActivationOnMatch(t *testing.T) {
	net := NewNetwork(nil, Depth, nil)
	rule := NewRule("r", 0)
	p := NewPNode(rule)

	wme := &WME{ID: 1, Fact: NewFact("a", NewSymbol("x"))}
	if err := p.RightActivate(net, wme, map[string]Value{"x": NewSymbol("x")}); err != nil {
		t.Fatal(err)
	}
	items := net.Agenda().Items()
	if len(items) != 1 || items[0].Rule != rule {
		t.Fatalf("expected 1 activation for rule r, got %v", items)
	}
}

func TestPNodeAssignedVarBindsOwnWMEID(t *testing.T) {
	net := NewNetwork(nil, Depth, nil)
	rule := NewRule("r", 0)
	p := NewPNode(rule)
	p.AssignedVar = "f"

	wme := &WME{ID: 7, Fact: NewFact("a")}
	if err := p.RightActivate(net, wme, map[string]Value{}); err != nil {
		t.Fatal(err)
	}
	items := net.Agenda().Items()
	if len(items) != 1 || items[0].Assignments["f"] != 7 {
		t.Fatalf("expected assigned-pattern variable f bound to 7, got %v", items)
	}
}
