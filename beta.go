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

// BetaConsumer is anything a join node, dummy join node, or beta memory
// can left-activate with a freshly extended token: a JoinNode, a
// BetaMemoryNode, or a PNode. Ported from
// original_source/core/rete/Nodes.py.
type BetaConsumer interface {
	LeftActivate(net *Network, t *Token, vars map[string]Value, assignments map[string]uint64) error
}

// mergeBindings implements spec.md §4.7's join-compatibility check:
// every variable the two maps have in common must agree; the merged
// result favors alpha on conflict (which can only arise from a bug,
// since a disagreeing shared variable should have already failed the
// compatibility check).
func mergeBindings(alpha, beta map[string]Value) (map[string]Value, bool) {
	small, large := alpha, beta
	if len(beta) < len(alpha) {
		small, large = beta, alpha
	}
	for name, sv := range small {
		if lv, ok := large[name]; ok && !sv.Equal(lv) {
			return nil, false
		}
	}
	merged := make(map[string]Value, len(alpha)+len(beta))
	for name, v := range beta {
		merged[name] = v
	}
	for name, v := range alpha {
		merged[name] = v
	}
	return merged, true
}

// truthy treats a Boolean(false) result as the only falsy test outcome;
// any other value (the evaluator is free to return non-Boolean values
// from arbitrary function calls used as tests) counts as a pass.
func truthy(v Value) bool { return v.Kind() != Boolean || v.Bool() }

func evalTests(net *Network, tests []*Test, vars map[string]Value) (bool, error) {
	for _, test := range tests {
		v, err := net.Evaluator.Evaluate(test.Call, true, vars)
		if err != nil {
			return false, err
		}
		if !truthy(v) {
			return false, nil
		}
	}
	return true, nil
}

func copyAssignments(a map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	return out
}

// JoinNode combines a left input (its parent BetaMemoryNode) with a
// right input (an AlphaMemory), per spec.md §4.6/§4.7. Ported from
// original_source/core/rete/Nodes.py's JoinNode.
type JoinNode struct {
	Parent      *BetaMemoryNode
	Alpha       *AlphaMemory
	Tests       []*Test
	AssignedVar string
	Children    []BetaConsumer
}

func NewJoinNode(parent *BetaMemoryNode, alpha *AlphaMemory) *JoinNode {
	return &JoinNode{Parent: parent, Alpha: alpha}
}

func (jn *JoinNode) AddChild(c BetaConsumer) { jn.Children = append(jn.Children, c) }

// RightActivate is called when a new WME enters jn.Alpha: try joining
// it against every token already in the parent beta memory.
func (jn *JoinNode) RightActivate(net *Network, wme *WME, alphaVars map[string]Value) error {
	for _, t := range jn.Parent.Tokens() {
		if err := jn.tryJoin(net, t, wme, alphaVars, jn.Parent.VarsFor(t), jn.Parent.AssignmentsFor(t)); err != nil {
			return err
		}
	}
	return nil
}

// LeftActivate is called when a new token enters the parent beta
// memory: try joining it against every WME already in jn.Alpha.
func (jn *JoinNode) LeftActivate(net *Network, t *Token, betaVars map[string]Value, assignments map[string]uint64) error {
	for _, wme := range jn.Alpha.WMEs() {
		if err := jn.tryJoin(net, t, wme, jn.Alpha.Bindings(wme.ID), betaVars, assignments); err != nil {
			return err
		}
	}
	return nil
}

func (jn *JoinNode) tryJoin(net *Network, t *Token, wme *WME, alphaVars, betaVars map[string]Value, assignments map[string]uint64) error {
	merged, ok := mergeBindings(alphaVars, betaVars)
	if !ok {
		return nil
	}
	pass, err := evalTests(net, jn.Tests, merged)
	if err != nil {
		return err
	}
	if !pass {
		return nil
	}
	newAssignments := copyAssignments(assignments)
	if jn.AssignedVar != "" {
		newAssignments[jn.AssignedVar] = wme.ID
	}
	t2 := NewToken(t, wme)
	for _, child := range jn.Children {
		if err := child.LeftActivate(net, t2, merged, newAssignments); err != nil {
			return err
		}
	}
	return nil
}

// DummyJoinNode is the root of a rule's beta spine: it has no left
// input, since it corresponds to the first pattern of the LHS.
type DummyJoinNode struct {
	Alpha       *AlphaMemory
	Tests       []*Test
	AssignedVar string
	Children    []BetaConsumer
}

func NewDummyJoinNode(alpha *AlphaMemory) *DummyJoinNode {
	return &DummyJoinNode{Alpha: alpha}
}

func (dj *DummyJoinNode) AddChild(c BetaConsumer) { dj.Children = append(dj.Children, c) }

func (dj *DummyJoinNode) RightActivate(net *Network, wme *WME, alphaVars map[string]Value) error {
	pass, err := evalTests(net, dj.Tests, alphaVars)
	if err != nil {
		return err
	}
	if !pass {
		return nil
	}
	assignments := make(map[string]uint64, 1)
	if dj.AssignedVar != "" {
		assignments[dj.AssignedVar] = wme.ID
	}
	t := NewToken(nil, wme)
	for _, child := range dj.Children {
		if err := child.LeftActivate(net, t, alphaVars, assignments); err != nil {
			return err
		}
	}
	return nil
}

// BetaMemoryNode holds every token that has survived the join chain up
// to its position in the LHS, plus the variable bindings and
// assigned-pattern-CE bindings accumulated so far for each.
type BetaMemoryNode struct {
	tokens      []*Token
	vars        map[*Token]map[string]Value
	assignments map[*Token]map[string]uint64
	Children    []BetaConsumer
}

func NewBetaMemoryNode() *BetaMemoryNode {
	return &BetaMemoryNode{
		vars:        make(map[*Token]map[string]Value),
		assignments: make(map[*Token]map[string]uint64),
	}
}

func (bm *BetaMemoryNode) AddChild(c BetaConsumer) { bm.Children = append(bm.Children, c) }

func (bm *BetaMemoryNode) Tokens() []*Token { return bm.tokens }

func (bm *BetaMemoryNode) VarsFor(t *Token) map[string]Value { return bm.vars[t] }

func (bm *BetaMemoryNode) AssignmentsFor(t *Token) map[string]uint64 { return bm.assignments[t] }

// RemoveToken drops t from the memory, used while cascading a
// retraction (spec.md §4.9's retract_fact).
func (bm *BetaMemoryNode) RemoveToken(t *Token) {
	for i, cur := range bm.tokens {
		if cur == t {
			bm.tokens = append(bm.tokens[:i], bm.tokens[i+1:]...)
			break
		}
	}
	delete(bm.vars, t)
	delete(bm.assignments, t)
}

func (bm *BetaMemoryNode) LeftActivate(net *Network, t *Token, vars map[string]Value, assignments map[string]uint64) error {
	net.indexToken(t, bm)
	bm.tokens = append(bm.tokens, t)
	bm.vars[t] = vars
	bm.assignments[t] = assignments
	for _, id := range t.WMEIDs() {
		net.indexTokenByWME(id, t)
	}
	for _, child := range bm.Children {
		if err := child.LeftActivate(net, t, vars, assignments); err != nil {
			return err
		}
	}
	return nil
}

// PNode is a rule's terminal node: on a surviving match it submits an
// AgendaItem. For a single-pattern rule (k == 1) it is wired directly
// as an AlphaMemory child and so also implements AlphaConsumer; for
// k > 1 it is the sole child of the last JoinNode on the spine and is
// reached only via LeftActivate. Ported from
// original_source/core/rete/Nodes.py's PNode.
type PNode struct {
	Rule *Rule

	// Tests and AssignedVar are populated only for k == 1 rules, where
	// there is no join node to carry them (spec.md §4.6 step 1).
	Tests       []*Test
	AssignedVar string
}

func NewPNode(rule *Rule) *PNode { return &PNode{Rule: rule} }

func (p *PNode) RightActivate(net *Network, wme *WME, alphaVars map[string]Value) error {
	pass, err := evalTests(net, p.Tests, alphaVars)
	if err != nil {
		return err
	}
	if !pass {
		return nil
	}
	t := NewToken(nil, wme)
	return p.match(net, t, alphaVars, make(map[string]uint64))
}

func (p *PNode) LeftActivate(net *Network, t *Token, vars map[string]Value, assignments map[string]uint64) error {
	return p.match(net, t, vars, assignments)
}

func (p *PNode) match(net *Network, t *Token, vars map[string]Value, assignments map[string]uint64) error {
	for _, id := range t.WMEIDs() {
		net.indexTokenByWME(id, t)
	}
	if p.AssignedVar != "" {
		assignments[p.AssignedVar] = t.WME.ID
	}
	net.submitActivation(p.Rule, t, vars, assignments)
	return nil
}
