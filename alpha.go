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
	set "github.com/hashicorp/go-set/v3"
)

// AlphaConsumer is anything an AlphaMemory can right-activate: a
// JoinNode, a DummyJoinNode, or a PNode (for single-pattern rules, per
// spec.md §4.6 step 1). Ported from original_source/core/rete/Nodes.py.
type AlphaConsumer interface {
	RightActivate(net *Network, wme *WME, bindings map[string]Value) error
}

// RootNode dispatches an asserted WME to the AlphaNode tree for its
// fact head.
type RootNode struct {
	children map[string]*AlphaNode
}

func NewRootNode() *RootNode {
	return &RootNode{children: make(map[string]*AlphaNode)}
}

// headChild returns the depth-0 node for head, creating it if absent.
func (r *RootNode) headChild(head string) *AlphaNode {
	n, ok := r.children[head]
	if !ok {
		n = &AlphaNode{Depth: 0, ToCheck: -1, Children: make(map[string]*AlphaNode), VarNodes: set.New[*AlphaNode](0)}
		r.children[head] = n
	}
	return n
}

// AlphaNode is one step of the discrimination tree: it is labelled by
// either a constant Value or "this position is a variable", and sits at
// a fixed Depth (number of fields consumed to reach it, head node at
// depth 0). Ported from original_source/core/rete/Nodes.py's AlphaNode.
type AlphaNode struct {
	Label Value
	IsVar bool
	Depth int

	Children map[string]*AlphaNode
	VarNodes *set.Set[*AlphaNode] // the subset of Children that are variable-labelled

	// ToCheck is the 0-based field position of an earlier occurrence of
	// the same variable that labels this node, or -1 if this field is
	// either a constant or the first occurrence of its variable.
	ToCheck int

	// Memory is non-nil iff some built pattern terminates exactly at
	// this node (Depth equal to that pattern's field count).
	Memory *AlphaMemory
}

func alphaLabelKey(v Value) string {
	if v.IsVariable() {
		return "\x00var:" + v.Name()
	}
	return v.Kind().String() + ":" + v.String()
}

// Build walks/extends the discrimination tree for (head constraints...)
// per spec.md §4.4, returning the terminal AlphaMemory (created if this
// exact field sequence has never been built before, reused otherwise).
func (r *RootNode) Build(head string, constraints []Value) *AlphaMemory {
	node := r.headChild(head)
	varRefs := make(map[string][]int)
	for i, c := range constraints {
		key := alphaLabelKey(c)
		child, existed := node.Children[key]
		if !existed {
			child = &AlphaNode{
				Label:    c,
				IsVar:    c.IsVariable(),
				Depth:    i + 1,
				Children: make(map[string]*AlphaNode),
				VarNodes: set.New[*AlphaNode](0),
				ToCheck:  -1,
			}
			node.Children[key] = child
			if child.IsVar {
				node.VarNodes.Insert(child)
			}
		}
		if c.IsVariable() {
			name := c.Name()
			if prev, seen := varRefs[name]; seen && !existed {
				child.ToCheck = prev[len(prev)-1]
			}
			varRefs[name] = append(varRefs[name], i)
		}
		node = child
	}
	if node.Memory == nil {
		node.Memory = NewAlphaMemory()
	}
	for name, positions := range varRefs {
		node.Memory.Variables[name] = positions
	}
	return node.Memory
}

// Match dispatches wme into the discrimination tree per spec.md §4.5.
func (r *RootNode) Match(net *Network, wme *WME) error {
	head, ok := r.children[wme.Fact.Head]
	if !ok {
		return nil
	}
	return matchAlphaNode(net, head, wme)
}

func matchAlphaNode(net *Network, node *AlphaNode, wme *WME) error {
	vals := wme.Fact.Values
	if node.ToCheck >= 0 {
		if !vals[node.ToCheck].Resolve().Equal(vals[node.Depth-1].Resolve()) {
			return nil
		}
	}
	if node.Depth == len(vals) {
		if node.Memory == nil {
			return nil
		}
		bindings := node.Memory.Insert(wme)
		net.indexAlphaMemory(wme.ID, node.Memory)
		for _, child := range node.Memory.Children {
			if err := child.RightActivate(net, wme, bindings); err != nil {
				return err
			}
		}
		return nil
	}
	if child, ok := node.Children[alphaLabelKey(vals[node.Depth].Resolve())]; ok {
		if err := matchAlphaNode(net, child, wme); err != nil {
			return err
		}
	}
	for _, vchild := range node.VarNodes.Slice() {
		if err := matchAlphaNode(net, vchild, wme); err != nil {
			return err
		}
	}
	return nil
}

// AlphaMemory holds every WME currently matching one pattern, in
// ascending-id insertion order, plus each WME's variable bindings
// (first-occurrence position is authoritative per spec.md §4.4 step 3).
// Ported from original_source/core/rete/Nodes.py's AlphaMemoryNode.
type AlphaMemory struct {
	wmes []*WME

	// Variables maps a variable name to every field position it labels;
	// position 0 (the first occurrence) is the one used for bindings.
	Variables map[string][]int
	bindings  map[uint64]map[string]Value

	Children []AlphaConsumer
}

func NewAlphaMemory() *AlphaMemory {
	return &AlphaMemory{
		Variables: make(map[string][]int),
		bindings:  make(map[uint64]map[string]Value),
	}
}

func (m *AlphaMemory) computeBindings(wme *WME) map[string]Value {
	out := make(map[string]Value, len(m.Variables))
	for name, positions := range m.Variables {
		out[name] = wme.Fact.Values[positions[0]].Resolve()
	}
	return out
}

// Insert adds wme to the memory and returns its freshly computed
// variable bindings.
func (m *AlphaMemory) Insert(wme *WME) map[string]Value {
	m.wmes = append(m.wmes, wme)
	b := m.computeBindings(wme)
	m.bindings[wme.ID] = b
	return b
}

// Remove drops the WME with the given id, if present.
func (m *AlphaMemory) Remove(id uint64) {
	for i, w := range m.wmes {
		if w.ID == id {
			m.wmes = append(m.wmes[:i], m.wmes[i+1:]...)
			break
		}
	}
	delete(m.bindings, id)
}

// WMEs returns every WME currently in the memory, in insertion order.
func (m *AlphaMemory) WMEs() []*WME { return m.wmes }

// Bindings returns the variable bindings computed for the WME with the
// given id, or nil if it is not (or is no longer) present.
func (m *AlphaMemory) Bindings(id uint64) map[string]Value { return m.bindings[id] }

// AddChild registers a downstream consumer to be right-activated for
// every WME inserted from now on (existing WMEs are not retroactively
// propagated; add_rule always builds the beta spine before any matching
// fact can have been asserted against a brand-new pattern).
func (m *AlphaMemory) AddChild(c AlphaConsumer) { m.Children = append(m.Children, c) }
