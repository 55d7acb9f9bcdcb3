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

import "sort"

// AgendaItem is one candidate rule firing: a rule, the token that
// satisfied its LHS, the variable bindings collected along the way, and
// the assigned-pattern-CE bindings (variable name to matched WME id).
// Ported from original_source/core/Agenda.py's Activation.
type AgendaItem struct {
	Rule        *Rule
	Token       *Token
	Vars        map[string]Value
	Assignments map[string]uint64
}

// TotalVars merges Vars and Assignments into the single binding map the
// RHS evaluates under, per spec.md §4.9: an assigned-pattern variable
// (bound via "?f <- (pattern)") evaluates, on the RHS, to the integer
// WME id it was bound to.
func (a *AgendaItem) TotalVars() map[string]Value {
	out := make(map[string]Value, len(a.Vars)+len(a.Assignments))
	for k, v := range a.Vars {
		out[k] = v
	}
	for k, id := range a.Assignments {
		out[k] = NewInteger(int64(id))
	}
	return out
}

// StrategyKind names one of the seven conflict-resolution strategies.
type StrategyKind int

const (
	Depth StrategyKind = iota
	Breadth
	Random
	Complexity
	Simplicity
	Lex
	MEA
)

// strategyContainer is the per-salience-level ordering discipline for
// pending AgendaItems; see strategy.go for the implementations.
type strategyContainer interface {
	Insert(item *AgendaItem)
	PopNext() (*AgendaItem, bool)
	Len() int
}

// Agenda partitions pending activations by salience and orders each
// partition by the active strategy, tracking liveness per token so a
// retraction can invalidate an activation without a linear scan over
// every container. Ported from original_source/core/Agenda.py.
type Agenda struct {
	strategy   StrategyKind
	containers map[int]strategyContainer

	// tokenActivations counts live (not-yet-popped, not-retracted)
	// activations sharing a given token; a token can appear in more than
	// one AgendaItem only in the rare case that the same token's match
	// was submitted twice, but the source models it generally so this
	// port does too.
	tokenActivations map[*Token]int
}

func NewAgenda(strategy StrategyKind) *Agenda {
	return &Agenda{
		strategy:         strategy,
		containers:       make(map[int]strategyContainer),
		tokenActivations: make(map[*Token]int),
	}
}

func (ag *Agenda) containerFor(salience int) strategyContainer {
	c, ok := ag.containers[salience]
	if !ok {
		c = newStrategyContainer(ag.strategy)
		ag.containers[salience] = c
	}
	return c
}

// AddActivation inserts item under its rule's salience, per spec.md
// §4.8.
func (ag *Agenda) AddActivation(item *AgendaItem) {
	ag.containerFor(item.Rule.Salience).Insert(item)
	ag.tokenActivations[item.Token]++
}

// DelActivation is called when a WME participating in token is
// retracted: it drops the token's liveness count to zero so any
// surviving entries for it are silently discarded as orphans when
// popped.
func (ag *Agenda) DelActivation(token *Token) {
	delete(ag.tokenActivations, token)
}

// GetNextActivation returns the next activation to fire, scanning
// saliences from highest to lowest and, within a salience, discarding
// orphaned (already-retracted) entries until a live one surfaces or the
// container is empty.
func (ag *Agenda) GetNextActivation() *AgendaItem {
	saliences := make([]int, 0, len(ag.containers))
	for s := range ag.containers {
		saliences = append(saliences, s)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(saliences)))
	for _, s := range saliences {
		c := ag.containers[s]
		for {
			item, ok := c.PopNext()
			if !ok {
				break
			}
			if ag.tokenActivations[item.Token] <= 0 {
				continue // orphan
			}
			ag.tokenActivations[item.Token]--
			return item
		}
	}
	return nil
}

// Items returns every live pending activation, highest salience first,
// without disturbing pop order within a salience: each container is
// drained via PopNext and refilled so that it pops in the same order. Used
// by cmd/rete's `(agenda)` listing, which only inspects the agenda and
// must not consume it.
func (ag *Agenda) Items() []*AgendaItem {
	saliences := make([]int, 0, len(ag.containers))
	for s := range ag.containers {
		saliences = append(saliences, s)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(saliences)))
	var out []*AgendaItem
	for _, s := range saliences {
		c := ag.containers[s]
		var popped []*AgendaItem
		for {
			item, ok := c.PopNext()
			if !ok {
				break
			}
			popped = append(popped, item)
		}
		for _, item := range popped {
			if ag.tokenActivations[item.Token] > 0 {
				out = append(out, item)
			}
		}
		// A depth stack pops newest first, so it is refilled back to front.
		_, isStack := c.(*stackContainer)
		for i := range popped {
			if isStack {
				c.Insert(popped[len(popped)-1-i])
			} else {
				c.Insert(popped[i])
			}
		}
	}
	return out
}

// SetStrategy rehomes every existing container into a freshly built one
// under the new discipline, preserving each container's current items.
// It returns false (and does nothing) if strategy is already active.
func (ag *Agenda) SetStrategy(strategy StrategyKind) bool {
	if strategy == ag.strategy {
		return false
	}
	ag.strategy = strategy
	next := make(map[int]strategyContainer, len(ag.containers))
	for salience, old := range ag.containers {
		fresh := newStrategyContainer(strategy)
		var popped []*AgendaItem
		for {
			item, ok := old.PopNext()
			if !ok {
				break
			}
			popped = append(popped, item)
		}
		// A depth stack pops newest first; rehome its items oldest first.
		_, isStack := old.(*stackContainer)
		for i := range popped {
			if isStack {
				fresh.Insert(popped[len(popped)-1-i])
			} else {
				fresh.Insert(popped[i])
			}
		}
		next[salience] = fresh
	}
	ag.containers = next
	return true
}
