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
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Network is the driver: it owns working memory, production memory,
// the root of the alpha network, and the agenda, and is the sole
// mutator every RHS action (see actions.go) calls back into. Ported
// from original_source/core/rete/Network.py.
type Network struct {
	wm     *WorkingMemory
	pm     *ProductionMemory
	root   *RootNode
	agenda *Agenda
	env    *Environment

	Evaluator Evaluator

	alphaMemoriesByWME map[uint64][]*AlphaMemory
	betaMemoryOf       map[*Token]*BetaMemoryNode
	tokensByWME        map[uint64][]*Token

	// Out is where the `printout` RHS action writes; it is plain
	// fmt.Fprint*, not routed through the logger (see SPEC_FULL.md §1).
	// cmd/rete's `(agenda)` listing is returned as a string, not written
	// here.
	Out io.Writer

	log hclog.Logger

	// renderCache memoizes WME.String() renderings (immutable once a WME
	// is inserted, since fact fields never change after assertion) the
	// way golang-lru/v2 is used for hot-path caches elsewhere in the
	// retrieval pack, replacing the teacher's raw cachedTag struct field.
	renderCache *lru.Cache[uint64, string]
}

// NewNetwork builds an empty network around evaluator, which must not
// be nil: every join test and every RHS action evaluates through it. It
// owns a fresh, empty Environment; use NewNetworkWithEnvironment when
// the evaluator was already built (by package builder) against an
// Environment that needs to be the same one the network mutates (e.g.
// so DEFGLOBAL bindings evaluated before the network exists remain
// visible to it).
func NewNetwork(evaluator Evaluator, strategy StrategyKind, log hclog.Logger) *Network {
	return NewNetworkWithEnvironment(evaluator, NewEnvironment(), strategy, log)
}

// NewNetworkWithEnvironment is NewNetwork, but sharing env (rather than
// allocating a new one) with whatever already built evaluator — see
// package builder, which evaluates DEFGLOBAL assignments before a
// Network exists at all.
func NewNetworkWithEnvironment(evaluator Evaluator, env *Environment, strategy StrategyKind, log hclog.Logger) *Network {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	cache, _ := lru.New[uint64, string](4096)
	return &Network{
		wm:                 NewWorkingMemory(),
		pm:                 NewProductionMemory(),
		root:               NewRootNode(),
		agenda:             NewAgenda(strategy),
		env:                env,
		Evaluator:          evaluator,
		alphaMemoriesByWME: make(map[uint64][]*AlphaMemory),
		betaMemoryOf:       make(map[*Token]*BetaMemoryNode),
		tokensByWME:        make(map[uint64][]*Token),
		Out:                os.Stdout,
		log:                log,
		renderCache:        cache,
	}
}

// Environment exposes the three-scope variable environment so
// `builder`/`eval` can populate globals and read locals.
func (net *Network) Environment() *Environment { return net.env }

// Agenda exposes the agenda for diagnostics (cmd/rete's `(agenda)`
// listing) and for the `strategy` RHS action.
func (net *Network) Agenda() *Agenda { return net.agenda }

// WorkingMemory exposes the fact store for diagnostics (`(facts)`).
func (net *Network) WorkingMemory() *WorkingMemory { return net.wm }

// ProductionMemory exposes the rule store for diagnostics (`(rules)`).
func (net *Network) ProductionMemory() *ProductionMemory { return net.pm }

// Reset rebuilds working memory, production memory, the root node, and
// every wme/token index, preserving only the active strategy, per
// spec.md §4.9.
func (net *Network) Reset() {
	net.wm = NewWorkingMemory()
	net.pm = NewProductionMemory()
	net.root = NewRootNode()
	net.agenda = NewAgenda(net.agenda.strategy)
	net.alphaMemoriesByWME = make(map[uint64][]*AlphaMemory)
	net.betaMemoryOf = make(map[*Token]*BetaMemoryNode)
	net.tokensByWME = make(map[uint64][]*Token)
	net.renderCache.Purge()
	net.log.Debug("network reset")
}

func (net *Network) indexAlphaMemory(wmeID uint64, mem *AlphaMemory) {
	net.alphaMemoriesByWME[wmeID] = append(net.alphaMemoriesByWME[wmeID], mem)
}

func (net *Network) indexToken(t *Token, bm *BetaMemoryNode) {
	net.betaMemoryOf[t] = bm
}

func (net *Network) indexTokenByWME(wmeID uint64, t *Token) {
	net.tokensByWME[wmeID] = append(net.tokensByWME[wmeID], t)
}

func (net *Network) submitActivation(rule *Rule, t *Token, vars map[string]Value, assignments map[string]uint64) {
	net.agenda.AddActivation(&AgendaItem{Rule: rule, Token: t, Vars: vars, Assignments: assignments})
}

// AddRule compiles rule into the alpha and beta networks and registers
// it in production memory, per spec.md §4.6 and §4.9's add_rule.
func (net *Network) AddRule(rule *Rule) error {
	if len(rule.LHS) == 0 {
		return NewEvaluateError("rule %q has an empty LHS", rule.Name)
	}
	if err := net.buildBetaSpine(rule); err != nil {
		return fmt.Errorf("adding rule %q: %w", rule.Name, err)
	}
	net.pm.AddRule(rule)
	net.log.Debug("rule added", "name", rule.Name, "salience", rule.Salience, "complexity", rule.Complexity)
	return nil
}

// buildBetaSpine constructs the (Dummy, Join/BetaMemory..., PNode)
// chain for rule and wires it to the alpha network, per spec.md §4.6.
func (net *Network) buildBetaSpine(rule *Rule) error {
	k := len(rule.LHS)
	firstPos := make(map[string]int, k)
	for i, p := range rule.LHS {
		for _, c := range p.Constraints {
			if c.IsVariable() {
				if _, seen := firstPos[c.Name()]; !seen {
					firstPos[c.Name()] = i
				}
			}
		}
	}
	testsByPos := make([][]*Test, k)
	for _, test := range rule.Tests.Slice() {
		maxPos := -1
		for _, name := range test.Variables.Slice() {
			if pos, ok := firstPos[name]; ok {
				if pos > maxPos {
					maxPos = pos
				}
				continue
			}
			if _, isGlobal := net.env.GetGlobal(name); isGlobal {
				continue
			}
			return NewEvaluateError("rule %q: test references variable %q bound by neither a pattern nor a global", rule.Name, name)
		}
		if maxPos < 0 {
			maxPos = 0
		}
		testsByPos[maxPos] = append(testsByPos[maxPos], test)
	}

	localCache := make(map[string]*AlphaMemory, k)
	alphaFor := func(p *Pattern) *AlphaMemory {
		key := p.Head
		for _, c := range p.Constraints {
			key += "\x00" + alphaLabelKey(c)
		}
		if mem, ok := localCache[key]; ok {
			return mem
		}
		mem := net.root.Build(p.Head, p.Constraints)
		localCache[key] = mem
		return mem
	}

	pnode := NewPNode(rule)

	if k == 1 {
		mem := alphaFor(rule.LHS[0])
		pnode.AssignedVar = rule.LHS[0].AssignedVar
		pnode.Tests = testsByPos[0]
		mem.AddChild(pnode)
		return nil
	}

	// Build forward, position 0 (Dummy) through position k-1 (whose
	// JoinNode's child is the PNode directly instead of another
	// BetaMemoryNode). The resulting shape is exactly spec.md §4.6's
	// Dummy -> BetaMem -> Join -> BetaMem -> Join -> ... -> PNode chain;
	// building left-to-right instead of the source's right-to-left
	// simply reorders construction, not the final wiring (see
	// DESIGN.md).
	dummy := NewDummyJoinNode(alphaFor(rule.LHS[0]))
	dummy.AssignedVar = rule.LHS[0].AssignedVar
	dummy.Tests = testsByPos[0]

	bm := NewBetaMemoryNode()
	dummy.AddChild(bm)

	for pos := 1; pos < k; pos++ {
		jn := NewJoinNode(bm, alphaFor(rule.LHS[pos]))
		jn.AssignedVar = rule.LHS[pos].AssignedVar
		jn.Tests = testsByPos[pos]
		bm.AddChild(jn)
		if pos == k-1 {
			jn.AddChild(pnode)
		} else {
			next := NewBetaMemoryNode()
			jn.AddChild(next)
			bm = next
		}
	}
	return nil
}

// AssertFact adds fact to working memory and, if it is not a
// structural duplicate, matches it through the alpha network. It
// returns the new WME's id, or nil if the fact was already present
// (not an error, per spec.md §7).
func (net *Network) AssertFact(fact *Fact) (*uint64, error) {
	wme, err := net.wm.AddFact(fact)
	if err != nil {
		return nil, err
	}
	if wme == nil {
		return nil, nil
	}
	if err := net.root.Match(net, wme); err != nil {
		return nil, err
	}
	net.log.Debug("fact asserted", "wme", net.render(wme))
	id := wme.ID
	return &id, nil
}

// RetractFact removes the WME with the given id, invalidating every
// token that contained it and dropping it from every alpha memory, per
// spec.md §4.9. It reports whether a fact with that id existed.
func (net *Network) RetractFact(id uint64) bool {
	if _, ok := net.wm.Get(id); !ok {
		return false
	}
	for _, t := range net.tokensByWME[id] {
		net.agenda.DelActivation(t)
		if bm, ok := net.betaMemoryOf[t]; ok {
			bm.RemoveToken(t)
			delete(net.betaMemoryOf, t)
		}
	}
	delete(net.tokensByWME, id)
	for _, mem := range net.alphaMemoriesByWME[id] {
		mem.Remove(id)
	}
	delete(net.alphaMemoriesByWME, id)
	net.wm.RemoveFact(id)
	net.renderCache.Remove(id)
	net.log.Debug("fact retracted", "id", id)
	return true
}

// RecognizeActCycle repeatedly pops the highest-priority activation and
// fires its RHS, until the agenda is exhausted or limit firings have
// happened (limit == nil means unbounded), per spec.md §4.9.
func (net *Network) RecognizeActCycle(limit *int) (int, error) {
	fired := 0
	for {
		item := net.agenda.GetNextActivation()
		if item == nil {
			break
		}
		totalVars := item.TotalVars()
		for _, action := range item.Rule.RHS {
			action.Caller = net
			if _, err := net.Evaluator.Evaluate(action, false, totalVars); err != nil {
				return fired, fmt.Errorf("firing rule %q: %w", item.Rule.Name, err)
			}
		}
		fired++
		net.log.Debug("rule fired", "name", item.Rule.Name, "token", item.Token.FormatWMEIDs())
		if limit != nil && fired >= *limit {
			break
		}
	}
	return fired, nil
}

// AssertAll is a batch convenience wrapper absent from spec.md's core
// surface: it asserts every fact, aggregating any errors with
// go-multierror rather than aborting at the first failure.
func (net *Network) AssertAll(facts []*Fact) ([]uint64, error) {
	var ids []uint64
	var result *multierror.Error
	for _, f := range facts {
		id, err := net.AssertFact(f)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids, result.ErrorOrNil()
}

// RetractAll is AssertAll's retraction counterpart.
func (net *Network) RetractAll(ids []uint64) error {
	var result *multierror.Error
	for _, id := range ids {
		if !net.RetractFact(id) {
			result = multierror.Append(result, NewEvaluateError("no such fact id f-%d", id))
		}
	}
	return result.ErrorOrNil()
}

// SetStrategy switches the agenda's conflict-resolution strategy,
// rehoming every pending activation; see Agenda.SetStrategy.
func (net *Network) SetStrategy(strategy StrategyKind) bool {
	return net.agenda.SetStrategy(strategy)
}

func (net *Network) render(wme *WME) string {
	if s, ok := net.renderCache.Get(wme.ID); ok {
		return s
	}
	s := wme.String()
	net.renderCache.Add(wme.ID, s)
	return s
}
