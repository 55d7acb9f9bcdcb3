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

// WorkingMemory is the fact store: monotonic id allocation, duplicate
// suppression by structural fact equality, and ascending-id iteration.
// Ported from original_source/core/WorkingMemory.py.
type WorkingMemory struct {
	wmes    map[uint64]*WME
	byKey   map[string]bool
	counter uint64
}

func NewWorkingMemory() *WorkingMemory {
	return &WorkingMemory{
		wmes:    make(map[uint64]*WME),
		byKey:   make(map[string]bool),
		counter: 0,
	}
}

// AddFact coerces any variable-typed values in fact to their resolved
// content, rejects facts that still hold an unresolved variable, and
// silently ignores a structurally-duplicate fact by returning (nil,
// nil). Otherwise it allocates the next id and returns the new WME.
func (wm *WorkingMemory) AddFact(fact *Fact) (*WME, error) {
	resolved := make([]Value, len(fact.Values))
	for i, v := range fact.Values {
		r := v.Resolve()
		if r.IsVariable() {
			return nil, NewEvaluateError("fact %q contains null variable %s", fact.Head, r.Name())
		}
		resolved[i] = r
	}
	fact = &Fact{Head: fact.Head, Values: resolved}

	key := fact.key()
	if wm.byKey[key] {
		return nil, nil
	}

	wm.counter++
	wme := &WME{ID: wm.counter, Fact: fact}
	wm.wmes[wme.ID] = wme
	wm.byKey[key] = true
	return wme, nil
}

// RemoveFact removes the WME with the given id, if present, and reports
// whether a removal happened.
func (wm *WorkingMemory) RemoveFact(id uint64) bool {
	wme, ok := wm.wmes[id]
	if !ok {
		return false
	}
	delete(wm.wmes, id)
	delete(wm.byKey, wme.Fact.key())
	return true
}

// Get returns the WME with the given id, if present.
func (wm *WorkingMemory) Get(id uint64) (*WME, bool) {
	wme, ok := wm.wmes[id]
	return wme, ok
}

func (wm *WorkingMemory) Len() int { return len(wm.wmes) }

// All returns every WME in ascending id order.
func (wm *WorkingMemory) All() []*WME {
	ids := make([]uint64, 0, len(wm.wmes))
	for id := range wm.wmes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*WME, len(ids))
	for i, id := range ids {
		out[i] = wm.wmes[id]
	}
	return out
}
