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
	"container/heap"
	"math/rand"
)

func newStrategyContainer(kind StrategyKind) strategyContainer {
	switch kind {
	case Depth:
		return &stackContainer{}
	case Breadth:
		return &queueContainer{}
	case Random:
		return &randomContainer{}
	case Complexity:
		return newHeapContainer(func(a, b *AgendaItem) bool {
			return a.Rule.Complexity > b.Rule.Complexity // highest complexity first
		})
	case Simplicity:
		return newHeapContainer(func(a, b *AgendaItem) bool {
			return a.Rule.Complexity < b.Rule.Complexity // lowest complexity first
		})
	case Lex:
		return newHeapContainer(func(a, b *AgendaItem) bool {
			return lexLess(b.Token.WMEIDs(), a.Token.WMEIDs()) // negated: most recent first
		})
	case MEA:
		return newHeapContainer(meaLess)
	default:
		return &stackContainer{}
	}
}

// stackContainer implements the "depth" strategy: push front, pop
// front, which is a plain LIFO stack (insertion and removal at the same
// end behave identically whichever end is called "front").
type stackContainer struct {
	items []*AgendaItem
}

func (s *stackContainer) Insert(item *AgendaItem) { s.items = append(s.items, item) }

func (s *stackContainer) PopNext() (*AgendaItem, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	n := len(s.items) - 1
	item := s.items[n]
	s.items = s.items[:n]
	return item, true
}

func (s *stackContainer) Len() int { return len(s.items) }

// queueContainer implements the "breadth" strategy: push back, pop
// front — a plain FIFO queue.
type queueContainer struct {
	items []*AgendaItem
}

func (q *queueContainer) Insert(item *AgendaItem) { q.items = append(q.items, item) }

func (q *queueContainer) PopNext() (*AgendaItem, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

func (q *queueContainer) Len() int { return len(q.items) }

// randomContainer implements the "random" strategy: append, then pop
// at a uniformly random index (spec.md §9's resolution of the
// Open Question over how the source's "random" draw should behave: a
// plain list with O(1) swap-to-end removal, not a priority structure).
type randomContainer struct {
	items []*AgendaItem
}

func (r *randomContainer) Insert(item *AgendaItem) { r.items = append(r.items, item) }

func (r *randomContainer) PopNext() (*AgendaItem, bool) {
	n := len(r.items)
	if n == 0 {
		return nil, false
	}
	i := rand.Intn(n)
	item := r.items[i]
	r.items[i] = r.items[n-1]
	r.items = r.items[:n-1]
	return item, true
}

func (r *randomContainer) Len() int { return len(r.items) }

// lexLess orders two WME-id sequences lexicographically, by value then
// length (a strict prefix sorts before its extension).
func lexLess(a, b []uint64) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// meaLess orders by first-WME-id descending (so the heap, popping its
// "least" item first, returns the highest first-WME-id — i.e. the most
// recently matched initial pattern), then falls back to the negated lex
// ordering on ties.
func meaLess(a, b *AgendaItem) bool {
	aIDs, bIDs := a.Token.WMEIDs(), b.Token.WMEIDs()
	var aFirst, bFirst uint64
	if len(aIDs) > 0 {
		aFirst = aIDs[0]
	}
	if len(bIDs) > 0 {
		bFirst = bIDs[0]
	}
	if aFirst != bFirst {
		return aFirst > bFirst // negated: higher first-id pops first
	}
	return lexLess(bIDs, aIDs) // negated lex tuple
}

// heapData adapts a less function to container/heap.Interface.
type heapData struct {
	items []*AgendaItem
	less  func(a, b *AgendaItem) bool
}

func (h *heapData) Len() int            { return len(h.items) }
func (h *heapData) Less(i, j int) bool  { return h.less(h.items[i], h.items[j]) }
func (h *heapData) Swap(i, j int)       { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *heapData) Push(x interface{})  { h.items = append(h.items, x.(*AgendaItem)) }
func (h *heapData) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// heapContainer wraps heapData behind the strategyContainer interface
// for the four priority-ordered strategies (complexity, simplicity,
// lex, mea). Grounded on container/heap usage in
// _examples/katalvlaran-lvlath's dijkstra/prim_kruskal implementations.
type heapContainer struct {
	data *heapData
}

func newHeapContainer(less func(a, b *AgendaItem) bool) *heapContainer {
	return &heapContainer{data: &heapData{less: less}}
}

func (h *heapContainer) Insert(item *AgendaItem) { heap.Push(h.data, item) }

func (h *heapContainer) PopNext() (*AgendaItem, bool) {
	if h.data.Len() == 0 {
		return nil, false
	}
	return heap.Pop(h.data).(*AgendaItem), true
}

func (h *heapContainer) Len() int { return h.data.Len() }
