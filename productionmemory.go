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

// ProductionMemory is the name→Rule map. AddRule replaces silently on a
// name collision. Ported from original_source/core/ProductionMemory.py.
type ProductionMemory struct {
	rules map[string]*Rule
	names *set.Set[string]
}

func NewProductionMemory() *ProductionMemory {
	return &ProductionMemory{
		rules: make(map[string]*Rule),
		names: set.New[string](0),
	}
}

// AddRule inserts rule, replacing any existing rule of the same name. It
// returns true iff the name was not already present.
func (pm *ProductionMemory) AddRule(rule *Rule) bool {
	_, existed := pm.rules[rule.Name]
	pm.rules[rule.Name] = rule
	pm.names.Insert(rule.Name)
	return !existed
}

// RemoveRule deletes the named rule from the map. Per spec.md §9, this
// is deliberately shallow: it does not tear down any beta-spine nodes
// built for that rule (remove_rule is unimplemented in the source this
// engine is ported from, and the semantics under active tokens are
// unspecified).
func (pm *ProductionMemory) RemoveRule(name string) bool {
	if _, ok := pm.rules[name]; !ok {
		return false
	}
	delete(pm.rules, name)
	pm.names.Remove(name)
	return true
}

func (pm *ProductionMemory) Get(name string) (*Rule, bool) {
	r, ok := pm.rules[name]
	return r, ok
}

func (pm *ProductionMemory) Names() []string {
	return pm.names.Slice()
}

func (pm *ProductionMemory) Len() int { return len(pm.rules) }
