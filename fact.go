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
	"strconv"
	"strings"
)

// Fact is a head symbol plus an ordered sequence of Values. Equality is
// structural over (Head, Values); see datalog.go's Literal.tag for the
// idea this is lifted from.
type Fact struct {
	Head   string
	Values []Value
}

func NewFact(head string, values ...Value) *Fact {
	return &Fact{Head: head, Values: values}
}

// key returns a string that is equal for two Facts iff they are
// structurally equal, used both for working-memory duplicate
// suppression and as a map key (Facts themselves aren't comparable once
// they may hold resolved variables).
func (f *Fact) key() string {
	var b strings.Builder
	b.WriteString(f.Head)
	for _, v := range f.Values {
		b.WriteByte('\x00')
		b.WriteString(v.Resolve().String())
	}
	return b.String()
}

func (f *Fact) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(f.Head)
	for _, v := range f.Values {
		b.WriteByte(' ')
		b.WriteString(v.String())
	}
	b.WriteByte(')')
	return b.String()
}

// WME (Working Memory Element) pairs a stable, monotonically assigned
// id with a Fact. Distinct WMEs always carry distinct ids; see
// WorkingMemory for the uniqueness and duplicate-suppression invariants.
type WME struct {
	ID   uint64
	Fact *Fact
}

func (w *WME) String() string {
	return "f-" + strconv.FormatUint(w.ID, 10) + " " + w.Fact.String()
}
