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

// Token is a linked list of WMEs forming a partial (or complete) match:
// each token is its parent plus one more WME. Ported from
// original_source/core/rete/Token.py. Equality is by identity (pointer),
// exactly as the spec requires, since Go structs compare by address when
// held by pointer and used as map keys.
type Token struct {
	Parent *Token
	WME    *WME

	// wmeIDs is the cached ordered list of WME ids along the chain, head
	// to tail; built once at construction since tokens are immutable.
	wmeIDs []uint64
}

// NewToken builds a new token by extending parent with wme. parent may
// be nil for the first pattern of a rule (see DummyJoinNode).
func NewToken(parent *Token, wme *WME) *Token {
	t := &Token{Parent: parent, WME: wme}
	if parent != nil {
		t.wmeIDs = append(append([]uint64(nil), parent.wmeIDs...), wme.ID)
	} else {
		t.wmeIDs = []uint64{wme.ID}
	}
	return t
}

// WMEIDs returns the ordered list of WME ids in this token, head to
// tail, matching AgendaItem's "f-id f-id ..." pretty-printing.
func (t *Token) WMEIDs() []uint64 { return t.wmeIDs }

func (t *Token) String() string {
	if t.Parent != nil {
		return "<" + t.Parent.String() + ", " + t.WME.String() + ">"
	}
	return "<" + t.WME.String() + ">"
}

// FormatWMEIDs renders a token's WME ids as "f-1 f-2 ..." per the
// activation pretty-printing format spec.md §6 requires verbatim.
func (t *Token) FormatWMEIDs() string {
	var b strings.Builder
	for i, id := range t.wmeIDs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("f-")
		b.WriteString(strconv.FormatUint(id, 10))
	}
	return b.String()
}
