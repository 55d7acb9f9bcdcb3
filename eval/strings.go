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

package eval

import (
	"strings"

	"github.com/kevinawalsh/rete"
)

// registerStrings installs strcat, substr, strlen, strindex, symcat from
// Functions.py. substr/strindex mirror TypeSystem.py's StringType exactly:
// 0-based, exclusive-end Python slicing for substr, and a -1 (not a
// Boolean) result on strindex's miss, both operating on the unquoted
// content.
func registerStrings(m *Mapper) {
	m.Register("strcat", strcat)
	m.Register("substr", substr)
	m.Register("strlen", strlen)
	m.Register("strindex", strindex)
	m.Register("symcat", symcat)
}

func strcat(_ *rete.Network, args []rete.Value) (rete.Value, error) {
	if len(args) < 1 {
		return rete.Value{}, rete.NewEvaluateError("\"strcat\" requires at least 1 parameter")
	}
	var b strings.Builder
	for _, a := range args {
		if a.Kind() != rete.String {
			return rete.Value{}, rete.NewEvaluateError("\"strcat\" requires all parameters to be strings")
		}
		b.WriteString(a.Str())
	}
	return rete.NewString(b.String()), nil
}

func symcat(_ *rete.Network, args []rete.Value) (rete.Value, error) {
	if len(args) < 1 {
		return rete.Value{}, rete.NewEvaluateError("\"symcat\" requires at least 1 parameter")
	}
	var b strings.Builder
	for _, a := range args {
		if a.Kind() != rete.Symbol {
			return rete.Value{}, rete.NewEvaluateError("\"symcat\" requires all parameters to be symbols")
		}
		b.WriteString(a.Str())
	}
	return rete.NewSymbol(b.String()), nil
}

func substr(_ *rete.Network, args []rete.Value) (rete.Value, error) {
	if len(args) != 3 {
		return rete.Value{}, rete.NewEvaluateError("\"substr\" requires 3 parameters")
	}
	if args[0].Kind() != rete.String || args[1].Kind() != rete.Integer || args[2].Kind() != rete.Integer {
		return rete.Value{}, rete.NewEvaluateError("\"substr\" requires 1 string and 2 integers")
	}
	s := args[0].Str()
	start, end := int(args[1].Int()), int(args[2].Int())
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start > end {
		start = end
	}
	return rete.NewString(s[start:end]), nil
}

func strlen(_ *rete.Network, args []rete.Value) (rete.Value, error) {
	if len(args) != 1 {
		return rete.Value{}, rete.NewEvaluateError("\"strlen\" requires 1 parameter")
	}
	if args[0].Kind() != rete.String {
		return rete.Value{}, rete.NewEvaluateError("\"strlen\" requires 1 string")
	}
	return rete.NewInteger(int64(len(args[0].Str()))), nil
}

func strindex(_ *rete.Network, args []rete.Value) (rete.Value, error) {
	if len(args) != 2 {
		return rete.Value{}, rete.NewEvaluateError("\"strindex\" requires 2 parameters")
	}
	if args[0].Kind() != rete.String || args[1].Kind() != rete.String {
		return rete.Value{}, rete.NewEvaluateError("\"strindex\" requires 2 strings")
	}
	idx := strings.Index(args[1].Str(), args[0].Str())
	return rete.NewInteger(int64(idx)), nil
}
