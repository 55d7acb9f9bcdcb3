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

package config

import (
	"testing"

	"github.com/kevinawalsh/rete"
)

func TestDefaultStrategyIsDepth(t *testing.T) {
	cfg := Default()
	kind, ok := cfg.StrategyKind()
	if !ok || kind != rete.Depth {
		t.Fatalf("expected depth, got %v, ok=%v", kind, ok)
	}
}

func TestDecodeOverridesStrategyAndFiles(t *testing.T) {
	cfg, err := Decode(Default(), map[string]interface{}{
		"strategy": "Breadth",
		"files":    []string{"a.clp", "b.clp"},
	})
	if err != nil {
		t.Fatal(err)
	}
	kind, ok := cfg.StrategyKind()
	if !ok || kind != rete.Breadth {
		t.Fatalf("expected case-insensitive match to breadth, got %v", kind)
	}
	if len(cfg.Files) != 2 {
		t.Fatalf("expected 2 files, got %v", cfg.Files)
	}
}

func TestDecodeRejectsUnknownStrategy(t *testing.T) {
	_, err := Decode(Default(), map[string]interface{}{"strategy": "bogus"})
	if err == nil {
		t.Fatal("expected an unrecognized strategy name to fail validation")
	}
}

func TestDecodeRejectsNegativeMaxFirings(t *testing.T) {
	_, err := Decode(Default(), map[string]interface{}{"max_firings": -1})
	if err == nil {
		t.Fatal("expected a negative max_firings to fail validation")
	}
}

func TestDecodeWeaklyTypedMaxFirings(t *testing.T) {
	cfg, err := Decode(Default(), map[string]interface{}{"max_firings": "5"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxFirings != 5 {
		t.Fatalf("expected WeaklyTypedInput to coerce \"5\" to 5, got %d", cfg.MaxFirings)
	}
}
