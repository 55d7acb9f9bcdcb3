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

// Package config decodes cmd/rete's startup parameters: which
// conflict-resolution strategy to start the agenda with, how many
// firings a single run may take before it is cut off, and which source
// files to load before dropping into (or instead of) the interactive
// shell. Decoded with go-viper/mapstructure/v2, the way the retrieval
// pack's HashiCorp-style tools shape loosely-typed input (JSON/HCL/flag
// maps) into a strict Go struct.
package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kevinawalsh/rete"
)

// EngineConfig is the fully-resolved set of parameters cmd/rete needs
// to build a rete.Network and run it.
type EngineConfig struct {
	// Strategy names the initial conflict-resolution strategy; one of
	// "depth", "breadth", "random", "complexity", "simplicity", "lex",
	// "mea". Defaults to "depth" (spec.md §4.9's default).
	Strategy string `mapstructure:"strategy"`

	// MaxFirings caps RecognizeActCycle's firing count; zero means
	// unbounded.
	MaxFirings int `mapstructure:"max_firings"`

	// Files are source files to parse and build before dropping into
	// the shell (or, for `rete run`, instead of it).
	Files []string `mapstructure:"files"`

	// Verbose is decoded with the rest of the config; cmd/rete does not
	// read it, and its loggers always log at warn level.
	Verbose bool `mapstructure:"verbose"`
}

// Default returns the zero-value-safe configuration cmd/rete starts
// from before flags/files override it.
func Default() EngineConfig {
	return EngineConfig{Strategy: "depth"}
}

// Decode merges raw (typically flag values gathered into a map by
// cmd/rete) onto a copy of base, validating the result.
func Decode(base EngineConfig, raw map[string]interface{}) (EngineConfig, error) {
	cfg := base
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return cfg, fmt.Errorf("config: building decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return cfg, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports an error unless cfg's Strategy names one of the seven
// strategies (see StrategyKind) and MaxFirings is not negative.
func (cfg EngineConfig) Validate() error {
	if _, ok := cfg.StrategyKind(); !ok {
		return fmt.Errorf("config: unrecognized strategy %q", cfg.Strategy)
	}
	if cfg.MaxFirings < 0 {
		return fmt.Errorf("config: max_firings must not be negative, got %d", cfg.MaxFirings)
	}
	return nil
}

var strategyNames = map[string]rete.StrategyKind{
	"depth":      rete.Depth,
	"breadth":    rete.Breadth,
	"random":     rete.Random,
	"complexity": rete.Complexity,
	"simplicity": rete.Simplicity,
	"lex":        rete.Lex,
	"mea":        rete.MEA,
}

// StrategyKind resolves cfg.Strategy to a rete.StrategyKind.
func (cfg EngineConfig) StrategyKind() (rete.StrategyKind, bool) {
	kind, ok := strategyNames[strings.ToLower(cfg.Strategy)]
	return kind, ok
}
