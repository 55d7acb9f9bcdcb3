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

import "fmt"

// EvaluateError is raised for anything that goes wrong while resolving
// variables, calling functions, or coercing facts: unbound globals,
// unknown function names, ill-typed arguments, division by zero, a fact
// left with an unresolved variable, or a test referencing a variable
// that is unbound at every join.
type EvaluateError struct {
	Message string
}

func NewEvaluateError(format string, args ...interface{}) *EvaluateError {
	return &EvaluateError{Message: fmt.Sprintf(format, args...)}
}

func (e *EvaluateError) Error() string {
	return "[EVALUATION ERROR]: " + e.Message
}

// ParseError is raised by the external parser only; the core never
// constructs one itself, but declares it so that parser/builder errors
// can be told apart from evaluation errors by callers using errors.As.
type ParseError struct {
	Message string
	Line    int
	Source  string
}

func NewParseError(line int, source, format string, args ...interface{}) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Line: line, Source: source}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("[SYNTAX ERROR AT LINE %d] %s\nLine: %q", e.Line, e.Message, e.Source)
}
