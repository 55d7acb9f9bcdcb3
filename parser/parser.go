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

package parser

import (
	"strconv"
	"strings"

	"github.com/kevinawalsh/rete"
)

type parser struct {
	name   string
	tokens []token
	pos    int
}

// Parse lexes and parses input (a program of zero or more defglobal,
// deffacts, and defrule constructs), returning the items in source
// order. name identifies the source for error messages.
func Parse(name, input string) ([]Item, error) {
	tokens := lex(name, input)
	p := &parser{name: name, tokens: tokens}
	var items []Item
	for p.peek().kind != tokenEOF {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (p *parser) peek() token {
	if p.pos >= len(p.tokens) {
		return token{kind: tokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return token{kind: tokenEOF}
	}
	return p.tokens[i]
}

func (p *parser) next() token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) errorf(line int, format string, args ...interface{}) error {
	return rete.NewParseError(line, p.name, format, args...)
}

func (p *parser) expect(k tokenKind) (token, error) {
	t := p.next()
	if t.kind == tokenError {
		return t, p.errorf(t.line, "%s", t.text)
	}
	if t.kind != k {
		return t, p.errorf(t.line, "expected %s, got %s %q", k, t.kind, t.text)
	}
	return t, nil
}

func (p *parser) parseItem() (Item, error) {
	if _, err := p.expect(tokenLeftParen); err != nil {
		return nil, err
	}
	head, err := p.expect(tokenSymbol)
	if err != nil {
		return nil, err
	}
	switch head.text {
	case "defglobal":
		return p.parseDefGlobal()
	case "deffacts":
		return p.parseDefFacts()
	case "defrule":
		return p.parseDefRule()
	default:
		return nil, p.errorf(head.line, "unrecognized top-level construct %q", head.text)
	}
}

func (p *parser) parseDefGlobal() (Item, error) {
	var assignments []GlobalAssignment
	for p.peek().kind == tokenGlobalVariable {
		nameTok := p.next()
		eq, err := p.expect(tokenSymbol)
		if err != nil {
			return nil, err
		}
		if eq.text != "=" {
			return nil, p.errorf(eq.line, "expected '=' after global variable, got %q", eq.text)
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, GlobalAssignment{Name: globalVarName(nameTok.text), Expr: expr})
	}
	if _, err := p.expect(tokenRightParen); err != nil {
		return nil, err
	}
	return &DefGlobal{Assignments: assignments}, nil
}

func (p *parser) parseDefFacts() (Item, error) {
	nameTok, err := p.expect(tokenSymbol)
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokenString {
		p.next() // optional comment
	}
	var facts []FactPattern
	for p.peek().kind == tokenLeftParen {
		fp, err := p.parseFactPattern()
		if err != nil {
			return nil, err
		}
		facts = append(facts, fp)
	}
	if _, err := p.expect(tokenRightParen); err != nil {
		return nil, err
	}
	return &DefFacts{Name: nameTok.text, Facts: facts}, nil
}

func (p *parser) parseFactPattern() (FactPattern, error) {
	if _, err := p.expect(tokenLeftParen); err != nil {
		return FactPattern{}, err
	}
	head, err := p.expect(tokenSymbol)
	if err != nil {
		return FactPattern{}, err
	}
	var fields []*rete.ASTNode
	for p.peek().kind != tokenRightParen {
		f, err := p.parseExpr()
		if err != nil {
			return FactPattern{}, err
		}
		fields = append(fields, f)
	}
	if _, err := p.expect(tokenRightParen); err != nil {
		return FactPattern{}, err
	}
	return FactPattern{Head: head.text, Fields: fields}, nil
}

func (p *parser) parseDefRule() (Item, error) {
	nameTok, err := p.expect(tokenSymbol)
	if err != nil {
		return nil, err
	}
	rule := &DefRule{Name: nameTok.text}
	if p.peek().kind == tokenString {
		rule.Comment = unquoteString(p.next().text)
	}
	if p.peek().kind == tokenLeftParen && p.peekAt(1).kind == tokenSymbol && p.peekAt(1).text == "declare" {
		if err := p.parseDeclare(rule); err != nil {
			return nil, err
		}
	}
	for p.peek().kind == tokenLeftParen || p.peek().kind == tokenVariable {
		elem, err := p.parseLHSElement()
		if err != nil {
			return nil, err
		}
		rule.LHS = append(rule.LHS, elem)
	}
	if _, err := p.expect(tokenArrow); err != nil {
		return nil, err
	}
	for p.peek().kind == tokenLeftParen {
		action, err := p.parseRHSAction()
		if err != nil {
			return nil, err
		}
		rule.RHS = append(rule.RHS, action)
	}
	if _, err := p.expect(tokenRightParen); err != nil {
		return nil, err
	}
	return rule, nil
}

func (p *parser) parseDeclare(rule *DefRule) error {
	if _, err := p.expect(tokenLeftParen); err != nil {
		return err
	}
	if _, err := p.expect(tokenSymbol); err != nil { // "declare"
		return err
	}
	for p.peek().kind == tokenLeftParen {
		if _, err := p.expect(tokenLeftParen); err != nil {
			return err
		}
		prop, err := p.expect(tokenSymbol)
		if err != nil {
			return err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return err
		}
		if prop.text == "salience" {
			rule.Salience = expr
		}
		if _, err := p.expect(tokenRightParen); err != nil {
			return err
		}
	}
	if _, err := p.expect(tokenRightParen); err != nil {
		return err
	}
	return nil
}

// parseLHSElement handles: `(test <call>)`, `?var <- (head ...)`, and
// plain `(head ...)`.
func (p *parser) parseLHSElement() (LHSElement, error) {
	if p.peek().kind == tokenVariable {
		varTok := p.next()
		arrow, err := p.expect(tokenSymbol)
		if err != nil {
			return LHSElement{}, err
		}
		if arrow.text != "<-" {
			return LHSElement{}, p.errorf(arrow.line, "expected \"<-\" after %s, got %q", varTok.text, arrow.text)
		}
		pat, err := p.parsePatternCE()
		if err != nil {
			return LHSElement{}, err
		}
		pat.AssignedVar = varTok.text[1:]
		return LHSElement{AssignedVar: pat.AssignedVar, Pattern: pat}, nil
	}
	if p.peek().kind == tokenLeftParen && p.peekAt(1).kind == tokenSymbol && p.peekAt(1).text == "test" {
		p.next() // (
		p.next() // test
		call, err := p.parseExpr()
		if err != nil {
			return LHSElement{}, err
		}
		if _, err := p.expect(tokenRightParen); err != nil {
			return LHSElement{}, err
		}
		return LHSElement{Test: rete.NewTest(call)}, nil
	}
	pat, err := p.parsePatternCE()
	if err != nil {
		return LHSElement{}, err
	}
	return LHSElement{Pattern: pat}, nil
}

func (p *parser) parsePatternCE() (*rete.Pattern, error) {
	if _, err := p.expect(tokenLeftParen); err != nil {
		return nil, err
	}
	head, err := p.expect(tokenSymbol)
	if err != nil {
		return nil, err
	}
	var constraints []rete.Value
	for p.peek().kind != tokenRightParen {
		v, err := p.parseConstraint()
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, v)
	}
	if _, err := p.expect(tokenRightParen); err != nil {
		return nil, err
	}
	return rete.NewPattern(head.text, constraints...), nil
}

// parseConstraint handles an LHS pattern field: a constant or a
// variable, never a nested function call (spec.md §6, original
// Parser.py's LHS_CONSTRAINT grammar — enforced here simply by never
// looking at tokenLeftParen).
func (p *parser) parseConstraint() (rete.Value, error) {
	return p.parseConstraintOrVariable()
}

// parseExpr handles a full expression: a constant, a variable, or a
// nested function call `(name expr...)`.
func (p *parser) parseExpr() (*rete.ASTNode, error) {
	if p.peek().kind == tokenLeftParen {
		p.next()
		name, err := p.expect(tokenSymbol)
		if err != nil {
			return nil, err
		}
		var args []*rete.ASTNode
		for p.peek().kind != tokenRightParen {
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		if _, err := p.expect(tokenRightParen); err != nil {
			return nil, err
		}
		return rete.NewCallNode(name.text, args...), nil
	}
	v, err := p.parseConstraintOrVariable()
	if err != nil {
		return nil, err
	}
	return rete.NewValueNode(v), nil
}

func (p *parser) parseConstraintOrVariable() (rete.Value, error) {
	t := p.next()
	switch t.kind {
	case tokenSymbol:
		if t.text == "TRUE" || t.text == "FALSE" {
			return rete.NewBoolean(t.text == "TRUE"), nil
		}
		return rete.NewSymbol(t.text), nil
	case tokenString:
		return rete.NewString(unquoteString(t.text)), nil
	case tokenInteger:
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return rete.Value{}, p.errorf(t.line, "malformed integer %q", t.text)
		}
		return rete.NewInteger(n), nil
	case tokenFloat:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return rete.Value{}, p.errorf(t.line, "malformed float %q", t.text)
		}
		return rete.NewFloat(f), nil
	case tokenVariable:
		return rete.NewVariable(rete.LocalScope, t.text[1:]), nil
	case tokenGlobalVariable:
		return rete.NewVariable(rete.GlobalScope, globalVarName(t.text)), nil
	default:
		return rete.Value{}, p.errorf(t.line, "expected an expression, got %s %q", t.kind, t.text)
	}
}

// parseRHSAction handles the five RHS special forms `assert`, `retract`,
// `bind`, `printout`, `strategy`; `assert`'s fact arguments get the
// special (head, fields) shape eval's special-form dispatch expects
// (see eval/special.go) instead of being parsed as ordinary expressions.
func (p *parser) parseRHSAction() (*rete.ASTNode, error) {
	if _, err := p.expect(tokenLeftParen); err != nil {
		return nil, err
	}
	name, err := p.expect(tokenSymbol)
	if err != nil {
		return nil, err
	}
	var args []*rete.ASTNode
	if name.text == "assert" {
		for p.peek().kind == tokenLeftParen {
			fp, err := p.parseFactPattern()
			if err != nil {
				return nil, err
			}
			args = append(args, rete.NewCallNode(fp.Head, fp.Fields...))
		}
	} else if name.text == "bind" {
		varTok := p.next()
		var target rete.Value
		switch varTok.kind {
		case tokenVariable:
			target = rete.NewVariable(rete.LocalScope, varTok.text[1:])
		case tokenGlobalVariable:
			target = rete.NewVariable(rete.GlobalScope, globalVarName(varTok.text))
		default:
			return nil, p.errorf(varTok.line, "expected variable, got %s %q", varTok.kind, varTok.text)
		}
		args = append(args, rete.NewValueNode(target))
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, expr)
	} else if name.text == "strategy" {
		strat, err := p.expect(tokenSymbol)
		if err != nil {
			return nil, err
		}
		args = append(args, rete.NewValueNode(rete.NewSymbol(strat.text)))
	} else {
		for p.peek().kind != tokenRightParen {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, expr)
		}
	}
	if _, err := p.expect(tokenRightParen); err != nil {
		return nil, err
	}
	return rete.NewCallNode(name.text, args...), nil
}

func globalVarName(text string) string {
	return strings.TrimSuffix(strings.TrimPrefix(text, "?*"), "*")
}

func unquoteString(text string) string {
	s, err := strconv.Unquote(text)
	if err != nil {
		return strings.Trim(text, "\"")
	}
	return s
}
