// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package parser builds a minipas syntax tree by recursive descent.
//
// Grammar:
//
//	program        := EOL* 'BEGIN' statement_list 'END' EOL* EOF
//	statement_list := statement (EOL statement)*
//	statement      := ID '=' expr | /* empty */
//	expr           := term (('+' | '-') term)*
//	term           := factor (('*' | '/') factor)*
//	factor         := INTEGER | '(' expr ')' | ('+' | '-') factor | ID
package parser

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"nickandperla.net/minipas/internal/ast"
	"nickandperla.net/minipas/internal/scanner"
	"nickandperla.net/minipas/internal/token"
)

// ErrParse is the sentinel wrapped by every ParseError.
var ErrParse = errors.New("parse error")

// ParseError reports a token that does not fit the grammar.
type ParseError struct {
	Pos      token.Pos
	Expected []token.Kind
	Got      token.Token
}

func (e *ParseError) Error() string {
	want := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		want[i] = k.String()
	}
	return fmt.Sprintf("parse error at %s: expected %s, got %s", e.Pos, strings.Join(want, " or "), e.Got)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// Parser holds exactly one token of lookahead.
type Parser struct {
	scanner *scanner.Scanner
	tok     token.Token
}

// New creates a Parser over s and primes the lookahead token.
func New(s *scanner.Scanner) (*Parser, error) {
	p := &Parser{scanner: s}
	if err := p.next(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse parses src into a Block.
func Parse(src string) (*ast.Block, error) {
	return ParseReader(strings.NewReader(src))
}

// ParseReader parses the program read from r into a Block.
func ParseReader(r io.Reader) (*ast.Block, error) {
	p, err := New(scanner.New(r))
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

// next fetches the following token.
func (p *Parser) next() error {
	tok, err := p.scanner.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// eat consumes the current token if it is of kind k, otherwise fails
// without advancing.
func (p *Parser) eat(k token.Kind) (token.Token, error) {
	tok := p.tok
	if tok.Kind != k {
		return tok, p.errorf(k)
	}
	return tok, p.next()
}

// skip consumes any run of tokens of kind k.
func (p *Parser) skip(k token.Kind) error {
	for p.tok.Kind == k {
		if err := p.next(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) errorf(expected ...token.Kind) error {
	return &ParseError{Pos: p.tok.Pos, Expected: expected, Got: p.tok}
}

// Parse parses a complete program. It fails on the first error; no partial
// tree is returned.
func (p *Parser) Parse() (*ast.Block, error) {
	if err := p.skip(token.EndOfLine); err != nil {
		return nil, err
	}
	begin, err := p.eat(token.Begin)
	if err != nil {
		return nil, err
	}
	b := &ast.Block{Begin: begin.Pos}

	if b.Stmts, err = p.statementList(); err != nil {
		return nil, err
	}

	end, err := p.eat(token.End)
	if err != nil {
		return nil, err
	}
	b.End = &ast.Sentinel{EndPos: end.Pos}

	if err := p.skip(token.EndOfLine); err != nil {
		return nil, err
	}
	if p.tok.Kind != token.EndOfInput {
		return nil, p.errorf(token.EndOfInput)
	}
	return b, nil
}

// statementList parses statement (EOL statement)*, dropping empty statements.
func (p *Parser) statementList() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		if s != nil {
			stmts = append(stmts, s)
		}
		if p.tok.Kind != token.EndOfLine {
			return stmts, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
}

// statement parses ID '=' expr, or nothing. A nil statement is empty.
func (p *Parser) statement() (ast.Stmt, error) {
	if p.tok.Kind != token.Id {
		return nil, nil
	}
	name, err := p.eat(token.Id)
	if err != nil {
		return nil, err
	}
	return p.assignment(name)
}

// assignment parses '=' expr for the already consumed name.
func (p *Parser) assignment(name token.Token) (*ast.Assignment, error) {
	if _, err := p.eat(token.Assign); err != nil {
		return nil, err
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{NamePos: name.Pos, Name: name.Value, Value: value}, nil
}

// expr parses term (('+' | '-') term)*, left-associative.
func (p *Parser) expr() (ast.Expr, error) {
	x, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind.IsAdditive() {
		op := p.tok
		if err := p.next(); err != nil {
			return nil, err
		}
		y, err := p.term()
		if err != nil {
			return nil, err
		}
		x = &ast.BinaryOp{OpPos: op.Pos, Op: binOp(op.Kind), X: x, Y: y}
	}
	return x, nil
}

// term parses factor (('*' | '/') factor)*, left-associative.
func (p *Parser) term() (ast.Expr, error) {
	x, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind.IsMultiplicative() {
		op := p.tok
		if err := p.next(); err != nil {
			return nil, err
		}
		y, err := p.factor()
		if err != nil {
			return nil, err
		}
		x = &ast.BinaryOp{OpPos: op.Pos, Op: binOp(op.Kind), X: x, Y: y}
	}
	return x, nil
}

// factor parses INTEGER | '(' expr ')' | ('+' | '-') factor | ID.
func (p *Parser) factor() (ast.Expr, error) {
	tok := p.tok
	switch tok.Kind {
	case token.Integer:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &ast.NumberLiteral{ValuePos: tok.Pos, Lit: tok.Value, Value: parseNumber(tok.Value)}, nil

	case token.LParen:
		if err := p.next(); err != nil {
			return nil, err
		}
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.RParen); err != nil {
			return nil, err
		}
		return x, nil

	case token.Plus, token.Minus:
		if err := p.next(); err != nil {
			return nil, err
		}
		x, err := p.factor()
		if err != nil {
			return nil, err
		}
		op := ast.Pos
		if tok.Kind == token.Minus {
			op = ast.Neg
		}
		return &ast.UnaryOp{OpPos: tok.Pos, Op: op, X: x}, nil

	case token.Id:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &ast.VariableRef{NamePos: tok.Pos, Name: tok.Value}, nil
	}
	return nil, p.errorf(token.Integer, token.LParen, token.Plus, token.Minus, token.Id)
}

func binOp(k token.Kind) ast.BinOp {
	switch k {
	case token.Minus:
		return ast.Sub
	case token.Mul:
		return ast.Mul
	case token.Div:
		return ast.Div
	}
	return ast.Add
}

// parseNumber converts a digit run with float32 rounding. Runs beyond the
// float32 range become +Inf.
func parseNumber(lit string) float32 {
	v, err := strconv.ParseFloat(lit, 32)
	if err != nil {
		return float32(math.Inf(1))
	}
	return float32(v)
}
