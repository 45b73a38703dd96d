// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a streaming lexer for minipas programs.
package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"nickandperla.net/minipas/internal/token"
)

// ErrLex is the sentinel wrapped by every LexError.
var ErrLex = errors.New("lex error")

// LexError reports a character that does not start any token.
type LexError struct {
	Char rune
	Pos  token.Pos
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %s: unexpected character %q", e.Pos, e.Char)
}

func (e *LexError) Unwrap() error { return ErrLex }

// Scanner tokenizes minipas input rune-by-rune.
// Tokens are produced on demand; there is no pushback.
type Scanner struct {
	reader *bufio.Reader
	buf    strings.Builder
	pos    token.Pos // position of the next rune to read
	eof    *token.Token
	err    error // sticky once set
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
		pos:    token.Pos{Line: 1, Col: 1},
	}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// Next returns the next token from the input. After the end of input it
// returns EndOfInput on every call; after an error it returns that error on
// every call.
func (s *Scanner) Next() (token.Token, error) {
	if s.err != nil {
		return token.Token{}, s.err
	}
	if s.eof != nil {
		return *s.eof, nil
	}

	for {
		r, p, err := s.read()
		if err == io.EOF {
			s.eof = &token.Token{Kind: token.EndOfInput, Pos: p}
			return *s.eof, nil
		}
		if err != nil {
			s.err = err
			return token.Token{}, err
		}

		switch {
		case r == '\n':
			return token.Token{Kind: token.EndOfLine, Value: "\n", Pos: p}, nil
		case r == ';':
			return token.Token{Kind: token.EndOfLine, Value: ";", Pos: p}, nil
		case isSpace(r):
			continue
		case isDigit(r):
			lit, err := s.scanRun(r, isDigit)
			if err != nil {
				return token.Token{}, err
			}
			return token.Token{Kind: token.Integer, Value: lit, Pos: p}, nil
		case isLetter(r):
			return s.scanIdent(r, p)
		}

		if k, ok := punct[r]; ok {
			return token.Token{Kind: k, Value: string(r), Pos: p}, nil
		}
		s.err = &LexError{Char: r, Pos: p}
		return token.Token{}, s.err
	}
}

var punct = map[rune]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Mul,
	'/': token.Div,
	'(': token.LParen,
	')': token.RParen,
	'=': token.Assign,
}

// scanIdent scans an identifier or keyword starting with first.
// A '.' directly after END belongs to the END token.
func (s *Scanner) scanIdent(first rune, p token.Pos) (token.Token, error) {
	lit, err := s.scanRun(first, isIdentChar)
	if err != nil {
		return token.Token{}, err
	}
	kind := token.Lookup(lit)
	if kind == token.End {
		ok, err := s.got('.')
		if err != nil {
			return token.Token{}, err
		}
		if ok {
			lit += "."
		}
	}
	return token.Token{Kind: kind, Value: lit, Pos: p}, nil
}

// scanRun accumulates first and every following rune accepted by pred.
func (s *Scanner) scanRun(first rune, pred func(rune) bool) (string, error) {
	s.buf.Reset()
	s.buf.WriteRune(first)
	for {
		r, p, err := s.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.err = err
			return "", err
		}
		if !pred(r) {
			s.unread(p)
			break
		}
		s.buf.WriteRune(r)
	}
	return s.buf.String(), nil
}

// got consumes the next rune if it is want.
func (s *Scanner) got(want rune) (bool, error) {
	r, p, err := s.read()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		s.err = err
		return false, err
	}
	if r != want {
		s.unread(p)
		return false, nil
	}
	return true, nil
}

// read returns the next rune and the position it started at.
func (s *Scanner) read() (rune, token.Pos, error) {
	p := s.pos
	r, size, err := s.reader.ReadRune()
	if err != nil {
		return 0, p, err
	}
	s.pos.Offset += size
	if r == '\n' {
		s.pos.Line++
		s.pos.Col = 1
	} else {
		s.pos.Col++
	}
	return r, p, nil
}

// unread puts back the rune most recently returned by read, which started at p.
func (s *Scanner) unread(p token.Pos) {
	_ = s.reader.UnreadRune()
	s.pos = p
}

// Tokenize drains src into a token slice ending with EndOfInput.
func Tokenize(src string) ([]token.Token, error) {
	s := NewFromString(src)
	var toks []token.Token
	for {
		tok, err := s.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EndOfInput {
			return toks, nil
		}
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\f' || r == '\v'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isIdentChar(r rune) bool {
	return isLetter(r) || isDigit(r)
}
