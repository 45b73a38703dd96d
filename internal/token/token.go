// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines minipas token kinds and source positions.
package token

import (
	"fmt"
	"strings"
)

// Kind represents a minipas token type.
type Kind int

const (
	EndOfInput Kind = iota
	EndOfLine       // newline or ';'

	Integer // digit run
	Id      // identifier

	Plus   // +
	Minus  // -
	Mul    // *
	Div    // /
	LParen // (
	RParen // )
	Assign // =

	Begin // BEGIN
	End   // END, with an optional trailing '.'

	kindCount
)

var kindNames = [...]string{
	EndOfInput: "EOF",
	EndOfLine:  "EOL",
	Integer:    "INTEGER",
	Id:         "ID",
	Plus:       "+",
	Minus:      "-",
	Mul:        "*",
	Div:        "/",
	LParen:     "(",
	RParen:     ")",
	Assign:     "=",
	Begin:      "BEGIN",
	End:        "END",
}

// String returns the string representation of a token kind.
func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsAdditive reports whether k is a binary operator of the expr level.
func (k Kind) IsAdditive() bool {
	return k == Plus || k == Minus
}

// IsMultiplicative reports whether k is a binary operator of the term level.
func (k Kind) IsMultiplicative() bool {
	return k == Mul || k == Div
}

// Pos is a location in program text.
// The zero value is an invalid position.
type Pos struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Col    int // 1-based, in runes
}

// IsValid reports whether the position was set by the scanner.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is a scanned token. Value holds the literal text for Integer and Id,
// and the source spelling for every other kind.
type Token struct {
	Kind  Kind
	Value string
	Pos   Pos
}

func (t Token) String() string {
	switch t.Kind {
	case Integer, Id:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
	case EndOfLine:
		if t.Value == ";" {
			return "';'"
		}
		return "newline"
	}
	return t.Kind.String()
}

var keywords = map[string]Kind{
	"BEGIN": Begin,
	"END":   End,
}

// Lookup returns the keyword kind for ident, compared case-insensitively,
// or Id if ident is not reserved.
func Lookup(ident string) Kind {
	if k, ok := keywords[strings.ToUpper(ident)]; ok {
		return k
	}
	return Id
}
