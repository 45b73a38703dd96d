// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented textual dump of the tree to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *Block:
		p.printf("Block %s\n", n.Begin)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		if n.End != nil {
			p.print(n.End)
		}
		p.indent--

	case *Assignment:
		p.printf("Assignment %s %s\n", n.NamePos, n.Name)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *BinaryOp:
		p.printf("BinaryOp %s %s\n", n.OpPos, n.Op)
		p.indent++
		p.print(n.X)
		p.print(n.Y)
		p.indent--

	case *UnaryOp:
		p.printf("UnaryOp %s %s\n", n.OpPos, n.Op)
		p.indent++
		p.print(n.X)
		p.indent--

	case *NumberLiteral:
		p.printf("NumberLiteral %s %s\n", n.ValuePos, n)

	case *VariableRef:
		p.printf("VariableRef %s %s\n", n.NamePos, n.Name)

	case *Sentinel:
		p.printf("Sentinel %s\n", n.EndPos)
	}
}
