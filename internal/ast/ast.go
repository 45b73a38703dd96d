// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package ast defines the minipas syntax tree.
//
// The node set is closed: Node, Expr and Stmt carry unexported marker
// methods, so only the types in this package implement them.
package ast

import (
	"strconv"
	"strings"

	"nickandperla.net/minipas/internal/token"
)

// Node is implemented by every tree node.
type Node interface {
	// Pos returns the position of the first token belonging to the node.
	Pos() token.Pos
	// String returns the node rendered back to program text.
	String() string
	aNode()
}

// Expr is a node that yields a value.
type Expr interface {
	Node
	aExpr()
}

// Stmt is a node that runs for its effect on the variable store.
type Stmt interface {
	Node
	aStmt()
}

// BinOp is a binary arithmetic operator.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
)

var binOpNames = [...]string{Add: "+", Sub: "-", Mul: "*", Div: "/"}

func (op BinOp) String() string {
	if op >= 0 && int(op) < len(binOpNames) {
		return binOpNames[op]
	}
	return "BinOp(" + strconv.Itoa(int(op)) + ")"
}

// UnOp is a unary sign operator.
type UnOp int

const (
	Pos UnOp = iota
	Neg
)

func (op UnOp) String() string {
	switch op {
	case Pos:
		return "+"
	case Neg:
		return "-"
	}
	return "UnOp(" + strconv.Itoa(int(op)) + ")"
}

// Block is the root of a parsed program: BEGIN Stmts END.
type Block struct {
	Begin token.Pos
	Stmts []Stmt
	End   *Sentinel
}

// Assignment is Name = Value.
type Assignment struct {
	NamePos token.Pos
	Name    string
	Value   Expr
}

// BinaryOp is X Op Y.
type BinaryOp struct {
	OpPos token.Pos
	Op    BinOp
	X, Y  Expr
}

// UnaryOp is Op X.
type UnaryOp struct {
	OpPos token.Pos
	Op    UnOp
	X     Expr
}

// NumberLiteral is a numeric constant.
type NumberLiteral struct {
	ValuePos token.Pos
	Lit      string // source text
	Value    float32
}

// VariableRef names a variable read at evaluation time.
type VariableRef struct {
	NamePos token.Pos
	Name    string
}

// Sentinel marks the END of a block. It never produces a value.
type Sentinel struct {
	EndPos token.Pos
}

func (b *Block) Pos() token.Pos         { return b.Begin }
func (a *Assignment) Pos() token.Pos    { return a.NamePos }
func (x *BinaryOp) Pos() token.Pos      { return x.X.Pos() }
func (x *UnaryOp) Pos() token.Pos       { return x.OpPos }
func (x *NumberLiteral) Pos() token.Pos { return x.ValuePos }
func (x *VariableRef) Pos() token.Pos   { return x.NamePos }
func (s *Sentinel) Pos() token.Pos      { return s.EndPos }

func (*Block) aNode()         {}
func (*Assignment) aNode()    {}
func (*BinaryOp) aNode()      {}
func (*UnaryOp) aNode()       {}
func (*NumberLiteral) aNode() {}
func (*VariableRef) aNode()   {}
func (*Sentinel) aNode()      {}

func (*BinaryOp) aExpr()      {}
func (*UnaryOp) aExpr()       {}
func (*NumberLiteral) aExpr() {}
func (*VariableRef) aExpr()   {}

// Sentinel satisfies Expr only so that a malformed tree can be represented
// and rejected by the evaluator.
func (*Sentinel) aExpr() {}

func (*Assignment) aStmt() {}
func (*Sentinel) aStmt()   {}

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("BEGIN\n")
	for _, s := range b.Stmts {
		sb.WriteString("  ")
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	sb.WriteString("END.")
	return sb.String()
}

func (a *Assignment) String() string {
	return a.Name + " = " + a.Value.String()
}

func (x *BinaryOp) String() string {
	return "(" + x.X.String() + " " + x.Op.String() + " " + x.Y.String() + ")"
}

func (x *UnaryOp) String() string {
	return x.Op.String() + x.X.String()
}

func (x *NumberLiteral) String() string {
	if x.Lit != "" {
		return x.Lit
	}
	return strconv.FormatFloat(float64(x.Value), 'f', -1, 32)
}

func (x *VariableRef) String() string { return x.Name }

func (*Sentinel) String() string { return "END" }

// AssignedNames returns the names assigned anywhere under n, in order of
// first assignment, without duplicates.
func AssignedNames(n Node) []string {
	var names []string
	seen := make(map[string]bool)
	Inspect(n, func(n Node) bool {
		if a, ok := n.(*Assignment); ok && !seen[a.Name] {
			seen[a.Name] = true
			names = append(names, a.Name)
		}
		return true
	})
	return names
}
