// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package ast

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses a tree in depth-first order, left operand before right.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Block:
		for _, s := range n.Stmts {
			Walk(s, v)
		}
		if n.End != nil {
			Walk(n.End, v)
		}

	case *Assignment:
		Walk(n.Value, v)

	case *BinaryOp:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *UnaryOp:
		Walk(n.X, v)

	// Leaf nodes: NumberLiteral, VariableRef, Sentinel
	}
}

// Inspect traverses a tree and calls f for each node.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
