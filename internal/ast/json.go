// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package ast

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the tree to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func toJSON(node Node) any {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Block:
		stmts := make([]any, 0, len(n.Stmts))
		for _, s := range n.Stmts {
			stmts = append(stmts, toJSON(s))
		}
		m := map[string]any{
			"type":  "Block",
			"pos":   n.Begin.String(),
			"stmts": stmts,
		}
		if n.End != nil {
			m["end"] = toJSON(n.End)
		}
		return m

	case *Assignment:
		return map[string]any{
			"type":  "Assignment",
			"pos":   n.NamePos.String(),
			"name":  n.Name,
			"value": toJSON(n.Value),
		}

	case *BinaryOp:
		return map[string]any{
			"type": "BinaryOp",
			"pos":  n.OpPos.String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}

	case *UnaryOp:
		return map[string]any{
			"type": "UnaryOp",
			"pos":  n.OpPos.String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
		}

	case *NumberLiteral:
		// Lit rather than Value: encoding/json rejects Inf.
		return map[string]any{
			"type":  "NumberLiteral",
			"pos":   n.ValuePos.String(),
			"value": n.String(),
		}

	case *VariableRef:
		return map[string]any{
			"type": "VariableRef",
			"pos":  n.NamePos.String(),
			"name": n.Name,
		}

	case *Sentinel:
		return map[string]any{
			"type": "Sentinel",
			"pos":  n.EndPos.String(),
		}
	}
	return nil
}
