package ast

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"nickandperla.net/minipas/internal/token"
)

func num(lit string, v float32) *NumberLiteral { return &NumberLiteral{Lit: lit, Value: v} }
func ref(name string) *VariableRef             { return &VariableRef{Name: name} }

// sample is BEGIN x = 2 + 3 * 4; y = -x; x = y END.
func sample() *Block {
	return &Block{
		Begin: token.Pos{Line: 1, Col: 1},
		Stmts: []Stmt{
			&Assignment{Name: "x", Value: &BinaryOp{
				Op: Add,
				X:  num("2", 2),
				Y:  &BinaryOp{Op: Mul, X: num("3", 3), Y: num("4", 4)},
			}},
			&Assignment{Name: "y", Value: &UnaryOp{Op: Neg, X: ref("x")}},
			&Assignment{Name: "x", Value: ref("y")},
		},
		End: &Sentinel{EndPos: token.Pos{Line: 1, Col: 40}},
	}
}

func TestString(t *testing.T) {
	got := sample().String()
	want := "BEGIN\n  x = (2 + (3 * 4))\n  y = -x\n  x = y\nEND."
	if got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestNumberLiteralStringWithoutLit(t *testing.T) {
	if got := (&NumberLiteral{Value: 2.5}).String(); got != "2.5" {
		t.Errorf("String() = %q, want 2.5", got)
	}
	if got := (&NumberLiteral{Value: float32(math.Inf(1))}).String(); got != "+Inf" {
		t.Errorf("String() = %q, want +Inf", got)
	}
}

func TestOperatorStrings(t *testing.T) {
	for op, want := range map[BinOp]string{Add: "+", Sub: "-", Mul: "*", Div: "/", BinOp(9): "BinOp(9)"} {
		if got := op.String(); got != want {
			t.Errorf("BinOp %d String = %q, want %q", int(op), got, want)
		}
	}
	for op, want := range map[UnOp]string{Pos: "+", Neg: "-", UnOp(5): "UnOp(5)"} {
		if got := op.String(); got != want {
			t.Errorf("UnOp %d String = %q, want %q", int(op), got, want)
		}
	}
}

func TestWalkOrder(t *testing.T) {
	var visited []string
	Inspect(sample(), func(n Node) bool {
		switch n := n.(type) {
		case *Block:
			visited = append(visited, "Block")
		case *Assignment:
			visited = append(visited, "Assign:"+n.Name)
		case *BinaryOp:
			visited = append(visited, "Bin:"+n.Op.String())
		case *UnaryOp:
			visited = append(visited, "Un:"+n.Op.String())
		case *NumberLiteral:
			visited = append(visited, "Num:"+n.Lit)
		case *VariableRef:
			visited = append(visited, "Ref:"+n.Name)
		case *Sentinel:
			visited = append(visited, "End")
		}
		return true
	})
	want := []string{
		"Block",
		"Assign:x", "Bin:+", "Num:2", "Bin:*", "Num:3", "Num:4",
		"Assign:y", "Un:-", "Ref:x",
		"Assign:x", "Ref:y",
		"End",
	}
	if !reflect.DeepEqual(visited, want) {
		t.Errorf("visit order = %v\nwant %v", visited, want)
	}
}

func TestWalkPrune(t *testing.T) {
	count := 0
	Inspect(sample(), func(n Node) bool {
		count++
		_, isAssign := n.(*Assignment)
		return !isAssign
	})
	// Block + 3 assignments + sentinel
	if count != 5 {
		t.Errorf("visited %d nodes, want 5", count)
	}
}

func TestAssignedNames(t *testing.T) {
	got := AssignedNames(sample())
	want := []string{"x", "y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AssignedNames = %v, want %v", got, want)
	}
	if names := AssignedNames(&Block{}); len(names) != 0 {
		t.Errorf("AssignedNames(empty) = %v", names)
	}
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	Fprint(&buf, sample())
	out := buf.String()
	for _, want := range []string{
		"Block 1:1\n",
		"  Assignment - x\n",
		"    BinaryOp - +\n",
		"      NumberLiteral - 2\n",
		"    UnaryOp - -\n",
		"      VariableRef - x\n",
		"  Sentinel 1:40\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Fprint output missing %q:\n%s", want, out)
		}
	}
}

func TestFprintWithoutSentinel(t *testing.T) {
	var buf bytes.Buffer
	Fprint(&buf, &Block{})
	if buf.String() != "Block -\n" {
		t.Errorf("Fprint = %q", buf.String())
	}
}

func TestFprintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FprintJSON(&buf, sample()); err != nil {
		t.Fatalf("FprintJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if decoded["type"] != "Block" {
		t.Errorf("type = %v, want Block", decoded["type"])
	}
	stmts, ok := decoded["stmts"].([]any)
	if !ok || len(stmts) != 3 {
		t.Fatalf("stmts = %v", decoded["stmts"])
	}
	first := stmts[0].(map[string]any)
	if first["name"] != "x" {
		t.Errorf("first assignment name = %v", first["name"])
	}
	value := first["value"].(map[string]any)
	if value["op"] != "+" || value["type"] != "BinaryOp" {
		t.Errorf("first value = %v", value)
	}
}

func TestFprintJSONInfiniteLiteral(t *testing.T) {
	var buf bytes.Buffer
	lit := &NumberLiteral{Lit: "99999999999999999999999999999999999999999", Value: float32(math.Inf(1))}
	if err := FprintJSON(&buf, lit); err != nil {
		t.Fatalf("FprintJSON: %v", err)
	}
}
