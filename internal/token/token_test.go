package token

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		ident string
		want  Kind
	}{
		{"BEGIN", Begin},
		{"begin", Begin},
		{"BeGiN", Begin},
		{"END", End},
		{"end", End},
		{"x", Id},
		{"beginning", Id},
		{"_end", Id},
	}
	for _, tt := range tests {
		if got := Lookup(tt.ident); got != tt.want {
			t.Errorf("Lookup(%q) = %s, want %s", tt.ident, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := Assign.String(); got != "=" {
		t.Errorf("Assign.String() = %q", got)
	}
	if got := EndOfInput.String(); got != "EOF" {
		t.Errorf("EndOfInput.String() = %q", got)
	}
	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("Kind(99).String() = %q", got)
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: Integer, Value: "42"}, "INTEGER(42)"},
		{Token{Kind: Id, Value: "x"}, "ID(x)"},
		{Token{Kind: EndOfLine, Value: "\n"}, "newline"},
		{Token{Kind: EndOfLine, Value: ";"}, "';'"},
		{Token{Kind: End, Value: "END."}, "END"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.tok, got, tt.want)
		}
	}
}

func TestPos(t *testing.T) {
	var zero Pos
	if zero.IsValid() {
		t.Error("zero Pos should be invalid")
	}
	if zero.String() != "-" {
		t.Errorf("zero Pos String = %q", zero.String())
	}
	p := Pos{Offset: 7, Line: 2, Col: 3}
	if p.String() != "2:3" {
		t.Errorf("Pos String = %q, want 2:3", p.String())
	}
}

func TestOperatorClasses(t *testing.T) {
	if !Plus.IsAdditive() || !Minus.IsAdditive() || Mul.IsAdditive() {
		t.Error("IsAdditive mismatch")
	}
	if !Mul.IsMultiplicative() || !Div.IsMultiplicative() || Plus.IsMultiplicative() {
		t.Error("IsMultiplicative mismatch")
	}
}
