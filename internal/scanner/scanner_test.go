package scanner

import (
	"errors"
	"strings"
	"testing"

	"nickandperla.net/minipas/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func equalKinds(a, b []token.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []token.Kind
		lits  []string
	}{
		{"empty", "", []token.Kind{token.EndOfInput}, []string{""}},
		{"integer", "123", []token.Kind{token.Integer, token.EndOfInput}, []string{"123", ""}},
		{"ident", "foo", []token.Kind{token.Id, token.EndOfInput}, []string{"foo", ""}},
		{"ident_alnum", "x1_y", []token.Kind{token.Id, token.EndOfInput}, []string{"x1_y", ""}},
		{"begin_upper", "BEGIN", []token.Kind{token.Begin, token.EndOfInput}, []string{"BEGIN", ""}},
		{"begin_lower", "begin", []token.Kind{token.Begin, token.EndOfInput}, []string{"begin", ""}},
		{"end_dot", "END.", []token.Kind{token.End, token.EndOfInput}, []string{"END.", ""}},
		{"end_no_dot", "End", []token.Kind{token.End, token.EndOfInput}, []string{"End", ""}},
		{
			"operators", "+-*/()=",
			[]token.Kind{token.Plus, token.Minus, token.Mul, token.Div, token.LParen, token.RParen, token.Assign, token.EndOfInput},
			[]string{"+", "-", "*", "/", "(", ")", "=", ""},
		},
		{
			"newline_and_semicolon", "a\nb;c",
			[]token.Kind{token.Id, token.EndOfLine, token.Id, token.EndOfLine, token.Id, token.EndOfInput},
			[]string{"a", "\n", "b", ";", "c", ""},
		},
		{
			"whitespace", " \t x \r\n",
			[]token.Kind{token.Id, token.EndOfLine, token.EndOfInput},
			[]string{"x", "\n", ""},
		},
		{
			"assignment", "x = 2 + 3",
			[]token.Kind{token.Id, token.Assign, token.Integer, token.Plus, token.Integer, token.EndOfInput},
			[]string{"x", "=", "2", "+", "3", ""},
		},
		{
			"digits_then_letters", "2x",
			[]token.Kind{token.Integer, token.Id, token.EndOfInput},
			[]string{"2", "x", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.src)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.src, err)
			}
			if got := kinds(toks); !equalKinds(got, tt.kinds) {
				t.Fatalf("kinds = %v, want %v", got, tt.kinds)
			}
			for i, tok := range toks {
				if tok.Value != tt.lits[i] {
					t.Errorf("token %d literal = %q, want %q", i, tok.Value, tt.lits[i])
				}
			}
		})
	}
}

func TestScanPositions(t *testing.T) {
	toks, err := Tokenize("BEGIN\n  x = 10\nEND.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Pos{
		{Offset: 0, Line: 1, Col: 1},  // BEGIN
		{Offset: 5, Line: 1, Col: 6},  // \n
		{Offset: 8, Line: 2, Col: 3},  // x
		{Offset: 10, Line: 2, Col: 5}, // =
		{Offset: 12, Line: 2, Col: 7}, // 10
		{Offset: 14, Line: 2, Col: 9}, // \n
		{Offset: 15, Line: 3, Col: 1}, // END.
		{Offset: 19, Line: 3, Col: 5}, // EOF
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tok := range toks {
		if tok.Pos != want[i] {
			t.Errorf("token %d (%s) pos = %+v, want %+v", i, tok, tok.Pos, want[i])
		}
	}
}

func TestEndOfInputIsSticky(t *testing.T) {
	s := NewFromString("x")
	if tok, _ := s.Next(); tok.Kind != token.Id {
		t.Fatalf("first token = %s, want ID", tok)
	}
	for i := 0; i < 3; i++ {
		tok, err := s.Next()
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if tok.Kind != token.EndOfInput {
			t.Fatalf("call %d: got %s, want EOF", i, tok)
		}
	}
}

func TestLexError(t *testing.T) {
	tests := []struct {
		name string
		src  string
		char rune
		pos  token.Pos
	}{
		{"hash", "x = #", '#', token.Pos{Offset: 4, Line: 1, Col: 5}},
		{"stray_dot", "x = 1.5", '.', token.Pos{Offset: 5, Line: 1, Col: 6}},
		{"dot_after_space", "END .", '.', token.Pos{Offset: 4, Line: 1, Col: 5}},
		{"second_line", "a\n  !", '!', token.Pos{Offset: 4, Line: 2, Col: 3}},
		{"non_ascii", "é", 'é', token.Pos{Offset: 0, Line: 1, Col: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.src)
			if err == nil {
				t.Fatalf("Tokenize(%q) succeeded, want LexError", tt.src)
			}
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("error %T is not *LexError", err)
			}
			if !errors.Is(err, ErrLex) {
				t.Error("errors.Is(err, ErrLex) = false")
			}
			if lexErr.Char != tt.char {
				t.Errorf("Char = %q, want %q", lexErr.Char, tt.char)
			}
			if lexErr.Pos != tt.pos {
				t.Errorf("Pos = %+v, want %+v", lexErr.Pos, tt.pos)
			}
		})
	}
}

func TestLexErrorIsSticky(t *testing.T) {
	s := NewFromString("@ x")
	_, first := s.Next()
	if first == nil {
		t.Fatal("expected error")
	}
	_, second := s.Next()
	if second != first {
		t.Errorf("second error = %v, want the first error again", second)
	}
}

func TestLexErrorMessage(t *testing.T) {
	_, err := Tokenize("x = $")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "lex error at 1:5") {
		t.Errorf("message %q lacks position", err.Error())
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestReadErrorPropagates(t *testing.T) {
	s := New(failingReader{})
	_, err := s.Next()
	if err == nil || err.Error() != "disk on fire" {
		t.Fatalf("err = %v, want read error", err)
	}
}
