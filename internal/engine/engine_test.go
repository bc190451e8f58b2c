package engine

import (
	"encoding/json"
	"errors"
	"io"
	"testing"
)

type sliceSource struct {
	toks []Token
	pos  int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.pos >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func (s *sliceSource) Location() int64 { return int64(s.pos) }

type pairs struct{ kv []any }

func (p *pairs) Set(k string, v any) { p.kv = append(p.kv, k, v) }

func newPairs() Object { return &pairs{} }

func tk(k Kind) Token { return Token{Kind: k} }

func key(s string) Token { return Token{Kind: KindKey, String: s} }

func TestDecode_BuildsTree(t *testing.T) {
	src := &sliceSource{toks: []Token{
		tk(KindBeginObject),
		key("b"), {Kind: KindNumber, Number: "1.5"},
		key("a"), tk(KindBeginArray), {Kind: KindString, String: "x"}, {Kind: KindBool, Bool: true}, tk(KindNull), tk(KindEndArray),
		tk(KindEndObject),
	}}
	v, err := Decode(src, newPairs)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	p, ok := v.(*pairs)
	if !ok || len(p.kv) != 4 {
		t.Fatalf("unexpected result: %#v", v)
	}
	if p.kv[0] != "b" || p.kv[1] != json.Number("1.5") || p.kv[2] != "a" {
		t.Fatalf("unexpected order or values: %#v", p.kv)
	}
	arr := p.kv[3].([]any)
	if len(arr) != 3 || arr[0] != "x" || arr[1] != true || arr[2] != nil {
		t.Fatalf("unexpected array: %#v", arr)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		toks []Token
		want error
	}{
		{"empty", nil, io.ErrUnexpectedEOF},
		{"unterminated", []Token{tk(KindBeginArray)}, io.ErrUnexpectedEOF},
		{"trailing", []Token{tk(KindNull), tk(KindNull)}, ErrUnexpectedToken},
		{"value as key", []Token{tk(KindBeginObject), tk(KindNull)}, ErrUnexpectedToken},
		{"stray end", []Token{tk(KindEndArray)}, ErrUnexpectedToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(&sliceSource{toks: tt.toks}, newPairs)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEnforcement(t *testing.T) {
	doc := []Token{
		tk(KindBeginObject),
		key("list"), tk(KindBeginArray),
		tk(KindBeginObject), key("k"), tk(KindNull), key("k"), tk(KindNull), tk(KindEndObject),
		tk(KindEndArray),
		tk(KindEndObject),
	}

	var sunk []SimpleIssue
	src := WrapWithEnforcement(&sliceSource{toks: doc}, EnforceOptions{
		OnDuplicate: DupWarn,
		IssueSink:   func(si SimpleIssue) { sunk = append(sunk, si) },
	})
	if _, err := Decode(src, newPairs); err != nil {
		t.Fatalf("warn must not fail: %v", err)
	}
	if len(sunk) != 1 || sunk[0].Code != CodeDuplicateKey {
		t.Fatalf("sunk = %#v", sunk)
	}
	if got := sunk[0].Path; len(got) != 3 || got[0] != "list" || got[1] != "0" || got[2] != "k" {
		t.Fatalf("path = %v", got)
	}

	_, err := Decode(WrapWithEnforcement(&sliceSource{toks: doc}, EnforceOptions{OnDuplicate: DupError}), newPairs)
	var ie IssueError
	if !errors.As(err, &ie) || ie.Code != CodeDuplicateKey {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	_, err = Decode(WrapWithEnforcement(&sliceSource{toks: doc}, EnforceOptions{MaxDepth: 2}), newPairs)
	if !errors.As(err, &ie) || ie.Code != CodeParseError || len(ie.Path) != 2 || ie.Path[1] != "0" {
		t.Fatalf("expected depth error at list/0, got %v (%v)", err, ie.Path)
	}

	// sliceSource reports the token count as its location
	_, err = Decode(WrapWithEnforcement(&sliceSource{toks: doc}, EnforceOptions{MaxBytes: 4}), newPairs)
	if !errors.As(err, &ie) || ie.Code != CodeTruncated {
		t.Fatalf("expected truncated, got %v", err)
	}
}
