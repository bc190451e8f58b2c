package yaml

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eng "github.com/reoring/jsonvet/internal/engine"
)

func kinds(t *testing.T, src eng.TokenSource) []eng.Token {
	t.Helper()
	var out []eng.Token
	for {
		tok, err := src.NextToken()
		if err != nil {
			return out
		}
		out = append(out, tok)
	}
}

func TestNewBytes_Scalars(t *testing.T) {
	src, err := NewBytes([]byte(`[~, true, 12, 0x10, 1.5, .inf, "12", plain, 2024-01-01]`))
	require.NoError(t, err)
	toks := kinds(t, src)
	require.Len(t, toks, 11)

	assert.Equal(t, eng.KindNull, toks[1].Kind)
	assert.Equal(t, eng.Token{Kind: eng.KindBool, Bool: true, Offset: -1}, toks[2])
	assert.Equal(t, "12", toks[3].Number)
	assert.Equal(t, "16", toks[4].Number)
	assert.Equal(t, "1.5", toks[5].Number)
	assert.Equal(t, "+Inf", toks[6].Number)
	assert.Equal(t, eng.Token{Kind: eng.KindString, String: "12", Offset: -1}, toks[7])
	assert.Equal(t, "plain", toks[8].String)
	assert.Equal(t, eng.KindString, toks[9].Kind, "timestamps stay strings")
}

func TestNewBytes_MappingAndAliases(t *testing.T) {
	src, err := NewBytes([]byte("base: &b {x: 1}\ncopy: *b\n"))
	require.NoError(t, err)
	var got []eng.Kind
	for _, tok := range kinds(t, src) {
		got = append(got, tok.Kind)
	}
	assert.Equal(t, []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindBeginObject, eng.KindKey, eng.KindNumber, eng.KindEndObject,
		eng.KindKey, eng.KindBeginObject, eng.KindKey, eng.KindNumber, eng.KindEndObject,
		eng.KindEndObject,
	}, got)
}

func TestNewBytes_Documents(t *testing.T) {
	src, err := NewBytes(nil)
	require.NoError(t, err)
	assert.Equal(t, []eng.Token{{Kind: eng.KindNull, Offset: -1}}, kinds(t, src))

	_, err = NewBytes([]byte("a: 1\n---\nb: 2\n"))
	assert.True(t, errors.Is(err, ErrMultipleDocuments))

	_, err = NewBytes([]byte("? [a]\n: 1\n"))
	assert.ErrorContains(t, err, "non-scalar mapping key")

	_, err = NewBytes([]byte("a: [1\n"))
	assert.Error(t, err)
}

// aliasBomb builds levels anchors, each a sequence of ten aliases to the
// previous one.
func aliasBomb(levels int) []byte {
	var b strings.Builder
	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= levels; i++ {
		refs := strings.TrimSuffix(strings.Repeat(fmt.Sprintf("*l%d, ", i-1), 10), ", ")
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, refs)
	}
	return []byte(b.String())
}

func TestNewBytes_AliasExpansionLimit(t *testing.T) {
	doc := aliasBomb(5)
	require.Less(t, len(doc), 1024)

	_, err := NewBytes(doc)
	assert.True(t, errors.Is(err, ErrExpansionLimit), "got %v", err)

	src, err := NewBytes(aliasBomb(1))
	require.NoError(t, err)
	assert.NotEmpty(t, kinds(t, src))
}

func TestSource_PushStopsAtLimit(t *testing.T) {
	s := &source{limit: 2}
	require.NoError(t, s.push(eng.Token{Kind: eng.KindNull}))
	require.NoError(t, s.push(eng.Token{Kind: eng.KindNull}))
	assert.ErrorIs(t, s.push(eng.Token{Kind: eng.KindNull}), ErrExpansionLimit)
	assert.Len(t, s.toks, 2)
}
