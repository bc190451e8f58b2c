// Package yaml turns a YAML document into an engine.TokenSource so YAML input
// goes through the same decoding and enforcement as JSON.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/jsonvet/internal/engine"
)

// ErrMultipleDocuments is returned for streams holding more than one document.
var ErrMultipleDocuments = errors.New("yaml: multiple documents")

// NewBytes parses b and returns a token source over its single document. An
// empty input yields a null document.
func NewBytes(b []byte) (eng.TokenSource, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &source{toks: []eng.Token{{Kind: eng.KindNull, Offset: -1}}}, nil
		}
		return nil, err
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, ErrMultipleDocuments
	}
	s := &source{limit: expansionBudget(len(b))}
	if err := s.emit(&doc, 0); err != nil {
		return nil, err
	}
	return s, nil
}

// maxAliasDepth bounds alias nesting.
const maxAliasDepth = 64

// A document may expand through aliases to at most baseTokens plus
// tokensPerByte tokens for every input byte.
const (
	baseTokens    = 4096
	tokensPerByte = 64
)

// ErrExpansionLimit is returned when aliases expand a document beyond the
// token budget derived from its input size.
var ErrExpansionLimit = errors.New("yaml: document expands too far through aliases")

func expansionBudget(n int) int { return baseTokens + tokensPerByte*n }

type source struct {
	toks  []eng.Token
	pos   int
	limit int
}

func (s *source) NextToken() (eng.Token, error) {
	if s.pos >= len(s.toks) {
		return eng.Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func (s *source) Location() int64 { return -1 }

func (s *source) push(t eng.Token) error {
	if len(s.toks) >= s.limit {
		return ErrExpansionLimit
	}
	t.Offset = -1
	s.toks = append(s.toks, t)
	return nil
}

func (s *source) emit(n *yaml.Node, aliases int) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return s.push(eng.Token{Kind: eng.KindNull})
		}
		return s.emit(n.Content[0], aliases)
	case yaml.AliasNode:
		if aliases >= maxAliasDepth {
			return fmt.Errorf("yaml: line %d: alias nesting too deep", n.Line)
		}
		return s.emit(n.Alias, aliases+1)
	case yaml.MappingNode:
		if err := s.push(eng.Token{Kind: eng.KindBeginObject}); err != nil {
			return err
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return fmt.Errorf("yaml: line %d: non-scalar mapping key", k.Line)
			}
			if err := s.push(eng.Token{Kind: eng.KindKey, String: k.Value}); err != nil {
				return err
			}
			if err := s.emit(n.Content[i+1], aliases); err != nil {
				return err
			}
		}
		return s.push(eng.Token{Kind: eng.KindEndObject})
	case yaml.SequenceNode:
		if err := s.push(eng.Token{Kind: eng.KindBeginArray}); err != nil {
			return err
		}
		for _, c := range n.Content {
			if err := s.emit(c, aliases); err != nil {
				return err
			}
		}
		return s.push(eng.Token{Kind: eng.KindEndArray})
	case yaml.ScalarNode:
		return s.push(scalarToken(n))
	default:
		return fmt.Errorf("yaml: line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

func scalarToken(n *yaml.Node) eng.Token {
	switch n.ShortTag() {
	case "!!null":
		return eng.Token{Kind: eng.KindNull}
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return eng.Token{Kind: eng.KindBool, Bool: b}
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatInt(i, 10)}
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatUint(u, 10)}
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(f, 'g', -1, 64)}
		}
	}
	return eng.Token{Kind: eng.KindString, String: n.Value}
}
