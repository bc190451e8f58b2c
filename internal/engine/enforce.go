package engine

import "strconv"

// Enforcement wrapper for TokenSource to apply duplicate key handling,
// max depth checks, and max bytes truncation in a streaming fashion.

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// Issue codes produced by enforcement.
const (
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
)

// SimpleIssue is a minimal issue representation. Path lists segments from the
// document root.
type SimpleIssue struct {
	Code    string
	Path    []string
	Message string
	Params  map[string]any
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives non-fatal issues (duplicate keys under DupWarn).
	IssueSink func(SimpleIssue)
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	seg          string // segment under which this container sits
	nextIndex    int
	pendingKey   string
}

// WrapWithEnforcement returns a TokenSource that enforces duplicate key policy,
// maximum nesting depth, and maximum consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		seg, hasSeg := e.childSegment()
		f := frame{kind: kindArray}
		if tok.Kind == KindBeginObject {
			f = frame{kind: kindObject, keys: map[string]struct{}{}, expectingKey: true}
		}
		if hasSeg {
			f.seg = seg
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, IssueError{SimpleIssue{
				Code:    CodeParseError,
				Path:    e.path(),
				Message: "max depth exceeded",
				Params:  map[string]any{"maxDepth": e.opt.MaxDepth},
			}}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.valueDone()
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				if e.opt.OnDuplicate != DupIgnore {
					if _, ok := top.keys[tok.String]; ok {
						si := SimpleIssue{
							Code:    CodeDuplicateKey,
							Path:    append(e.path(), tok.String),
							Message: "key '" + tok.String + "' duplicated",
							Params:  map[string]any{"key": tok.String},
						}
						if e.opt.OnDuplicate == DupError {
							return Token{}, IssueError{si}
						}
						if e.opt.IssueSink != nil {
							e.opt.IssueSink(si)
						}
					}
				}
				top.keys[tok.String] = struct{}{}
				top.expectingKey = false
				top.pendingKey = tok.String
			}
		}
	case KindString, KindNumber, KindBool, KindNull:
		e.childSegment()
		e.valueDone()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			return Token{}, IssueError{SimpleIssue{
				Code:    CodeTruncated,
				Path:    e.path(),
				Message: "max bytes exceeded",
				Params:  map[string]any{"maxBytes": e.opt.MaxBytes},
			}}
		}
	}

	return tok, nil
}

// childSegment names the slot the next value occupies in the current
// container, advancing the array index.
func (e *enforcingTokenSource) childSegment() (string, bool) {
	n := len(e.stack)
	if n == 0 {
		return "", false
	}
	top := &e.stack[n-1]
	if top.kind == kindArray {
		seg := strconv.Itoa(top.nextIndex)
		top.nextIndex++
		return seg, true
	}
	return top.pendingKey, true
}

// valueDone marks a completed value inside an object so the next token is a key.
func (e *enforcingTokenSource) valueDone() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
			top.pendingKey = ""
		}
	}
}

func (e *enforcingTokenSource) path() []string {
	if len(e.stack) <= 1 {
		return []string{}
	}
	out := make([]string, 0, len(e.stack)-1)
	for _, f := range e.stack[1:] {
		out = append(out, f.seg)
	}
	return out
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }
