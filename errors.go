package jsonvet

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType    = "invalid_type"
	CodeRequired       = "required"
	CodeMissingKey     = "missing_key"
	CodeUnknownKey     = "unknown_key"
	CodeTooSmall       = "too_small"
	CodeTooBig         = "too_big"
	CodeInvalidEnum    = "invalid_enum"
	CodePattern        = "pattern"
	CodeCustom         = "custom"
	CodeNoMatch        = "no_match"
	CodeUnresolvedType = "unresolved_type"
	// Decoding failures surfaced by ParseJSON/ParseYAML.
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
)

// ValidationError is a single rule violation. Path lists the segments from the
// document root down to the offending node.
type ValidationError struct {
	Code    string
	Message string
	Path    Path
	// Params carries structured parameters (e.g., {"min":1, "got":0}) for
	// i18n and observability.
	Params map[string]any
}

// NewError creates a root-level ValidationError.
func NewError(code, msg string, params map[string]any) ValidationError {
	return ValidationError{Code: code, Message: msg, Params: params}
}

// Wrap returns a copy of e nested one level deeper under seg. The segment is
// prepended so Path always reads root-to-leaf.
func (e ValidationError) Wrap(seg string) ValidationError {
	p := make(Path, 0, len(e.Path)+1)
	p = append(p, seg)
	p = append(p, e.Path...)
	e.Path = p
	return e
}

// Render formats the error as "<a.b.c>: <message>", or just the message for
// root-level errors.
func (e ValidationError) Render() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return e.Path.String() + ": " + e.Message
}

func (e ValidationError) String() string { return e.Render() }

// Errors is a collection of validation errors that implements error.
type Errors []ValidationError

// Error summarizes the first few errors.
func (es Errors) Error() string {
	if len(es) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(es), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", es[i].Code, es[i].Path.Pointer())
	}
	if len(es) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(es))
	}
	return b.String()
}

// Render lists every error on its own line.
func (es Errors) Render() string {
	b := &strings.Builder{}
	for i, e := range es {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Render())
	}
	return b.String()
}

// Messages returns the plain messages in order.
func (es Errors) Messages() []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Message
	}
	return out
}

// AsErrors extracts Errors from an error using errors.As internally.
func AsErrors(err error) (Errors, bool) {
	if err == nil {
		return nil, false
	}
	var es Errors
	if errors.As(err, &es) {
		return es, true
	}
	return nil, false
}
