package jsonvet

import (
	"errors"
	"io"
	"strconv"

	eng "github.com/reoring/jsonvet/internal/engine"
	yamlsrc "github.com/reoring/jsonvet/source/yaml"
)

// ParseJSON decodes b with the current JSON driver into a document whose
// objects keep their key order. Decoding failures are returned as Errors.
func ParseJSON(b []byte, opts ...ParseOpt) (Node, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 && int64(len(b)) > opt.MaxBytes {
		return nil, truncated(opt.MaxBytes)
	}
	return Decode(JSONBytes(b), opt)
}

// ParseJSONReader decodes JSON from r. When MaxBytes is set it enforces the
// size cap up front.
func ParseJSONReader(r io.Reader, opts ...ParseOpt) (Node, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
		if err != nil {
			return nil, singleError(CodeParseError, err.Error())
		}
		return ParseJSON(data, opt)
	}
	return Decode(JSONReader(r), opt)
}

// ParseYAML decodes a single YAML document. Mapping order is preserved and
// the same ParseOpt enforcement applies as for JSON.
func ParseYAML(b []byte, opts ...ParseOpt) (Node, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 && int64(len(b)) > opt.MaxBytes {
		return nil, truncated(opt.MaxBytes)
	}
	src, err := yamlsrc.NewBytes(b)
	if err != nil {
		return nil, singleError(CodeParseError, err.Error())
	}
	return Decode(src, opt)
}

// Decode builds a document from any Source, applying opt's enforcement.
func Decode(src Source, opt ParseOpt) (Node, error) {
	var ts eng.TokenSource = src
	if opt.enforced() {
		var sink func(eng.SimpleIssue)
		if opt.Warnings != nil {
			sink = func(si eng.SimpleIssue) { opt.Warnings(fromSimpleIssue(si)) }
		}
		ts = eng.WrapWithEnforcement(src, eng.EnforceOptions{
			OnDuplicate: toEngineDup(opt.OnDuplicateKey),
			MaxDepth:    opt.MaxDepth,
			MaxBytes:    opt.MaxBytes,
			IssueSink:   sink,
		})
	}
	v, err := eng.Decode(ts, func() eng.Object { return NewObject() })
	if err != nil {
		return nil, toErrors(err)
	}
	return v, nil
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}

func fromSimpleIssue(si eng.SimpleIssue) ValidationError {
	return ValidationError{Code: si.Code, Message: si.Message, Path: Path(si.Path), Params: si.Params}
}

func toErrors(err error) Errors {
	if es, ok := AsErrors(err); ok {
		return es
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Errors{fromSimpleIssue(ie.SimpleIssue)}
	}
	return singleError(CodeParseError, err.Error())
}

func truncated(max int64) Errors {
	return Errors{NewError(CodeTruncated, "max bytes exceeded", map[string]any{"maxBytes": max})}
}

func singleError(code, msg string) Errors { return Errors{NewError(code, msg, nil)} }

// ParseIndex parses a stringified array index segment.
func ParseIndex(seg string) (int, bool) {
	i, err := strconv.Atoi(seg)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
