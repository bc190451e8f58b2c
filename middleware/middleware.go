// Package middleware validates JSON request bodies before they reach a
// handler. Framework adapters for echo and gin live in nested modules.
package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/jsonvet"
)

// ctxKeyDocument is a typed context key for the decoded request document.
type ctxKeyDocument struct{}

// storedDocument boxes the document so a JSON null body is still found.
type storedDocument struct{ doc jsonvet.Node }

// ContextWithDocument attaches a decoded document to the context.
func ContextWithDocument(ctx context.Context, doc jsonvet.Node) context.Context {
	return context.WithValue(ctx, ctxKeyDocument{}, storedDocument{doc: doc})
}

// DocumentFromContext retrieves the document stored by Validate. The bool
// is true whenever a document was stored, including a null one.
func DocumentFromContext(ctx context.Context) (jsonvet.Node, bool) {
	v, ok := ctx.Value(ctxKeyDocument{}).(storedDocument)
	if !ok {
		return nil, false
	}
	return v.doc, true
}

// DefaultMaxBytes caps request bodies under DefaultParseOpt.
const DefaultMaxBytes = 1 << 20

// DefaultParseOpt returns a recommended default for HTTP JSON boundaries.
// - Duplicate keys are errors
// - Bodies are capped at DefaultMaxBytes
func DefaultParseOpt() jsonvet.ParseOpt {
	return jsonvet.ParseOpt{OnDuplicateKey: jsonvet.Error, MaxBytes: DefaultMaxBytes}
}

// OrDefault returns DefaultParseOpt when opt is the zero value.
func OrDefault(opt jsonvet.ParseOpt) jsonvet.ParseOpt {
	if opt.OnDuplicateKey == jsonvet.Ignore && opt.MaxDepth == 0 && opt.MaxBytes == 0 && opt.Warnings == nil {
		return DefaultParseOpt()
	}
	return opt
}

// ErrorItem is one entry of an error response.
type ErrorItem struct {
	Path    string `json:"path"`
	Pointer string `json:"pointer"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorPayload shapes Errors for JSON responses.
func ErrorPayload(es jsonvet.Errors) map[string]any {
	items := make([]ErrorItem, len(es))
	for i, e := range es {
		items[i] = ErrorItem{Path: e.Path.String(), Pointer: e.Path.Pointer(), Code: e.Code, Message: e.Message}
	}
	return map[string]any{"errors": items}
}

// Check reads r's body, decodes it with opt and validates it with v. The body
// is replaced so later readers see the same bytes. Decoding and validation
// failures are both returned as jsonvet.Errors.
func Check(r *http.Request, v jsonvet.Validator, opt jsonvet.ParseOpt) (jsonvet.Node, error) {
	var body io.Reader = r.Body
	if r.Body == nil {
		body = http.NoBody
	}
	if opt.MaxBytes > 0 {
		body = io.LimitReader(body, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, jsonvet.Errors{jsonvet.NewError(jsonvet.CodeParseError, err.Error(), nil)}
	}
	r.Body = io.NopCloser(bytes.NewReader(data))

	doc, err := jsonvet.ParseJSON(data, opt)
	if err != nil {
		return nil, err
	}
	if err := jsonvet.Check(v, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Option configures Validate.
type Option func(*config)

type config struct {
	opt    jsonvet.ParseOpt
	logger *slog.Logger
}

// WithParseOpt replaces DefaultParseOpt.
func WithParseOpt(opt jsonvet.ParseOpt) Option {
	return func(c *config) { c.opt = opt }
}

// WithLogger logs rejected requests at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Validate returns net/http middleware that rejects bodies v does not accept
// with 400 and an ErrorPayload. Accepted documents are stored in the request
// context for DocumentFromContext.
func Validate(v jsonvet.Validator, opts ...Option) func(http.Handler) http.Handler {
	cfg := config{opt: DefaultParseOpt(), logger: slog.Default()}
	for _, o := range opts {
		o(&cfg)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			doc, err := Check(r, v, cfg.opt)
			if err != nil {
				es, _ := jsonvet.AsErrors(err)
				cfg.logger.Debug("request rejected",
					slog.String("validator", v.Name()),
					slog.String("path", r.URL.Path),
					slog.Int("errors", len(es)))
				WriteErrors(w, http.StatusBadRequest, es)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithDocument(r.Context(), doc)))
		})
	}
}

// WriteErrors writes es as an ErrorPayload with the given status.
func WriteErrors(w http.ResponseWriter, status int, es jsonvet.Errors) {
	b, err := gojson.Marshal(ErrorPayload(es))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
