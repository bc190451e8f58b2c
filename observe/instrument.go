package observe

import (
	"context"
	"iter"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/reoring/jsonvet"
)

// Span and attribute names written by Instrument.
const (
	SpanName      = "jsonvet.validate"
	AttrValidator = "jsonvet.validator"
	AttrErrors    = "jsonvet.errors"
)

const instrumentationName = "github.com/reoring/jsonvet/observe"

// Option configures Instrument.
type Option func(*instrumented)

// WithMetrics records every run into m.
func WithMetrics(m *Metrics) Option {
	return func(i *instrumented) { i.metrics = m }
}

// WithTracerProvider takes spans from tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(i *instrumented) { i.tracer = tp.Tracer(instrumentationName) }
}

// WithContext parents spans on the span found in ctx.
func WithContext(ctx context.Context) Option {
	return func(i *instrumented) { i.ctx = ctx }
}

type instrumented struct {
	inner   jsonvet.Validator
	metrics *Metrics
	tracer  trace.Tracer
	ctx     context.Context
}

// Instrument wraps v so each run of its error sequence is timed, counted and
// traced. The wrapper keeps v's name and yields exactly v's errors. A run that
// the consumer stops early is recorded with the errors seen so far.
func Instrument(v jsonvet.Validator, opts ...Option) jsonvet.Validator {
	i := &instrumented{inner: v, ctx: context.Background()}
	for _, o := range opts {
		o(i)
	}
	if i.tracer == nil {
		i.tracer = otel.GetTracerProvider().Tracer(instrumentationName)
	}
	return i
}

func (i *instrumented) Name() string { return i.inner.Name() }

func (i *instrumented) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	return func(yield func(jsonvet.ValidationError) bool) {
		name := i.inner.Name()
		_, span := i.tracer.Start(i.ctx, SpanName, trace.WithAttributes(attribute.String(AttrValidator, name)))
		start := time.Now()
		total := 0
		byCode := map[string]int{}
		defer func() {
			i.metrics.record(name, byCode, time.Since(start).Seconds())
			span.SetAttributes(attribute.Int(AttrErrors, total))
			if total > 0 {
				span.SetStatus(codes.Error, "document invalid")
			}
			span.End()
		}()

		for e := range i.inner.Validate(n) {
			total++
			byCode[e.Code]++
			if !yield(e) {
				return
			}
		}
	}
}
