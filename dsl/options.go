package dsl

import "fmt"

// Option configures key comparison and count bounds on the validators that
// accept them. Options that do not apply to a validator are ignored.
type Option func(*options)

type options struct {
	ignoreCase bool
	min        *int
	max        *int
}

// IgnoreCase makes key and enum comparison fold case.
func IgnoreCase(on bool) Option { return func(o *options) { o.ignoreCase = on } }

// MinCount sets the minimum element/property count.
func MinCount(n int) Option { return func(o *options) { o.min = &n } }

// MaxCount sets the maximum element/property count.
func MaxCount(n int) Option { return func(o *options) { o.max = &n } }

// Bounds translates optional bounds into Options.
func Bounds(min, max *int) []Option {
	var out []Option
	if min != nil {
		out = append(out, MinCount(*min))
	}
	if max != nil {
		out = append(out, MaxCount(*max))
	}
	return out
}

func collect(opts []Option) options {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o options) checkBounds(who string) {
	if o.min != nil && *o.min < 0 {
		panic(fmt.Sprintf("dsl: %s: negative min count %d", who, *o.min))
	}
	if o.max != nil && *o.max < 0 {
		panic(fmt.Sprintf("dsl: %s: negative max count %d", who, *o.max))
	}
	if o.min != nil && o.max != nil && *o.min > *o.max {
		panic(fmt.Sprintf("dsl: %s: min count %d exceeds max count %d", who, *o.min, *o.max))
	}
}
