package jsonvet_test

import (
	"io"
	"sync/atomic"
	"testing"

	"github.com/reoring/jsonvet"
)

type countingDriver struct {
	inner jsonvet.JSONDriver
	calls atomic.Int32
}

func (d *countingDriver) NewReader(r io.Reader) jsonvet.Source {
	d.calls.Add(1)
	return d.inner.NewReader(r)
}

func (d *countingDriver) NewBytes(b []byte) jsonvet.Source {
	d.calls.Add(1)
	return d.inner.NewBytes(b)
}

func (d *countingDriver) Name() string { return "counting" }

func TestSetJSONDriver(t *testing.T) {
	orig := jsonvet.CurrentJSONDriver()
	t.Cleanup(func() { jsonvet.SetJSONDriver(orig) })

	d := &countingDriver{inner: orig}
	jsonvet.SetJSONDriver(d)
	jsonvet.SetJSONDriver(nil) // ignored
	if got := jsonvet.CurrentJSONDriver().Name(); got != "counting" {
		t.Fatalf("driver = %s", got)
	}
	if _, err := jsonvet.ParseJSON([]byte(`{"a":[1]}`)); err != nil {
		t.Fatalf("err: %v", err)
	}
	if d.calls.Load() != 1 {
		t.Fatalf("driver not used")
	}

	jsonvet.UseDefaultJSONDriver()
	if got := jsonvet.CurrentJSONDriver().Name(); got != "encoding/json" {
		t.Fatalf("default driver = %s", got)
	}
}
