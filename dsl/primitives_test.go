package dsl_test

import (
	"encoding/json"
	"testing"

	"github.com/reoring/jsonvet"
	g "github.com/reoring/jsonvet/dsl"
)

func messages(v jsonvet.Validator, n jsonvet.Node) []string {
	return jsonvet.Collect(v, n).Messages()
}

func TestTypeChecks_Messages(t *testing.T) {
	cases := []struct {
		name string
		v    jsonvet.Validator
		in   jsonvet.Node
		want string
	}{
		{"number", g.IsNumber(), "x", "Not a number."},
		{"string", g.IsString(), json.Number("1"), "Not a string."},
		{"boolean", g.IsBoolean(), nil, "Not a boolean."},
		{"null", g.IsNull(), false, "Not 'null'."},
		{"object", g.IsObject(), []any{}, "Not an object."},
		{"array", g.IsArray(), jsonvet.NewObject(), "Not an array."},
		{"multi", g.TypeCheck(jsonvet.KindNumber, jsonvet.KindString), true, "Not a number or string."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := messages(tc.v, tc.in)
			if len(got) != 1 || got[0] != tc.want {
				t.Fatalf("got %q, want [%q]", got, tc.want)
			}
			es := jsonvet.Collect(tc.v, tc.in)
			if es[0].Code != jsonvet.CodeInvalidType || len(es[0].Path) != 0 {
				t.Fatalf("unexpected error: %+v", es[0])
			}
		})
	}
}

func TestTypeChecks_AcceptNumberShapes(t *testing.T) {
	for _, n := range []jsonvet.Node{json.Number("1.5"), 1.5, float32(2), 3, int64(4), uint8(5)} {
		if !jsonvet.Valid(g.IsNumber(), n) {
			t.Fatalf("%T should be a number", n)
		}
	}
	if !jsonvet.Valid(g.IsObject(), map[string]any{}) {
		t.Fatalf("plain map should be an object")
	}
}

func TestAnything(t *testing.T) {
	if got := messages(g.Anything(), []any{1, "x"}); len(got) != 0 {
		t.Fatalf("anything failed: %v", got)
	}
	if g.Anything().Name() != "anything" {
		t.Fatalf("name: %q", g.Anything().Name())
	}
}

func TestOneOf(t *testing.T) {
	v := g.OneOf([]string{"a", "b"})
	if got := messages(v, "c"); len(got) != 1 || got[0] != `Not one of ("a", "b").` {
		t.Fatalf("got %q", got)
	}
	if got := messages(v, "A"); len(got) != 1 {
		t.Fatalf("case-sensitive OneOf accepted %q", "A")
	}
	if got := messages(g.OneOf([]string{"a", "b"}, g.IgnoreCase(true)), "A"); len(got) != 0 {
		t.Fatalf("case-insensitive OneOf rejected: %v", got)
	}
	// numbers and booleans are compared through their string form
	if got := messages(g.OneOf([]string{"1", "true"}), true); len(got) != 0 {
		t.Fatalf("stringified bool rejected: %v", got)
	}
	if got := messages(g.OneOf([]string{"1"}), json.Number("1")); len(got) != 0 {
		t.Fatalf("stringified number rejected: %v", got)
	}
	if got := messages(v, nil); len(got) != 1 {
		t.Fatalf("null must not match any option")
	}
}

func TestRegex_FullMatch(t *testing.T) {
	v := g.MustRegex(`\d+`)
	if got := messages(v, "12a"); len(got) != 1 || got[0] != `Not a match for regex \d+.` {
		t.Fatalf("got %q", got)
	}
	if got := messages(v, "123"); len(got) != 0 {
		t.Fatalf("full match rejected: %v", got)
	}
	if got := messages(v, 42); len(got) != 0 {
		t.Fatalf("numeric node rejected: %v", got)
	}
	if got := messages(g.MustRegex(`a|b`), "ab"); len(got) != 1 {
		t.Fatalf("alternation must be anchored as a whole")
	}
	// non-stringifiable nodes are matched as the empty string
	if got := messages(g.MustRegex(`.*`), jsonvet.NewObject()); len(got) != 0 {
		t.Fatalf("object should match .* as empty string: %v", got)
	}
}

func TestRegex_InvalidPattern(t *testing.T) {
	if _, err := g.Regex(`(`); err == nil {
		t.Fatalf("expected error for invalid pattern")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("MustRegex should panic")
		}
	}()
	g.MustRegex(`(`)
}

func TestCustom(t *testing.T) {
	even := g.Custom("even", func(n jsonvet.Node) bool {
		i, ok := n.(int)
		return ok && i%2 == 0
	})
	if got := messages(even, 3); len(got) != 1 || got[0] != "Not even." {
		t.Fatalf("got %q", got)
	}
	if got := messages(even, 4); len(got) != 0 {
		t.Fatalf("got %q", got)
	}
}

func TestFormats(t *testing.T) {
	if got := messages(g.IsUUID(), "550e8400-e29b-41d4-a716-446655440000"); len(got) != 0 {
		t.Fatalf("valid uuid rejected: %v", got)
	}
	if got := messages(g.IsUUID(), "nope"); len(got) != 1 || got[0] != "Not a UUID." {
		t.Fatalf("got %q", got)
	}
	if got := messages(g.IsRFC3339(), "2024-01-02T03:04:05.123Z"); len(got) != 0 {
		t.Fatalf("valid timestamp rejected: %v", got)
	}
	if got := messages(g.IsRFC3339(), "2024-01-02"); len(got) != 1 || got[0] != "Not an RFC 3339 timestamp." {
		t.Fatalf("got %q", got)
	}
	if got := messages(g.IsRFC3339(), 20240102); len(got) != 1 {
		t.Fatalf("non-string accepted as timestamp")
	}
}
