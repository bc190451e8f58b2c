package infer_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonvet"
	"github.com/reoring/jsonvet/infer"
	"github.com/reoring/jsonvet/model"
	"github.com/reoring/jsonvet/model/decl"
	"github.com/reoring/jsonvet/spec"
)

func typeNames(s spec.Schema) []string {
	out := make([]string, len(s.AllTypes))
	for i, t := range s.AllTypes {
		out[i] = t.Name
	}
	return out
}

func TestBuildSchema_SelfReference(t *testing.T) {
	node := model.NewStruct("Node")
	node.Field("value", model.Number()).Field("next", model.Nullable(model.Ref(node)))

	s, err := infer.BuildSchema(node, infer.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Node"}, typeNames(s))
	assert.Equal(t, "Node", s.Root.Name)

	next, ok := s.Root.Field("next")
	require.True(t, ok)
	assert.Equal(t, spec.TypeRef{Name: "Node"}, next.Spec)
	assert.False(t, next.Required)
	value, _ := s.Root.Field("value")
	assert.True(t, value.Required)
}

func TestBuildSchema_MutualReference(t *testing.T) {
	a := model.NewStruct("A")
	b := model.NewStruct("B")
	a.Field("b", model.Nullable(model.Ref(b)))
	b.Field("a", model.Nullable(model.Ref(a)))

	s, err := infer.BuildSchema(a, infer.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, typeNames(s), "nested types first, root last")
	assert.Equal(t, spec.TypeRef{Name: "B"}, s.Root.Fields[0].Spec)
	bt, _ := s.Lookup("B")
	assert.Equal(t, spec.TypeRef{Name: "A"}, bt.Fields[0].Spec)
}

func TestBuildSchema_SharedTypeEmittedOnce(t *testing.T) {
	addr := model.NewStruct("Address").Field("street", model.String())
	home := model.NewStruct("Home").Field("address", model.Ref(addr))
	person := model.NewStruct("Person").
		Field("home", model.Ref(home)).
		Field("work", model.Ref(addr)).
		Field("past", model.ArrayOf(model.Ref(addr)))

	s, err := infer.BuildSchema(person, infer.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Address", "Home", "Person"}, typeNames(s))
}

func TestBuildSchema_FieldShapes(t *testing.T) {
	person := model.NewStruct("Person").
		Field("role", model.Enum("Admin", "User")).
		Field("tags", model.ArrayOf(model.String())).
		Field("grid", model.ArrayOf(model.ArrayOf(model.Number()))).
		Field("labels", model.MapOf(model.Boolean())).
		Field("nick", model.Nullable(model.String()))

	opts := infer.DefaultOptions().
		MinCount(person, "tags", 1).
		MaxCount(person, "tags", 3).
		MinCount(person, "grid", 2).
		MaxCount(person, "labels", 4)
	s, err := infer.BuildSchema(person, opts)
	require.NoError(t, err)

	f := func(name string) spec.FieldSpec {
		fs, ok := s.Root.Field(name)
		require.True(t, ok, name)
		return fs
	}
	assert.Equal(t, spec.OneOf{Options: []string{"Admin", "User"}, IgnoreCase: true}, f("role").Spec)
	assert.Equal(t, spec.ArrayOf{Elem: spec.String{}, Min: spec.Ptr(1), Max: spec.Ptr(3)}, f("tags").Spec)
	// element arrays get no overrides
	assert.Equal(t, spec.ArrayOf{Elem: spec.ArrayOf{Elem: spec.Number{}}, Min: spec.Ptr(2)}, f("grid").Spec)
	assert.Equal(t, spec.DictionaryOf{Elem: spec.Boolean{}, Max: spec.Ptr(4)}, f("labels").Spec)
	assert.Equal(t, spec.String{}, f("nick").Spec, "nullable unwraps to the inner shape")
	assert.True(t, s.Root.AllowExtraFields)
}

func TestBuildSchema_RequiredPrecedence(t *testing.T) {
	p := model.NewStruct("P").
		Field("plain", model.String()).
		Field("nullable", model.Nullable(model.String())).
		Field("forcedOptional", model.String()).
		Field("forcedRequired", model.Nullable(model.String())).
		Field("both", model.String())

	opts := infer.DefaultOptions().
		Optional(p, "forcedOptional").
		Required(p, "forcedRequired").
		Optional(p, "both").
		Required(p, "both")
	s, err := infer.BuildSchema(p, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"plain", "forcedRequired", "both"}, s.Root.RequiredFields())
}

func TestOptions_Immutable(t *testing.T) {
	p := model.NewStruct("P").Field("x", model.Nullable(model.String()))
	base := infer.DefaultOptions()
	_ = base.Required(p, "x")

	s, err := infer.BuildSchema(p, base)
	require.NoError(t, err)
	assert.Empty(t, s.Root.RequiredFields(), "base options must not see the derived override")

	strict := base.WithEnumIgnoreCase(false).WithAllowExtraFields(false)
	s, err = infer.BuildSchema(p, strict)
	require.NoError(t, err)
	assert.False(t, s.Root.AllowExtraFields)
}

func TestOptions_UnknownFieldFailsBuild(t *testing.T) {
	p := model.NewStruct("P").Field("x", model.String())
	opts := infer.DefaultOptions().Required(p, "y").MaxCount(p, "z", 1)
	require.Error(t, opts.Err())

	_, err := infer.BuildSchema(p, opts)
	assert.True(t, errors.Is(err, infer.ErrUnknownField), "%v", err)
	assert.ErrorContains(t, err, "P.y")
	assert.ErrorContains(t, err, "P.z")
}

func TestBuildSchema_DuplicateCanonicalName(t *testing.T) {
	a1 := model.NewStruct("Same").Field("x", model.String())
	a2 := model.NewStruct("Same").Field("y", model.String())
	root := model.NewStruct("Root").Field("a", model.Ref(a1)).Field("b", model.Ref(a2))

	_, err := infer.BuildSchema(root, infer.DefaultOptions())
	assert.True(t, errors.Is(err, infer.ErrDuplicateType), "%v", err)
}

func TestBuildSchema_InvalidDescriptor(t *testing.T) {
	bad := model.NewStruct("Bad").Field("x", model.Enum())
	_, err := infer.BuildSchema(bad, infer.DefaultOptions())
	assert.Error(t, err)
}

func TestBuildSchema_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	node := model.NewStruct("Node")
	node.Field("next", model.Nullable(model.Ref(node)))

	_, err := infer.BuildSchema(node, infer.DefaultOptions().WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "expanding type")
	assert.Contains(t, buf.String(), "type referenced")
	assert.Contains(t, buf.String(), "schema inferred")
}

const declYAML = `
types:
  - name: Team
    fields:
      - {name: name, type: string}
      - {name: members, type: "[]Member"}
  - name: Member
    fields:
      - {name: name, type: string}
      - {name: role, type: "enum(Lead, Dev)"}
      - {name: team, type: "?Team"}
      - {name: mentor, type: "?Member"}
`

func TestLoadOptionsYAML(t *testing.T) {
	reg, err := decl.Parse([]byte(declYAML))
	require.NoError(t, err)
	team, _ := reg.Lookup("Team")

	opts, err := infer.LoadOptionsYAML([]byte(`
enumIgnoreCase: false
allowExtraFields: false
fields:
  - {type: Team, field: members, min: 1}
  - {type: Member, field: team, required: true}
  - {type: Member, field: name, optional: true}
`))
	require.NoError(t, err)
	s, err := infer.BuildSchema(team, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"Member", "Team"}, typeNames(s))

	members, _ := s.Root.Field("members")
	assert.Equal(t, spec.ArrayOf{Elem: spec.TypeRef{Name: "Member"}, Min: spec.Ptr(1)}, members.Spec)
	member, _ := s.Lookup("Member")
	assert.Equal(t, []string{"role", "team"}, member.RequiredFields())
	role, _ := member.Field("role")
	assert.Equal(t, spec.OneOf{Options: []string{"Lead", "Dev"}}, role.Spec)
	assert.False(t, member.AllowExtraFields)
}

func TestLoadOptionsYAML_UnresolvedNames(t *testing.T) {
	reg, err := decl.Parse([]byte(declYAML))
	require.NoError(t, err)
	team, _ := reg.Lookup("Team")

	opts, err := infer.LoadOptionsYAML([]byte(`fields: [{type: Ghost, field: x, required: true}, {type: Team, field: nope, optional: true}]`))
	require.NoError(t, err)
	_, err = infer.BuildSchema(team, opts)
	assert.True(t, errors.Is(err, infer.ErrUnknownField), "%v", err)
	assert.ErrorContains(t, err, "Ghost")
	assert.ErrorContains(t, err, "Team.nope")

	_, err = infer.LoadOptionsYAML([]byte(`fields: [{type: Team}]`))
	assert.Error(t, err)
	_, err = infer.LoadOptionsYAML([]byte(`fields: [{type: Team, field: members, min: -1}]`))
	assert.Error(t, err)
}

type Employee struct {
	Name    string      `json:"name"`
	Age     int         `json:"age"`
	Manager *Employee   `json:"manager"`
	Reports []*Employee `json:"reports,omitempty"`
}

func TestEndToEnd_ReflectInferCompile(t *testing.T) {
	et, err := model.Of[Employee]()
	require.NoError(t, err)
	s, err := infer.BuildSchema(et, infer.DefaultOptions().WithAllowExtraFields(false).MaxCount(et, "reports", 1))
	require.NoError(t, err)
	require.Len(t, s.AllTypes, 1)

	v, err := spec.Compile(s, false)
	require.NoError(t, err)

	doc, err := jsonvet.ParseJSON([]byte(`{
		"NAME": "Ann",
		"age": 40,
		"manager": {"name": "Bob", "age": "old", "x": 1},
		"reports": [{"name": "C", "age": 1}, {"age": 2}]
	}`))
	require.NoError(t, err)

	var got []string
	for e := range v.Validate(doc) {
		got = append(got, e.Render())
	}
	assert.Equal(t, []string{
		"manager: Key 'x' is not valid.",
		"manager.age: Not a number.",
		"reports: Array count is 2, but should be at most 1.",
		"reports.1: Key 'name' is missing.",
	}, got)
}
