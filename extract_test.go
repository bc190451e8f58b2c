package jsonvet_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonvet"
	"github.com/reoring/jsonvet/dsl"
)

func TestExtractInvalidNode_FollowsDocumentKeys(t *testing.T) {
	doc, err := jsonvet.ParseJSON([]byte(`{"People":[{"Name":"a"},{"Name":7}]}`))
	require.NoError(t, err)

	v := dsl.DiveInto("people",
		dsl.ArrayOf(dsl.DiveInto("name", dsl.IsString(), dsl.IgnoreCase(true))),
		dsl.IgnoreCase(true))
	es := jsonvet.Collect(v, doc)
	require.Len(t, es, 1)
	assert.Equal(t, "People.1.Name", es[0].Path.String())
	assert.Equal(t, json.Number("7"), jsonvet.ExtractInvalidNode(es[0], doc))
}

func TestExtractInvalidNode_StopsAtLastReachable(t *testing.T) {
	arr := []any{"x", map[string]any{"k": true}}
	doc := jsonvet.ObjectOf("a", arr)

	cases := []struct {
		path jsonvet.Path
		want any
	}{
		{nil, doc},
		{jsonvet.Path{"a", "1", "k"}, true},
		{jsonvet.Path{"missing"}, doc},
		{jsonvet.Path{"a", "9"}, arr},
		{jsonvet.Path{"a", "-1"}, arr},
		{jsonvet.Path{"a", "0", "deeper"}, "x"},
	}
	for _, tc := range cases {
		e := jsonvet.ValidationError{Path: tc.path}
		assert.Equal(t, tc.want, jsonvet.ExtractInvalidNode(e, doc), "path %v", tc.path)
	}
}
