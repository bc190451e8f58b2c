package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonvet/i18n"
)

const typesYAML = `
types:
  - name: Person
    fields:
      - {name: name, type: string}
      - {name: age, type: "?number"}
      - {name: role, type: "enum(Admin, User)"}
      - {name: friends, type: "[]Person"}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { i18n.SetLanguage("en") })
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheck_Text(t *testing.T) {
	dir := t.TempDir()
	types := writeFile(t, dir, "types.yaml", typesYAML)
	good := writeFile(t, dir, "good.json", `{"name":"Ann","role":"admin","friends":[]}`)
	bad := writeFile(t, dir, "bad.yaml", "name: 3\nrole: Guest\nfriends:\n  - {name: Bo, role: User}\n  - {role: User, friends: []}\n")

	out, err := execute(t, "check", "--types", types, "--root", "Person", good, bad)
	assert.ErrorIs(t, err, errInvalid)
	assert.Equal(t, strings.Join([]string{
		good + ": ok",
		bad + ": 4 error(s)",
		"  name: Not a string.",
		`  role: Not one of ("Admin", "User").`,
		"  friends.0: Key 'friends' is missing.",
		"  friends.1: Key 'name' is missing.",
		"",
	}, "\n"), out)
}

func TestCheck_CaseSensitive(t *testing.T) {
	dir := t.TempDir()
	types := writeFile(t, dir, "types.yaml", typesYAML)
	doc := writeFile(t, dir, "doc.json", `{"NAME":"Ann","role":"Admin","friends":[]}`)

	_, err := execute(t, "check", "-t", types, "-r", "Person", doc)
	assert.NoError(t, err)

	out, err := execute(t, "check", "-t", types, "-r", "Person", "--case-sensitive", doc)
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "Key 'name' is missing.")
}

func TestCheck_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	types := writeFile(t, dir, "types.yaml", typesYAML)
	opts := writeFile(t, dir, "options.yaml", "allowExtraFields: false\nfields:\n  - {type: Person, field: friends, optional: true}\n")
	doc := writeFile(t, dir, "doc.json", `{"name":"Ann","role":"User","extra":{"a":1},"friends":[{"name":1,"role":"User"}]}`)

	out, err := execute(t, "check", "-t", types, "-r", "Person", "-o", opts, "--format", "json", doc)
	assert.ErrorIs(t, err, errInvalid)

	var results []fileResult
	require.NoError(t, gojson.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.False(t, results[0].Valid)
	require.Len(t, results[0].Errors, 2)
	assert.Equal(t, "unknown_key", results[0].Errors[0].Code)
	assert.Equal(t, "/", results[0].Errors[0].Pointer)
	assert.Equal(t, "friends.0.name", results[0].Errors[1].Path)
	assert.Equal(t, "/friends/0/name", results[0].Errors[1].Pointer)
	assert.Equal(t, 1.0, results[0].Errors[1].Value)
}

func TestCheck_ParseErrorIsInvalid(t *testing.T) {
	dir := t.TempDir()
	types := writeFile(t, dir, "types.yaml", typesYAML)
	doc := writeFile(t, dir, "broken.json", `{"name":`)

	out, err := execute(t, "check", "-t", types, "-r", "Person", doc)
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, doc+": 1 error(s)")
}

func TestCheck_Japanese(t *testing.T) {
	dir := t.TempDir()
	types := writeFile(t, dir, "types.yaml", typesYAML)
	doc := writeFile(t, dir, "doc.json", `{"role":"User","friends":[]}`)

	out, err := execute(t, "--lang", "ja", "check", "-t", types, "-r", "Person", doc)
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "必須キー 'name' が不足しています")
}

func TestCheck_Errors(t *testing.T) {
	dir := t.TempDir()
	types := writeFile(t, dir, "types.yaml", typesYAML)
	doc := writeFile(t, dir, "doc.json", `{}`)

	_, err := execute(t, "check", "-t", types, "-r", "Ghost", doc)
	assert.ErrorContains(t, err, `type "Ghost" is not declared`)

	_, err = execute(t, "check", "-t", types, "-r", "Person", "--format", "xml", doc)
	assert.ErrorContains(t, err, "unsupported --format")

	_, err = execute(t, "check", "-t", types, "-r", "Person", filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read document")

	_, err = execute(t, "--lang", "fr", "check", "-t", types, "-r", "Person", doc)
	assert.ErrorContains(t, err, "unsupported --lang")

	_, err = execute(t, "check", "-r", "Person", doc)
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	dir := t.TempDir()
	types := writeFile(t, dir, "types.yaml", typesYAML)

	out, err := execute(t, "schema", "-t", types, "-r", "Person")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, gojson.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "#/$defs/Person", doc["$ref"])
	defs, ok := doc["$defs"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, defs, "Person")
}

func TestWatchFiles_RerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "doc.json", `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runs := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, []string{file}, 10*time.Millisecond, newTestLogger(), func() { runs <- struct{}{} })
	}()

	waitRun := func() {
		t.Helper()
		select {
		case <-runs:
		case <-time.After(5 * time.Second):
			t.Fatal("watch callback not called")
		}
	}
	waitRun()

	require.NoError(t, os.WriteFile(file, []byte(`{"a":1}`), 0o644))
	waitRun()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
