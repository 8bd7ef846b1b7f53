package prerelease

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const sampleManifest = `{
  "name": "example-app",
  "version": "1.0.0",
  "private": false,
  "scripts": {"test": "jest"},
  "dependencies": {
    "a": "^1.0.0",
    "b": "2.0.0",
    "@scope/pkg": "~3.1.0",
    "lodash.merge": "4.6.2"
  },
  "files": ["src", "bin"]
}`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", m.Version())
	assert.Equal(t, "example-app", m.Name())
	assert.Equal(t, "", m.PrereleaseSha())
	assert.Equal(t, []string{"a", "b", "@scope/pkg", "lodash.merge"}, m.Dependencies())

	v, ok := m.Dependency("@scope/pkg")
	assert.True(t, ok)
	assert.Equal(t, "~3.1.0", v)

	v, ok = m.Dependency("lodash.merge")
	assert.True(t, ok)
	assert.Equal(t, "4.6.2", v)

	_, ok = m.Dependency("lodash")
	assert.False(t, ok)
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name, content string
	}{
		{"invalid json", `{"version": "1.0.0",`},
		{"not an object", `["version"]`},
		{"missing version", `{"name": "x"}`},
		{"numeric version", `{"version": 1}`},
		{"dependencies not an object", `{"version": "1.0.0", "dependencies": ["a"]}`},
		{"dependency constraint not a string", `{"version": "1.0.0", "dependencies": {"a": 1}}`},
		{"empty", ``},
		{"duplicate version", `{"version": "1.0.0", "version": "2.0.0"}`},
		{"duplicate dependency", `{"version": "1.0.0", "dependencies": {"a": "1", "a": "2"}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tc.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestManifestSettersKeepUnknownFields(t *testing.T) {
	m, err := ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)

	require.NoError(t, m.SetVersion("1.0.0-next.20220101.sha-abcdef12"))
	require.NoError(t, m.SetPrereleaseSha("abcdef1234567890"))
	require.NoError(t, m.SetName("renamed"))
	require.NoError(t, m.SetDependency("@scope/pkg", "next"))
	require.NoError(t, m.SetDependency("lodash.merge", "next"))

	out := m.Bytes()
	assert.True(t, gjson.ValidBytes(out))
	assert.Equal(t, "1.0.0-next.20220101.sha-abcdef12", gjson.GetBytes(out, "version").String())
	assert.Equal(t, "abcdef1234567890", gjson.GetBytes(out, "prereleaseSha").String())
	assert.Equal(t, "renamed", gjson.GetBytes(out, "name").String())
	assert.Equal(t, "^1.0.0", gjson.GetBytes(out, "dependencies.a").String())
	assert.Equal(t, "jest", gjson.GetBytes(out, "scripts.test").String())
	assert.Equal(t, `["src","bin"]`, strings.Join(strings.Fields(gjson.GetBytes(out, "files").Raw), ""))
	assert.True(t, gjson.GetBytes(out, "private").Exists())

	reparsed, err := ParseManifest(out)
	require.NoError(t, err)
	for _, name := range []string{"@scope/pkg", "lodash.merge"} {
		v, ok := reparsed.Dependency(name)
		assert.True(t, ok, name)
		assert.Equal(t, "next", v, name)
	}
	// No nested key was created from the dotted name.
	assert.Equal(t, []string{"a", "b", "@scope/pkg", "lodash.merge"}, reparsed.Dependencies())
	assert.False(t, gjson.GetBytes(out, "dependencies.lodash").Exists())

	// Key order is preserved and new keys are appended.
	var order []string
	gjson.ParseBytes(out).ForEach(func(k, _ gjson.Result) bool {
		order = append(order, k.String())
		return true
	})
	assert.Equal(t, []string{"name", "version", "private", "scripts", "dependencies", "files", "prereleaseSha"}, order)
}

func TestManifestBytesIndentation(t *testing.T) {
	m, err := ParseManifest([]byte(`{"name":"x","version":"1.0.0"}`))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"x\",\n  \"version\": \"1.0.0\"\n}\n", string(m.Bytes()))
}

func TestLoadSaveManifest(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.NoError(t, m.SetVersion("2.0.0"))
	require.NoError(t, SaveManifest(path, m))

	reloaded, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", reloaded.Version())
	assert.Equal(t, m.Dependencies(), reloaded.Dependencies())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"version\": \"2.0.0\"")
}

func TestLoadManifestErrors(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrIO)

	path := writeManifest(t, "not json")
	_, err = LoadManifest(path)
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), path)
}

func TestSaveManifestError(t *testing.T) {
	m, err := ParseManifest([]byte(`{"version":"1.0.0"}`))
	require.NoError(t, err)

	err = SaveManifest(filepath.Join(t.TempDir(), "no", "such", "dir", "package.json"), m)
	assert.ErrorIs(t, err, ErrIO)
}
