package prerelease

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	logger, _ := captureLogger()

	meta, err := Run(path, Options{
		PrereleaseTag:          "nightly",
		CommitHash:             testSha,
		DependenciesToUpdate:   []string{"a", "lodash.merge"},
		DependenciesVersionTag: "next",
		Date:                   "20220420",
	}, logger)
	require.NoError(t, err)

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	assert.Equal(t, abs, meta.ManifestPath)
	assert.Equal(t, "1.0.0", meta.OldVersion)
	assert.Equal(t, "1.0.0-nightly.20220420.sha-abcde123", meta.NewVersion)
	assert.Equal(t, "example-app", meta.Name)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, meta.NewVersion, m.Version())
	assert.Equal(t, testSha, m.PrereleaseSha())
	v, _ := m.Dependency("lodash.merge")
	assert.Equal(t, "next", v)
	v, _ = m.Dependency("@scope/pkg")
	assert.Equal(t, "~3.1.0", v)
}

func TestRunNormalizesPath(t *testing.T) {
	path := writeManifest(t, `{"version":"2.0.0"}`)
	messy := filepath.Join(filepath.Dir(path), ".", "sub", "..", filepath.Base(path))

	meta, err := Run(messy, Options{PrereleaseTag: "rc", CommitHash: "1234abcd", Date: testDate}, nil)
	require.NoError(t, err)
	assert.Equal(t, path, meta.ManifestPath)
}

func TestDryRunDoesNotWrite(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	logger, _ := captureLogger()

	meta, err := DryRun(path, Options{
		PrereleaseTag: "alpha",
		CommitHash:    testSha,
		PackageName:   "foo-cli",
		Date:          testDate,
	}, logger)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0-alpha.20220101.sha-abcde123", meta.NewVersion)
	assert.Equal(t, "foo-cli", meta.Name)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleManifest, string(data))
}

func TestRunFatalErrorsDoNotWrite(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    Options
		wantErr error
	}{
		{"invalid json", `{"version":`, Options{PrereleaseTag: "alpha", CommitHash: testSha}, ErrParse},
		{"invalid version", `{"version":"latest"}`, Options{PrereleaseTag: "alpha", CommitHash: testSha}, ErrParse},
		{"invalid tag", `{"version":"1.0.0"}`, Options{PrereleaseTag: "not valid", CommitHash: testSha}, ErrInvalidPrerelease},
		{"missing tag", `{"version":"1.0.0"}`, Options{CommitHash: testSha}, ErrMissingOption},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeManifest(t, tc.content)
			_, err := Run(path, tc.opts, nil)
			assert.ErrorIs(t, err, tc.wantErr)

			data, readErr := os.ReadFile(path)
			require.NoError(t, readErr)
			assert.Equal(t, tc.content, string(data))
		})
	}
}

func TestRunMissingManifest(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "package.json"), Options{PrereleaseTag: "alpha", CommitHash: testSha}, nil)
	assert.ErrorIs(t, err, ErrIO)

	_, err = Run("", Options{PrereleaseTag: "alpha", CommitHash: testSha}, nil)
	assert.ErrorIs(t, err, ErrMissingOption)
}
