package prerelease

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// Run is the main function for the prerelease library.
// It loads the manifest at manifestPath, stamps it according to opts and
// writes it back. Any error aborts before the manifest is written.
// It returns metadata about the operation.
func Run(manifestPath string, opts Options, logger *slog.Logger) (UpdateMeta, error) {
	path, m, meta, err := prepare(manifestPath, opts, logger)
	if err != nil {
		return meta, err
	}
	if err := SaveManifest(path, m); err != nil {
		return meta, err
	}
	return meta, nil
}

// DryRun performs the same steps as Run without writing the manifest. The
// returned metadata is what a real run would produce.
func DryRun(manifestPath string, opts Options, logger *slog.Logger) (UpdateMeta, error) {
	_, _, meta, err := prepare(manifestPath, opts, logger)
	return meta, err
}

func prepare(manifestPath string, opts Options, logger *slog.Logger) (string, *Manifest, UpdateMeta, error) {
	var meta UpdateMeta

	// 1. Validate options before touching the filesystem
	if err := opts.Validate(); err != nil {
		return "", nil, meta, err
	}

	// 2. Normalize the manifest path
	path, err := normalizePath(manifestPath)
	if err != nil {
		return "", nil, meta, err
	}

	// 3. Load
	m, err := LoadManifest(path)
	if err != nil {
		return path, nil, meta, err
	}

	// 4. Stamp in memory
	meta, err = ApplyUpdate(m, opts, logger)
	meta.ManifestPath = path
	if err != nil {
		return path, nil, meta, fmt.Errorf("%s: %w", path, err)
	}
	return path, m, meta, nil
}

func normalizePath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%w: package-json-path", ErrMissingOption)
	}
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("%w: resolving %q: %v", ErrIO, p, err)
	}
	return abs, nil
}
