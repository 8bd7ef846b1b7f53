package prerelease

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Options controls how a manifest is stamped. It is built once by the caller
// and passed by value.
type Options struct {
	PrereleaseTag          string   // Tag segment, e.g. "nightly" or "alpha".
	CommitHash             string   // Full commit identifier; truncated only inside the version.
	DependenciesToUpdate   []string // Dependency names whose constraint is replaced.
	DependenciesVersionTag string   // Replacement constraint, e.g. "next".
	SkipDependenciesUpdate bool     // Leave dependencies untouched regardless of DependenciesToUpdate.
	PackageName            string   // Overwrites the manifest name when non-blank.
	Date                   string   // Date identifier override; empty means today's UTC YYYYMMDD.
}

// UpdateMeta holds metadata about a stamping operation.
type UpdateMeta struct {
	ManifestPath        string   // Absolute manifest path (empty for in-memory updates).
	OldVersion          string   // Manifest version before stamping.
	NewVersion          string   // Generated prerelease version.
	PrereleaseSha       string   // Full commit identifier written to the manifest.
	Name                string   // Package name after the update.
	UpdatedDependencies []string // Dependencies whose constraint was replaced.
	MissingDependencies []string // Requested dependencies absent from the manifest.
}

// ParseDependencyList splits a comma separated list of dependency names,
// trimming whitespace and dropping empty and repeated entries.
func ParseDependencyList(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" || slices.Contains(names, name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Validate reports missing required options.
func (o Options) Validate() error {
	if strings.TrimSpace(o.PrereleaseTag) == "" {
		return fmt.Errorf("%w: pre-release-tag", ErrMissingOption)
	}
	if strings.TrimSpace(o.CommitHash) == "" {
		return fmt.Errorf("%w: commit identifier", ErrMissingOption)
	}
	if o.updatesDependencies() && o.DependenciesVersionTag == "" {
		return fmt.Errorf("%w: dependencies-to-update-version-tag is required when dependencies-to-update is set", ErrMissingOption)
	}
	return nil
}

func (o Options) updatesDependencies() bool {
	return !o.SkipDependenciesUpdate && len(o.DependenciesToUpdate) > 0
}

// ApplyUpdate stamps m in place: it writes the generated prerelease version and
// the full commit hash, optionally renames the package, and replaces the
// constraint of every requested dependency that the manifest declares.
// Requested dependencies that are not declared are logged at error level and
// skipped. On error m is left unchanged.
func ApplyUpdate(m *Manifest, opts Options, logger *slog.Logger) (UpdateMeta, error) {
	if logger == nil {
		logger = slog.Default()
	}
	meta := UpdateMeta{OldVersion: m.Version()}

	newVersion, err := GeneratePrereleaseVersion(meta.OldVersion, opts.PrereleaseTag, opts.CommitHash, opts.Date)
	if err != nil {
		return meta, err
	}
	meta.NewVersion = newVersion
	meta.PrereleaseSha = opts.CommitHash

	// Work on a copy so a failed edit never leaves m half updated.
	work := &Manifest{raw: slices.Clone(m.raw)}

	if err := work.SetVersion(newVersion); err != nil {
		return meta, err
	}
	if err := work.SetPrereleaseSha(opts.CommitHash); err != nil {
		return meta, err
	}
	if name := strings.TrimSpace(opts.PackageName); name != "" {
		if err := work.SetName(name); err != nil {
			return meta, err
		}
	}
	meta.Name = work.Name()

	switch {
	case opts.SkipDependenciesUpdate:
		logger.Info("skipping dependency update", "requested", opts.DependenciesToUpdate)
	case len(opts.DependenciesToUpdate) == 0:
		logger.Info("no dependencies to update")
	default:
		for _, dep := range opts.DependenciesToUpdate {
			if _, ok := work.Dependency(dep); !ok {
				logger.Error("dependency was not found in the manifest",
					"dependency", dep,
					"err", fmt.Errorf("%w: %s", ErrUnknownDependency, dep))
				meta.MissingDependencies = append(meta.MissingDependencies, dep)
				continue
			}
			logger.Info("updating dependency", "dependency", dep, "version", opts.DependenciesVersionTag)
			if err := work.SetDependency(dep, opts.DependenciesVersionTag); err != nil {
				return meta, err
			}
			meta.UpdatedDependencies = append(meta.UpdatedDependencies, dep)
		}
	}

	m.raw = work.raw
	return meta, nil
}
