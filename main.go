// Package main implements a CLI tool that stamps a prerelease version and the
// current commit identifier into a package manifest.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bcomnes/prerelease/internal/config"
	"github.com/bcomnes/prerelease/internal/ghaction"
	prerelease "github.com/bcomnes/prerelease/pkg"
)

// outputName is the step output carrying the computed version.
const outputName = "pre-release-version"

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "prerelease [flags]",
		Short: "Stamp a prerelease version into a package manifest",
		Long: `Generates a prerelease version of the form
{major}.{minor}.{patch}-{tag}.{date}.sha-{hash8} from the manifest's current
version, writes it together with the full commit identifier (prereleaseSha)
into the manifest, and optionally rewrites the package name and selected
dependency constraints.

Every flag can also be supplied as a runner input (INPUT_<NAME>) or in a
.prerelease.yaml configuration file.`,
		Example: `  prerelease --pre-release-tag nightly
  prerelease --pre-release-tag next --dependencies-to-update a,b --dependencies-to-update-version-tag next
  prerelease --pre-release-tag alpha --package-json-path packages/cli/package.json --package-name foo-cli --dry`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.New(), cmd.Flags(), cfgFile)
			if err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}
			return run(cfg, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is ./.prerelease.yaml)")
	config.RegisterFlags(cmd.Flags())
	return cmd
}

// errUsage marks configuration and flag errors.
var errUsage = errors.New("usage error")

func run(cfg config.Config, stdout, stderr io.Writer) error {
	level := slog.LevelInfo
	if cfg.Debug || ghaction.DebugEnabled() {
		level = slog.LevelDebug
	}
	logger := slog.New(ghaction.NewHandler(stderr, level))

	if cfg.ConfigFileUsed != "" {
		logger.Debug("using config file", "path", cfg.ConfigFileUsed)
	}

	commit, err := ghaction.ResolveCommit(cfg.Sha, filepath.Dir(cfg.PackageJSONPath))
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	logger.Debug("resolved inputs",
		config.KeyPrereleaseTag, cfg.PrereleaseTag,
		config.KeyPackageJSONPath, cfg.PackageJSONPath,
		config.KeyDependenciesToUpdate, cfg.DependenciesToUpdate,
		config.KeyDependenciesVersionTag, cfg.DependenciesVersionTag,
		config.KeyPackageName, cfg.PackageName,
		config.KeySkipDependencies, cfg.SkipDependenciesUpdate,
		"sha", commit,
	)

	opts := cfg.Options(commit)
	var meta prerelease.UpdateMeta
	if cfg.Dry {
		meta, err = prerelease.DryRun(cfg.PackageJSONPath, opts, logger)
	} else {
		meta, err = prerelease.Run(cfg.PackageJSONPath, opts, logger)
	}
	if err != nil {
		return err
	}

	// Summary
	if cfg.Dry {
		fmt.Fprintln(stdout, "Dry run complete — no files were modified.")
	} else {
		fmt.Fprintln(stdout, "Prerelease stamp successful!")
	}
	fmt.Fprintf(stdout, "Old Version:    %s\n", meta.OldVersion)
	fmt.Fprintf(stdout, "New Version:    %s\n", meta.NewVersion)
	fmt.Fprintf(stdout, "Prerelease Sha: %s\n", meta.PrereleaseSha)
	if meta.Name != "" {
		fmt.Fprintf(stdout, "Package Name:   %s\n", meta.Name)
	}
	if len(meta.UpdatedDependencies) > 0 {
		fmt.Fprintln(stdout, "Dependencies updated:")
		for _, d := range meta.UpdatedDependencies {
			fmt.Fprintf(stdout, "  %s -> %s\n", d, cfg.DependenciesVersionTag)
		}
	}
	if cfg.Dry {
		fmt.Fprintf(stdout, "File that would be updated:\n  %s\n", meta.ManifestPath)
		return nil
	}
	fmt.Fprintf(stdout, "File updated:\n  %s\n", meta.ManifestPath)

	return ghaction.SetOutput(stdout, outputName, meta.NewVersion)
}

// mapErrorToExitCode converts an error into the process exit status.
func mapErrorToExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, prerelease.ErrMissingOption), errors.Is(err, prerelease.ErrInvalidPrerelease):
		return 2
	case errors.Is(err, prerelease.ErrParse):
		return 3
	case errors.Is(err, prerelease.ErrIO):
		return 4
	default:
		return 1
	}
}

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(mapErrorToExitCode(err))
	}
}
