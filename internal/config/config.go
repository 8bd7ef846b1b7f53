// Package config loads the prerelease options from command-line flags,
// runner inputs, an optional YAML file and built-in defaults.
//
// Sources in precedence order, highest to lowest:
//  1. Command-line flags
//  2. INPUT_* environment variables (e.g. INPUT_PRE-RELEASE-TAG, or the
//     shell friendly INPUT_PRE_RELEASE_TAG)
//  3. The configuration file (--config, or .prerelease.yaml in the working directory)
//  4. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	prerelease "github.com/bcomnes/prerelease/pkg"
)

// Option keys. They double as flag names and runner input names.
const (
	KeyPrereleaseTag          = "pre-release-tag"
	KeyPackageJSONPath        = "package-json-path"
	KeyDependenciesToUpdate   = "dependencies-to-update"
	KeyDependenciesVersionTag = "dependencies-to-update-version-tag"
	KeyPackageName            = "package-name"
	KeySkipDependencies       = "skip-dependencies-to-update"
	KeySha                    = "sha"
	KeyDate                   = "date"
	KeyDry                    = "dry"
	KeyDebug                  = "debug"
)

var keys = []string{
	KeyPrereleaseTag,
	KeyPackageJSONPath,
	KeyDependenciesToUpdate,
	KeyDependenciesVersionTag,
	KeyPackageName,
	KeySkipDependencies,
	KeySha,
	KeyDate,
	KeyDry,
	KeyDebug,
}

// DefaultPackageJSONPath is used when no manifest path is configured.
const DefaultPackageJSONPath = "./package.json"

// ErrInvalidOption indicates an option value could not be interpreted.
var ErrInvalidOption = errors.New("invalid option value")

// Config is the fully resolved set of inputs for one run.
type Config struct {
	PrereleaseTag          string
	PackageJSONPath        string
	DependenciesToUpdate   []string
	DependenciesVersionTag string
	PackageName            string
	SkipDependenciesUpdate bool
	Sha                    string
	Date                   string
	Dry                    bool
	Debug                  bool
	ConfigFileUsed         string
}

// RegisterFlags defines one flag per option key on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyPrereleaseTag, "", "Prerelease tag segment, e.g. nightly or alpha (required)")
	fs.String(KeyPackageJSONPath, DefaultPackageJSONPath, "Path to the package manifest to stamp")
	fs.String(KeyDependenciesToUpdate, "", "Comma separated dependency names whose version constraint is replaced")
	fs.String(KeyDependenciesVersionTag, "", "Replacement version constraint for dependencies-to-update")
	fs.String(KeyPackageName, "", "Overwrite the manifest name")
	fs.Bool(KeySkipDependencies, false, "Skip dependency rewriting even if dependencies-to-update is set")
	fs.String(KeySha, "", "Commit identifier (default: $GITHUB_SHA, then git rev-parse HEAD)")
	fs.String(KeyDate, "", "Date identifier (default: today's UTC date as YYYYMMDD)")
	fs.Bool(KeyDry, false, "Compute the version without writing the manifest")
	fs.Bool(KeyDebug, false, "Enable debug logging")
}

// Load resolves every option key from fs, the environment and the optional
// configuration file. A missing default file is not an error; a missing
// explicit file is.
func Load(v *viper.Viper, fs *pflag.FlagSet, cfgFile string) (Config, error) {
	var cfg Config

	v.SetDefault(KeyPackageJSONPath, DefaultPackageJSONPath)
	for _, key := range keys {
		if f := fs.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return cfg, fmt.Errorf("binding flag %s: %w", key, err)
			}
		}
		if err := v.BindEnv(append([]string{key}, inputEnvNames(key)...)...); err != nil {
			return cfg, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".prerelease")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
	}
	cfg.ConfigFileUsed = v.ConfigFileUsed()

	var err error
	cfg.PrereleaseTag = strings.TrimSpace(v.GetString(KeyPrereleaseTag))
	cfg.PackageJSONPath = strings.TrimSpace(v.GetString(KeyPackageJSONPath))
	cfg.DependenciesVersionTag = strings.TrimSpace(v.GetString(KeyDependenciesVersionTag))
	cfg.PackageName = strings.TrimSpace(v.GetString(KeyPackageName))
	cfg.Sha = strings.TrimSpace(v.GetString(KeySha))
	cfg.Date = strings.TrimSpace(v.GetString(KeyDate))

	if cfg.DependenciesToUpdate, err = dependencyList(v.Get(KeyDependenciesToUpdate)); err != nil {
		return cfg, fmt.Errorf("%s: %w", KeyDependenciesToUpdate, err)
	}
	if cfg.SkipDependenciesUpdate, err = ParseBool(v.Get(KeySkipDependencies)); err != nil {
		return cfg, fmt.Errorf("%s: %w", KeySkipDependencies, err)
	}
	if cfg.Dry, err = ParseBool(v.Get(KeyDry)); err != nil {
		return cfg, fmt.Errorf("%s: %w", KeyDry, err)
	}
	if cfg.Debug, err = ParseBool(v.Get(KeyDebug)); err != nil {
		return cfg, fmt.Errorf("%s: %w", KeyDebug, err)
	}
	return cfg, nil
}

// Options converts the configuration into library options for commit.
func (c Config) Options(commit string) prerelease.Options {
	return prerelease.Options{
		PrereleaseTag:          c.PrereleaseTag,
		CommitHash:             commit,
		DependenciesToUpdate:   c.DependenciesToUpdate,
		DependenciesVersionTag: c.DependenciesVersionTag,
		SkipDependenciesUpdate: c.SkipDependenciesUpdate,
		PackageName:            c.PackageName,
		Date:                   c.Date,
	}
}

// ParseBool interprets a boolean option. Unset and blank values are false.
// Strings accept exactly the strconv.ParseBool spellings (1, t, T, TRUE,
// true, True and their false counterparts); anything else is an error so a
// typo never silently flips the behavior.
func ParseBool(val any) (bool, error) {
	if val == nil {
		return false, nil
	}
	if s, ok := val.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidOption, s)
		}
		return b, nil
	}
	b, err := cast.ToBoolE(val)
	if err != nil {
		return false, fmt.Errorf("%w: %v is not a boolean", ErrInvalidOption, val)
	}
	return b, nil
}

// dependencyList accepts either a comma separated string or a YAML list.
func dependencyList(val any) ([]string, error) {
	switch x := val.(type) {
	case nil:
		return nil, nil
	case string:
		return prerelease.ParseDependencyList(x), nil
	default:
		names, err := cast.ToStringSliceE(x)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
		}
		return prerelease.ParseDependencyList(strings.Join(names, ",")), nil
	}
}

// inputEnvNames returns the runner input variable names for key, first the
// runner's own form and then an underscore form usable from shells.
func inputEnvNames(key string) []string {
	upper := strings.ToUpper(key)
	return []string{
		"INPUT_" + upper,
		"INPUT_" + strings.ReplaceAll(upper, "-", "_"),
	}
}
