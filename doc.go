// Package main implements the prerelease CLI tool.
//
// The prerelease tool is meant to run as a CI pipeline step before publishing
// a prerelease build. It reads a package manifest (default "./package.json"),
// derives a prerelease version from the manifest's current version, writes the
// new version and the full commit identifier back into the manifest, and
// reports the new version as the "pre-release-version" step output.
//
// The generated version has the form
//
//	{major}.{minor}.{patch}-{tag}.{date}.sha-{hash8}
//
// where tag is the prerelease tag, date is today's UTC date as YYYYMMDD and
// hash8 is the first eight characters of the commit identifier. Any prerelease
// segment already present on the manifest version is dropped.
//
// Command Usage:
//
//	prerelease [flags]
//
// Flags:
//
//	--pre-release-tag:                    Prerelease tag segment (required).
//	--package-json-path:                  Manifest to stamp. (Defaults to "./package.json")
//	--dependencies-to-update:             Comma separated dependency names to rewrite.
//	--dependencies-to-update-version-tag: Constraint written to each of those dependencies.
//	                                      Required when dependencies-to-update is set.
//	--skip-dependencies-to-update:        Skip dependency rewriting. Accepts 1, t, true,
//	                                      0, f, false in any of their usual casings.
//	--package-name:                       Overwrite the manifest name.
//	--sha:                                Commit identifier. Defaults to $GITHUB_SHA, then
//	                                      the output of "git rev-parse HEAD".
//	--date:                               Date identifier. Defaults to today's UTC date.
//	--dry:                                Print what would change without writing.
//	--config:                             YAML file holding any of the options above.
//	--debug:                              Enable debug logging.
//	--version:                            Displays the version of the CLI and exits.
//
// Every option can also be given as a runner input variable, e.g.
// INPUT_PRE-RELEASE-TAG or INPUT_PRE_RELEASE_TAG. When GITHUB_OUTPUT is set the
// computed version is appended to that file, otherwise it is printed as
// "pre-release-version=<version>". Inside GitHub Actions error log lines are
// emitted as ::error:: workflow commands.
//
// Examples:
//
//	# Stamp ./package.json with a nightly prerelease (1.2.3 → 1.2.3-nightly.20220420.sha-abcde123)
//	prerelease --pre-release-tag nightly
//
//	# Point two internal dependencies at their "next" dist-tag
//	prerelease --pre-release-tag next --dependencies-to-update a,b --dependencies-to-update-version-tag next
//
//	# Publish under a different package name, without touching the file
//	prerelease --pre-release-tag alpha --package-name foo-cli --dry
//
// Exit status is 0 on success, even when some requested dependencies are not
// declared in the manifest (those are logged as errors). Invalid options exit
// with 2, an unparseable manifest or version with 3 and I/O failures with 4.
//
// For API documentation see the "pkg" package.
package main
