// Package prerelease provides a library for stamping prerelease versions into
// package manifests from CI pipelines.
//
// It provides functionalities for:
//   - Parsing semantic versions, optionally accepting an existing prerelease segment.
//   - Generating prerelease versions of the form
//     {major}.{minor}.{patch}-{tag}.{date}.sha-{hash8}, where hash8 is the first
//     eight characters of the commit identifier.
//   - Loading and saving package.json style manifests without disturbing key
//     order or unknown fields.
//   - Stamping the version, the full commit identifier (prereleaseSha), an
//     optional package name and replacement dependency constraints.
//
// This library backs the prerelease command-line tool in the repository root
// and can be used directly from other Go programs.
//
// Usage Example:
//
//	import (
//	    "log"
//	    "github.com/bcomnes/prerelease/pkg"
//	)
//
//	func main() {
//	    meta, err := prerelease.Run("./package.json", prerelease.Options{
//	        PrereleaseTag: "nightly",
//	        CommitHash:    "0123456789abcdef0123456789abcdef01234567",
//	    }, nil)
//	    if err != nil {
//	        log.Fatalf("stamping failed: %v", err)
//	    }
//	    log.Println("new version:", meta.NewVersion)
//	}
package prerelease
