package prerelease

import "errors"

// Sentinel errors returned (wrapped) by the library. Match them with errors.Is.
var (
	// ErrParse indicates the manifest is not valid JSON, does not have the
	// expected shape, or its version is not a valid semantic version.
	ErrParse = errors.New("parse error")

	// ErrIO indicates the manifest could not be read or written.
	ErrIO = errors.New("i/o error")

	// ErrUnknownDependency indicates a requested dependency is not declared in
	// the manifest. It is never fatal; it is only attached to log records.
	ErrUnknownDependency = errors.New("unknown dependency")

	// ErrInvalidPrerelease indicates the generated version would not be a valid
	// semantic version, usually because of an unusable prerelease tag.
	ErrInvalidPrerelease = errors.New("invalid prerelease version")

	// ErrMissingOption indicates a required option was not supplied.
	ErrMissingOption = errors.New("missing required option")
)
