package prerelease

import (
	"fmt"
	"strings"
	"time"

	mmsemver "github.com/Masterminds/semver/v3"
	"golang.org/x/mod/semver"
)

// shortHashLen is how many characters of the commit hash go into a version.
const shortHashLen = 8

// dateLayout is the YYYYMMDD layout used for the date identifier.
const dateLayout = "20060102"

// now is the clock used by CurrentDateStamp. Tests replace it.
var now = time.Now

// Triple holds the numeric part of a semantic version.
type Triple struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// String renders the triple as major.minor.patch.
func (t Triple) String() string {
	return fmt.Sprintf("%d.%d.%d", t.Major, t.Minor, t.Patch)
}

// ParseSemanticVersion extracts the major, minor and patch numbers from a
// semantic version string. A single leading "=", "v" or "=v" is tolerated.
// Build metadata is always ignored. An existing prerelease segment is ignored
// when allowPrerelease is true and rejected otherwise.
func ParseSemanticVersion(input string, allowPrerelease bool) (Triple, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "="), "v")

	v, err := mmsemver.StrictNewVersion(raw)
	if err != nil {
		return Triple{}, fmt.Errorf("%w: %q is not a valid semantic version: %v", ErrParse, input, err)
	}
	if !allowPrerelease && v.Prerelease() != "" {
		return Triple{}, fmt.Errorf("%w: %q already carries prerelease %q", ErrParse, input, v.Prerelease())
	}
	return Triple{Major: v.Major(), Minor: v.Minor(), Patch: v.Patch()}, nil
}

// CurrentDateStamp returns today's UTC date formatted as YYYYMMDD.
func CurrentDateStamp() string {
	return now().UTC().Format(dateLayout)
}

// ShortHash returns the first 8 characters of hash, or all of it when shorter.
func ShortHash(hash string) string {
	if len(hash) <= shortHashLen {
		return hash
	}
	return hash[:shortHashLen]
}

// GeneratePrereleaseVersion builds "{major}.{minor}.{patch}-{tag}.{date}.sha-{hash8}"
// from version, which may already carry a prerelease. When date is empty the
// current UTC date stamp is used.
//
// Example: version 1.2.3, tag alpha, hash abcde1234567890 and date 20220101
// produce 1.2.3-alpha.20220101.sha-abcde123.
func GeneratePrereleaseVersion(version, tag, commitHash, date string) (string, error) {
	base, err := ParseSemanticVersion(version, true)
	if err != nil {
		return "", err
	}
	if date == "" {
		date = CurrentDateStamp()
	}

	out := fmt.Sprintf("%s-%s.%s.sha-%s", base, tag, date, ShortHash(commitHash))

	if !semver.IsValid("v" + out) {
		return "", fmt.Errorf("%w: %q (tag %q, date %q, hash %q)", ErrInvalidPrerelease, out, tag, date, commitHash)
	}
	return out, nil
}
