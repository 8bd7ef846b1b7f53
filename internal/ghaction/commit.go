// Package ghaction holds the glue between the prerelease tool and the CI
// runner: resolving the commit identifier, publishing outputs and rendering
// log records as workflow commands.
package ghaction

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrNoCommit is returned when no commit identifier can be found.
var ErrNoCommit = errors.New("no commit identifier: pass --sha, set GITHUB_SHA, or run inside a git work tree")

// ResolveCommit returns explicit when set, then GITHUB_SHA, then the HEAD
// revision reported by git in dir.
func ResolveCommit(explicit, dir string) (string, error) {
	if s := strings.TrimSpace(explicit); s != "" {
		return s, nil
	}
	if s := strings.TrimSpace(os.Getenv("GITHUB_SHA")); s != "" {
		return s, nil
	}
	if err := checkGit(); err != nil {
		return "", fmt.Errorf("%w (%v)", ErrNoCommit, err)
	}
	sha, err := headRevision(dir)
	if err != nil {
		return "", fmt.Errorf("%w (%v)", ErrNoCommit, err)
	}
	return sha, nil
}

// checkGit verifies that git is available on the system.
func checkGit() error {
	cmd := exec.Command("git", "--version")
	if err := cmd.Run(); err != nil {
		return errors.New("git is not available on the system")
	}
	return nil
}

// headRevision asks git for the full hash of HEAD in dir.
func headRevision(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %v, detail: %s", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}
