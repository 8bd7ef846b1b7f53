package ghaction

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// outputDelimiter separates multiline output values in the GITHUB_OUTPUT file.
const outputDelimiter = "ghadelimiter_prerelease"

// SetOutput publishes a step output. When GITHUB_OUTPUT names a file the
// value is appended to it, otherwise name=value is written to w.
func SetOutput(w io.Writer, name, value string) error {
	return setOutput(os.Getenv("GITHUB_OUTPUT"), w, name, value)
}

func setOutput(outputFile string, stdout io.Writer, name, value string) error {
	line := formatOutput(name, value)
	if outputFile == "" {
		_, err := io.WriteString(stdout, line)
		return err
	}

	f, err := os.OpenFile(outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	if _, err := io.WriteString(f, line); err != nil {
		f.Close()
		return fmt.Errorf("writing output %s: %w", name, err)
	}
	return f.Close()
}

func formatOutput(name, value string) string {
	if !strings.ContainsAny(value, "\r\n") {
		return name + "=" + value + "\n"
	}
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", name, outputDelimiter, value, outputDelimiter)
}
