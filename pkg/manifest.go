package prerelease

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Manifest field names touched by the updater.
const (
	fieldVersion       = "version"
	fieldName          = "name"
	fieldPrereleaseSha = "prereleaseSha"
	fieldDependencies  = "dependencies"
)

const manifestSchemaURL = "https://github.com/bcomnes/prerelease/manifest.schema.json"

// manifestSchema only checks the fields this package reads or writes.
// Everything else in the document is left alone.
const manifestSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version"],
  "properties": {
    "version": { "type": "string" },
    "name": { "type": "string" },
    "prereleaseSha": { "type": "string" },
    "dependencies": {
      "type": "object",
      "additionalProperties": { "type": "string" }
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(manifestSchema))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(manifestSchemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(manifestSchemaURL)
})

// prettyOptions renders two-space indented JSON with every array and object
// expanded onto its own lines.
var prettyOptions = &pretty.Options{Indent: "  "}

// Manifest is a package manifest held as raw JSON. Edits are applied to the
// raw document so key order and unknown fields survive a round trip.
type Manifest struct {
	raw []byte
}

// ParseManifest validates data as a JSON object carrying a string version field.
func ParseManifest(data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: manifest is not valid JSON", ErrParse)
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling manifest schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding manifest: %v", ErrParse, err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: unexpected manifest shape: %v", ErrParse, err)
	}
	doc := gjson.ParseBytes(data)
	if key, ok := duplicateKey(doc); ok {
		return nil, fmt.Errorf("%w: duplicate key %q", ErrParse, key)
	}
	if key, ok := duplicateKey(doc.Get(fieldDependencies)); ok {
		return nil, fmt.Errorf("%w: duplicate dependency %q", ErrParse, key)
	}

	raw := make([]byte, len(data))
	copy(raw, data)
	return &Manifest{raw: raw}, nil
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading manifest: %v", ErrIO, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// SaveManifest overwrites path with the pretty-printed manifest.
func SaveManifest(path string, m *Manifest) error {
	if err := os.WriteFile(path, m.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: writing manifest: %v", ErrIO, err)
	}
	return nil
}

// Bytes returns the manifest as two-space indented JSON with a trailing newline.
func (m *Manifest) Bytes() []byte {
	return pretty.PrettyOptions(m.raw, prettyOptions)
}

// Version returns the manifest version field.
func (m *Manifest) Version() string {
	return m.get(fieldVersion).String()
}

// Name returns the manifest name field, or "" when absent.
func (m *Manifest) Name() string {
	return m.get(fieldName).String()
}

// PrereleaseSha returns the stamped commit identifier, or "" when absent.
func (m *Manifest) PrereleaseSha() string {
	return m.get(fieldPrereleaseSha).String()
}

// Dependency returns the version constraint declared for name.
func (m *Manifest) Dependency(name string) (string, bool) {
	r := m.get(fieldDependencies, name)
	return r.String(), r.Exists()
}

// Dependencies returns the declared dependency names in document order.
func (m *Manifest) Dependencies() []string {
	var names []string
	m.get(fieldDependencies).ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	return names
}

// SetVersion sets the version field.
func (m *Manifest) SetVersion(v string) error {
	return m.set(v, fieldVersion)
}

// SetName sets the name field.
func (m *Manifest) SetName(name string) error {
	return m.set(name, fieldName)
}

// SetPrereleaseSha sets the prereleaseSha field.
func (m *Manifest) SetPrereleaseSha(sha string) error {
	return m.set(sha, fieldPrereleaseSha)
}

// SetDependency sets the version constraint of an existing or new dependency.
func (m *Manifest) SetDependency(name, constraint string) error {
	return m.set(constraint, fieldDependencies, name)
}

func (m *Manifest) get(keys ...string) gjson.Result {
	return gjson.GetBytes(m.raw, jsonPath(keys...))
}

func (m *Manifest) set(value string, keys ...string) error {
	out, err := sjson.SetBytes(m.raw, jsonPath(keys...), value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", strings.Join(keys, "."), err)
	}
	m.raw = out
	return nil
}

// duplicateKey reports the first key declared twice in the object obj.
// Edits target the first occurrence, so such documents are ambiguous.
func duplicateKey(obj gjson.Result) (string, bool) {
	seen := make(map[string]struct{})
	var (
		dup   string
		found bool
	)
	obj.ForEach(func(key, _ gjson.Result) bool {
		k := key.String()
		if _, ok := seen[k]; ok {
			dup, found = k, true
			return false
		}
		seen[k] = struct{}{}
		return true
	})
	return dup, found
}

// jsonPath joins object keys into a gjson/sjson path, escaping characters
// such as "." and "@" that appear in scoped or dotted package names.
func jsonPath(keys ...string) string {
	escaped := make([]string, len(keys))
	for i, k := range keys {
		escaped[i] = gjson.Escape(k)
	}
	return strings.Join(escaped, ".")
}
