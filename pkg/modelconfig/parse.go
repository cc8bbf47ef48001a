package modelconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"
)

// Parse parses a JSON model configuration. The document root must be an object.
func Parse(data []byte) (*Value, error) {
	return parse(data, "")
}

func parse(data []byte, source string) (*Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Source: source, Err: errors.New("empty document")}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &ParseError{Source: source, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Source: source, Err: errors.New("invalid JSON: unexpected data after top-level value")}
	}

	if _, ok := raw.(map[string]any); !ok {
		return nil, &ParseError{
			Source: source,
			Err:    fmt.Errorf("document root must be a mapping, got %s", typeName(raw)),
		}
	}
	return newValue("", raw), nil
}

// ParseYAML parses a YAML model configuration by converting it to JSON first.
func ParseYAML(data []byte) (*Value, error) {
	return parseYAML(data, "")
}

func parseYAML(data []byte, source string) (*Value, error) {
	j, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, &ParseError{Source: source, Err: fmt.Errorf("invalid YAML: %w", err)}
	}
	if bytes.Equal(bytes.TrimSpace(j), []byte("null")) {
		return nil, &ParseError{Source: source, Err: errors.New("empty document")}
	}
	return parse(j, source)
}

// ParseFile reads and parses a configuration file. The format is chosen by extension:
// .json, .yaml or .yml.
func ParseFile(filename string) (*Value, error) {
	contents, err := os.ReadFile(filename) //nolint:gosec // expected dynamic path
	if err != nil {
		return nil, &ParseError{Source: filename, Err: err}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return parse(contents, filename)
	case ".yaml", ".yml":
		return parseYAML(contents, filename)
	default:
		return nil, &ParseError{
			Source: filename,
			Err:    fmt.Errorf("unsupported configuration format %q", filepath.Ext(filename)),
		}
	}
}

// ToJSON converts a YAML or JSON configuration file to canonical JSON bytes.
func ToJSON(filename string) ([]byte, error) {
	doc, err := ParseFile(filename)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
