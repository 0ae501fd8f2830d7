// FILE: stratacfg/strata/file.go
package strata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Supported file formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatINI  = "ini"
)

// fileSource captures one configuration file. The file is read fully in the
// constructor and on TryRefresh; between refreshes the captured state never
// changes, so readers need no locking.
type fileSource struct {
	path     string
	format   string
	optional bool
	values   map[string]any
}

// NewFileSource reads path and builds a refreshable source over its
// contents. The format is taken from the extension, falling back to content
// detection. A missing file is an error; use NewOptionalFileSource for
// files that may not exist.
func NewFileSource(path string) (Source, error) {
	return newFileSource(path, false)
}

// NewOptionalFileSource is NewFileSource for files that may be absent. A
// missing file yields an empty source that picks the file up on a later
// refresh if it appears.
func NewOptionalFileSource(path string) (Source, error) {
	return newFileSource(path, true)
}

func newFileSource(path string, optional bool) (*fileSource, error) {
	s := &fileSource{path: path, optional: optional}
	values, format, err := s.read()
	if err != nil {
		return nil, err
	}
	s.values, s.format = values, format
	return s, nil
}

func (s *fileSource) read() (map[string]any, string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if s.optional && os.IsNotExist(err) {
			return map[string]any{}, s.format, nil
		}
		return nil, "", fmt.Errorf("reading %s: %w", s.path, err)
	}
	format := s.format
	if format == "" {
		format = detectFormat(s.path, data)
	}
	if format == "" {
		return nil, "", fmt.Errorf("cannot determine format of %s", s.path)
	}
	values, err := parseDocument(format, data)
	if err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return values, format, nil
}

func (s *fileSource) GetRaw(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *fileSource) Keys() []string {
	return sortedKeys(s.values)
}

func (s *fileSource) Refreshable() bool { return true }

func (s *fileSource) TryRefresh() (Outcome, error) {
	values, format, err := s.read()
	if err != nil {
		return Unchanged, err
	}
	if mapsEqual(s.values, values) {
		return Unchanged, nil
	}
	s.values, s.format = values, format
	return Changed, nil
}

// bytesSource captures an in-memory document. Non-refreshable; the bytes
// are parsed once in the constructor.
type bytesSource struct {
	values map[string]any
}

// NewBytesSource parses data in the named format. It serves embedded
// defaults, typically paired with go:embed.
func NewBytesSource(format string, data []byte) (Source, error) {
	values, err := parseDocument(format, data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s document: %w", format, err)
	}
	return &bytesSource{values: values}, nil
}

func (s *bytesSource) GetRaw(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *bytesSource) Keys() []string {
	return sortedKeys(s.values)
}

func (s *bytesSource) Refreshable() bool { return false }

func (s *bytesSource) TryRefresh() (Outcome, error) { return Unchanged, nil }

// parseDocument decodes data in the named format and flattens the result.
func parseDocument(format string, data []byte) (map[string]any, error) {
	var nested map[string]any
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &nested); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &nested); err != nil {
			return nil, err
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&nested); err != nil {
			return nil, err
		}
	case FormatINI:
		return parseINI(data)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	flat := make(map[string]any, len(nested))
	flattenInto(flat, "", nested)
	return flat, nil
}

// parseINI flattens an INI document. Keys in the default section map
// directly; named sections become key prefixes. All values are strings.
func parseINI(data []byte) (map[string]any, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, err
	}
	flat := make(map[string]any)
	for _, section := range f.Sections() {
		prefix := ""
		if section.Name() != ini.DefaultSection {
			prefix = normalizeKey(section.Name())
		}
		for _, k := range section.Keys() {
			flat[childKey(prefix, normalizeKey(k.Name()))] = k.Value()
		}
	}
	return flat, nil
}

// detectFormat maps a file extension to a format, falling back to content
// detection for unknown extensions.
func detectFormat(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".ini", ".conf":
		return FormatINI
	}
	return detectFormatFromContent(data)
}

// detectFormatFromContent tries parsers in order of strictness. A format
// matches only when parsing succeeds and yields at least one key, since
// YAML accepts nearly any text.
func detectFormatFromContent(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '{' {
		var m map[string]any
		if json.Unmarshal(trimmed, &m) == nil && len(m) > 0 {
			return FormatJSON
		}
	}
	var tm map[string]any
	if toml.Unmarshal(data, &tm) == nil && len(tm) > 0 {
		return FormatTOML
	}
	var ym map[string]any
	if yaml.Unmarshal(data, &ym) == nil && len(ym) > 0 {
		return FormatYAML
	}
	return ""
}
