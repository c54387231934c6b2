package spec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type manifestFile struct {
	BasePath  string          `json:"base_path" yaml:"base_path"`
	Templates []templateEntry `json:"templates" yaml:"templates"`
}

type templateEntry struct {
	ID        string `json:"id" yaml:"id"`
	Path      string `json:"path" yaml:"path"`
	Content   string `json:"content" yaml:"content"`
	MediaType string `json:"media_type" yaml:"media_type"`
	Charset   string `json:"charset" yaml:"charset"`
}

// LoadManifest reads a JSON or YAML manifest from disk. Relative template
// paths are resolved against the manifest's directory unless the manifest
// sets base_path.
func LoadManifest(path string) (*TemplateSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spec: read manifest %s: %w", path, err)
	}
	return ParseManifest(data, path, filepath.Dir(path))
}

// ParseManifest decodes a manifest payload. source is only used in error
// messages. Duplicate ids are not rejected here; the render engine owns the
// collision check.
func ParseManifest(data []byte, source, baseDir string) (*TemplateSpec, error) {
	doc, err := parseManifest(data, source)
	if err != nil {
		return nil, err
	}

	base := baseDir
	if trimmed := strings.TrimSpace(doc.BasePath); trimmed != "" {
		if filepath.IsAbs(trimmed) {
			base = trimmed
		} else {
			base = filepath.Join(baseDir, trimmed)
		}
	}

	subs := make([]SubTemplateSpec, 0, len(doc.Templates))
	for idx, entry := range doc.Templates {
		src, err := entry.source(base)
		if err != nil {
			return nil, fmt.Errorf("spec: manifest %s entry %d: %w", source, idx, err)
		}
		sub, err := NewSubTemplateSpec(src, entry.MediaType, entry.Charset)
		if err != nil {
			return nil, fmt.Errorf("spec: manifest %s entry %d: %w", source, idx, err)
		}
		subs = append(subs, sub)
	}

	spec, err := New(base, subs...)
	if err != nil {
		return nil, fmt.Errorf("spec: manifest %s: %w", source, err)
	}
	return spec, nil
}

func (e templateEntry) source(base string) (Source, error) {
	path := strings.TrimSpace(e.Path)
	switch {
	case path != "" && e.Content != "":
		return Source{}, fmt.Errorf("path and content are mutually exclusive")
	case path != "":
		if !filepath.IsAbs(path) && base != "" {
			path = filepath.Join(base, path)
		}
		return SourceFromFile(path), nil
	case strings.TrimSpace(e.ID) == "":
		return Source{}, fmt.Errorf("inline template requires an id")
	default:
		return SourceFromContent(e.ID, e.Content), nil
	}
}

func parseManifest(data []byte, source string) (manifestFile, error) {
	var doc manifestFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return manifestFile{}, fmt.Errorf("spec: manifest %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = manifestFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return manifestFile{}, fmt.Errorf("spec: parse manifest %s: %w", source, err)
	}
	return doc, nil
}
