package pongo

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// baseLoader is the pongo2.TemplateLoader of an Engine. It serves base
// templates by name and falls back to the filesystem for everything else, so
// `{% extends "base_mail.html" %}` resolves the same way from inline and
// file-backed templates.
type baseLoader struct {
	templates map[string][]byte
}

func newBaseLoader(glob string) (*baseLoader, error) {
	loader := &baseLoader{templates: make(map[string][]byte)}
	if strings.TrimSpace(glob) == "" {
		return loader, nil
	}

	// `**` matches zero or more directories, so `templates/**/*.html` also
	// picks up layouts sitting directly in templates/.
	matches, err := doublestar.FilepathGlob(glob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", glob, err)
	}

	root := globRoot(glob)
	for _, match := range matches {
		data, err := os.ReadFile(match)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, match)
		if err != nil {
			return nil, err
		}
		loader.templates[filepath.ToSlash(rel)] = data
	}
	return loader, nil
}

// names returns the base template names in lexical order.
func (l *baseLoader) names() []string {
	out := make([]string, 0, len(l.templates))
	for name := range l.templates {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (l *baseLoader) has(name string) bool {
	_, ok := l.templates[name]
	return ok
}

// Abs resolves name as referenced from the template called base.
func (l *baseLoader) Abs(base, name string) string {
	if l.has(name) {
		return name
	}
	if base == "" || filepath.IsAbs(name) {
		return name
	}
	if l.has(base) {
		if joined := path.Join(path.Dir(base), name); l.has(joined) {
			return joined
		}
	}
	return filepath.Join(filepath.Dir(base), name)
}

func (l *baseLoader) Get(name string) (io.Reader, error) {
	if data, ok := l.templates[name]; ok {
		return bytes.NewReader(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// globRoot returns the directory portion of glob that precedes the first
// segment containing a wildcard.
func globRoot(glob string) string {
	segments := strings.Split(filepath.ToSlash(glob), "/")
	root := make([]string, 0, len(segments))
	for _, segment := range segments {
		if strings.ContainsAny(segment, "*?[") {
			break
		}
		root = append(root, segment)
	}
	if len(root) == len(segments) {
		return filepath.Dir(glob)
	}
	if len(root) == 0 {
		return "."
	}
	joined := strings.Join(root, "/")
	if joined == "" {
		return "/"
	}
	return filepath.FromSlash(joined)
}
