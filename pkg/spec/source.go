package spec

import (
	"path/filepath"
	"strings"
)

// SourceKind distinguishes where a template body comes from.
type SourceKind string

const (
	SourceKindFile    SourceKind = "file"
	SourceKindContent SourceKind = "content"
)

// Source identifies a single template body. File sources use their cleaned,
// slash separated path as id; content sources carry an explicit id.
type Source struct {
	kind    SourceKind
	id      string
	path    string
	content string
}

// SourceFromFile returns a Source pointing to a template file on disk.
func SourceFromFile(path string) Source {
	clean := filepath.Clean(path)
	return Source{
		kind: SourceKindFile,
		id:   filepath.ToSlash(clean),
		path: clean,
	}
}

// SourceFromContent returns a Source for an inline template body.
func SourceFromContent(id, content string) Source {
	return Source{
		kind:    SourceKindContent,
		id:      strings.TrimSpace(id),
		content: content,
	}
}

// ID returns the template id used as key in the engine's template table.
func (s Source) ID() string {
	return s.id
}

func (s Source) Kind() SourceKind {
	return s.kind
}

// Path returns the file path for file sources.
func (s Source) Path() (string, bool) {
	if s.kind != SourceKindFile {
		return "", false
	}
	return s.path, true
}

// Content returns the inline body for content sources.
func (s Source) Content() (string, bool) {
	if s.kind != SourceKindContent {
		return "", false
	}
	return s.content, true
}
