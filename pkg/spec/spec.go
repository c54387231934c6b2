package spec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	MediaTypePlain = "text/plain"
	MediaTypeHTML  = "text/html"
)

// ErrNoSubSpecs is returned when a TemplateSpec would contain no sub-templates.
var ErrNoSubSpecs = errors.New("spec: template spec requires at least one sub-template")

// SubTemplateSpec is one leaf of a TemplateSpec: a single template body plus
// the media type it renders to.
type SubTemplateSpec struct {
	source    Source
	mediaType string
	charset   string
}

// NewSubTemplateSpec builds a sub-template spec. An empty media type is
// derived from the source id's suffix.
func NewSubTemplateSpec(source Source, mediaType, charset string) (SubTemplateSpec, error) {
	if source.ID() == "" {
		return SubTemplateSpec{}, errors.New("spec: sub-template source id is required")
	}
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		mediaType = MediaTypeForName(source.ID())
	}
	if mediaType == "" {
		return SubTemplateSpec{}, fmt.Errorf("spec: cannot derive media type for %q", source.ID())
	}
	charset = strings.TrimSpace(charset)
	if charset == "" {
		charset = "utf-8"
	}
	return SubTemplateSpec{
		source:    source,
		mediaType: mediaType,
		charset:   charset,
	}, nil
}

func (s SubTemplateSpec) Source() Source {
	return s.source
}

func (s SubTemplateSpec) MediaType() string {
	return s.mediaType
}

func (s SubTemplateSpec) Charset() string {
	return s.charset
}

// TemplateSpec is an ordered, non-empty collection of sub-template specs that
// together make up one mail template (usually a plain text and an HTML
// alternative).
type TemplateSpec struct {
	basePath string
	subSpecs []SubTemplateSpec
}

// New creates a TemplateSpec. The order of subSpecs is preserved.
func New(basePath string, subSpecs ...SubTemplateSpec) (*TemplateSpec, error) {
	if len(subSpecs) == 0 {
		return nil, ErrNoSubSpecs
	}
	out := make([]SubTemplateSpec, len(subSpecs))
	copy(out, subSpecs)
	return &TemplateSpec{
		basePath: basePath,
		subSpecs: out,
	}, nil
}

// BasePath is the directory the spec was discovered from, if any.
func (t *TemplateSpec) BasePath() string {
	return t.basePath
}

// SubSpecs returns the sub-template specs in their defined order.
func (t *TemplateSpec) SubSpecs() []SubTemplateSpec {
	return t.subSpecs
}

// FromDir discovers template files directly inside dir. Plain text bodies are
// ordered before HTML bodies, ties break on file name.
func FromDir(dir string) (*TemplateSpec, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("spec: read dir %s: %w", dir, err)
	}

	var subs []SubTemplateSpec
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if MediaTypeForName(name) == "" {
			continue
		}
		sub, err := NewSubTemplateSpec(SourceFromFile(filepath.Join(dir, name)), "", "")
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	sort.SliceStable(subs, func(i, j int) bool {
		ri, rj := mediaRank(subs[i].mediaType), mediaRank(subs[j].mediaType)
		if ri != rj {
			return ri < rj
		}
		return subs[i].source.ID() < subs[j].source.ID()
	})

	return New(dir, subs...)
}

// MediaTypeForName maps a template file name to the media type it produces.
// Unknown suffixes yield an empty string.
func MediaTypeForName(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".txt"), strings.HasSuffix(lower, ".text"):
		return MediaTypePlain
	case strings.HasSuffix(lower, ".html"), strings.HasSuffix(lower, ".htm"):
		return MediaTypeHTML
	default:
		return ""
	}
}

func mediaRank(mediaType string) int {
	switch mediaType {
	case MediaTypePlain:
		return 0
	case MediaTypeHTML:
		return 1
	default:
		return 2
	}
}
