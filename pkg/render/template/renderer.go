package template

import (
	"strings"

	"github.com/goliatone/go-mailtemplate/pkg/spec"
)

// EngineBase is the lifecycle half of a render engine.
type EngineBase interface {
	// ProducesValidNewlines reports whether rendered output already uses
	// CRLF line endings. The value is fixed per engine implementation.
	ProducesValidNewlines() bool
	LoadTemplates(tpl *spec.TemplateSpec) error
	// UnloadTemplates removes every sub-template id of tpl. Missing ids are
	// ignored so unload followed by load can be used to reload.
	UnloadTemplates(tpl *spec.TemplateSpec)
	UnknownTemplateIDError(id string) error
}

// Engine renders loaded sub-templates. data must be serialisable; it is
// exposed to templates as `data` next to `cids`.
type Engine interface {
	EngineBase
	Render(sub spec.SubTemplateSpec, data any, cids AdditionalCIDs) (string, error)
}

// AdditionalCIDs lists content ids of inline attachments a template body may
// reference, e.g. `<img src="cid:{{ cids|first }}">`.
type AdditionalCIDs []string

// Normalize trims entries, drops blanks and duplicates, keeping first-seen
// order. It never returns nil.
func (c AdditionalCIDs) Normalize() AdditionalCIDs {
	out := make(AdditionalCIDs, 0, len(c))
	seen := make(map[string]struct{}, len(c))
	for _, cid := range c {
		trimmed := strings.TrimSpace(cid)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
