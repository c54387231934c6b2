package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-mailtemplate/pkg/render/template"
	"github.com/goliatone/go-mailtemplate/pkg/spec"
)

// Body is the rendered output of one sub-template.
type Body struct {
	ID        string
	MediaType string
	Charset   string
	Content   string
}

// RenderAll renders every sub-template of tpl in order. When the engine does
// not guarantee CRLF line endings the output is passed through FixNewlines.
func RenderAll(engine template.Engine, tpl *spec.TemplateSpec, data any, cids template.AdditionalCIDs) ([]Body, error) {
	if engine == nil {
		return nil, fmt.Errorf("render: engine is required")
	}
	if tpl == nil {
		return nil, fmt.Errorf("render: template spec is required")
	}

	cids = cids.Normalize()
	fix := !engine.ProducesValidNewlines()

	bodies := make([]Body, 0, len(tpl.SubSpecs()))
	for _, sub := range tpl.SubSpecs() {
		out, err := engine.Render(sub, data, cids)
		if err != nil {
			return nil, err
		}
		if fix {
			out = FixNewlines(out)
		}
		bodies = append(bodies, Body{
			ID:        sub.Source().ID(),
			MediaType: sub.MediaType(),
			Charset:   sub.Charset(),
			Content:   out,
		})
	}
	return bodies, nil
}

// Reload swaps previous for next: previous is unloaded (missing ids are
// ignored) and next is loaded.
func Reload(engine template.EngineBase, previous, next *spec.TemplateSpec) error {
	if previous != nil {
		engine.UnloadTemplates(previous)
	}
	return engine.LoadTemplates(next)
}

// FixNewlines rewrites bare "\n" and lone "\r" as "\r\n". Existing "\r\n"
// pairs are kept.
func FixNewlines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + strings.Count(s, "\n"))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\r':
			b.WriteString("\r\n")
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\n':
			b.WriteString("\r\n")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
