package pongo

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-mailtemplate/pkg/render/template"
	"github.com/goliatone/go-mailtemplate/pkg/spec"
)

// ProducesValidNewlines is false: nothing guarantees templates are authored
// with CRLF line endings, so callers must fix newlines downstream.
const ProducesValidNewlines = false

// autoescapeMu guards pongo2's process wide autoescape switch for the
// duration of a template execution.
var autoescapeMu sync.Mutex

// Engine binds the template.Engine contract to a pongo2 template set.
//
// Engine does no locking of its own. LoadTemplates, UnloadTemplates and the
// Register/Set methods need exclusive access; Render may be called
// concurrently as long as no mutation is in flight.
type Engine struct {
	set        *pongo2.TemplateSet
	templates  map[string]*pongo2.Template
	autoescape []string
	logger     Logger
}

var _ template.Engine = (*Engine)(nil)

// New compiles every file matching baseTemplatesGlob into a fresh template
// set. Base templates are meant to be extended or included by templates
// loaded later through LoadTemplates, e.g. a shared `base_mail.html` layout.
// They are named by their path relative to the glob's directory and live in a
// namespace of their own: they never collide with spec ids and cannot be
// rendered directly.
func New(baseTemplatesGlob string, options ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	loader, err := newBaseLoader(baseTemplatesGlob)
	if err != nil {
		return nil, newError(KindLoading, "", err)
	}

	engine := &Engine{
		set:        pongo2.NewSet("mailtemplate", loader),
		templates:  make(map[string]*pongo2.Template),
		autoescape: cfg.autoescape,
		logger:     cfg.logger,
	}
	if cfg.defaultFilters {
		registerDefaultFilters()
	}
	for name, value := range cfg.globals {
		if name == "" {
			continue
		}
		engine.globals()[name] = value
	}

	names := loader.names()
	for _, name := range names {
		if _, err := engine.set.FromFile(name); err != nil {
			return nil, newError(KindLoading, name, err)
		}
	}
	engine.logger.Debugf("pongo: compiled %d base templates from %q", len(names), baseTemplatesGlob)

	return engine, nil
}

// RegisterFilter exposes fn as `{{ value|name }}`. pongo2 keeps filters in a
// process wide registry, so the filter is visible to every Engine.
func (e *Engine) RegisterFilter(name string, fn pongo2.FilterFunction) {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		e.logger.Errorf("pongo: filter name and function required")
		return
	}
	if err := setFilter(name, fn); err != nil {
		e.logger.Errorf("pongo: register filter %q: %v", name, err)
	}
}

// RegisterTester exposes fn as a boolean filter named name.
func (e *Engine) RegisterTester(name string, fn TesterFunc) {
	if fn == nil {
		e.logger.Errorf("pongo: tester %q requires a function", name)
		return
	}
	e.RegisterFilter(name, testerFilter(fn))
}

// RegisterGlobalFunction makes fn callable from every template as name(...).
func (e *Engine) RegisterGlobalFunction(name string, fn any) {
	name = strings.TrimSpace(name)
	if name == "" || !isCallable(fn) {
		e.logger.Errorf("pongo: global function %q must be a func", name)
		return
	}
	e.globals()[name] = fn
}

// SetAutoescapeFileSuffixes sets the template id suffixes that render with
// HTML autoescaping. An empty list disables autoescaping.
func (e *Engine) SetAutoescapeFileSuffixes(suffixes []string) {
	e.autoescape = normalizeSuffixes(suffixes)
}

func (e *Engine) ProducesValidNewlines() bool {
	return ProducesValidNewlines
}

// LoadTemplates compiles every sub-template of tpl into the template table in
// order. It fails on the first id that is already present; ids inserted
// before that point stay loaded.
func (e *Engine) LoadTemplates(tpl *spec.TemplateSpec) error {
	if tpl == nil {
		return newError(KindLoading, "", errors.New("template spec is nil"))
	}
	for _, sub := range tpl.SubSpecs() {
		source := sub.Source()
		id := source.ID()
		if _, exists := e.templates[id]; exists {
			return newError(KindIDCollision, id, nil)
		}

		compiled, err := e.compile(source)
		if err != nil {
			return newError(KindLoading, id, err)
		}
		e.templates[id] = compiled
		e.logger.Debugf("pongo: loaded template %q", id)
	}
	return nil
}

func (e *Engine) compile(source spec.Source) (*pongo2.Template, error) {
	if path, ok := source.Path(); ok {
		// Absolute paths never match a base template name.
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		return e.set.FromFile(abs)
	}
	if content, ok := source.Content(); ok {
		return e.set.FromString(content)
	}
	return nil, fmt.Errorf("source %q has neither path nor content", source.ID())
}

// UnloadTemplates drops every sub-template id of tpl from the table.
func (e *Engine) UnloadTemplates(tpl *spec.TemplateSpec) {
	if tpl == nil {
		return
	}
	for _, sub := range tpl.SubSpecs() {
		id := sub.Source().ID()
		if _, ok := e.templates[id]; !ok {
			continue
		}
		delete(e.templates, id)
		e.logger.Debugf("pongo: unloaded template %q", id)
	}
}

func (e *Engine) UnknownTemplateIDError(id string) error {
	return UnknownTemplateIDError(id)
}

// HasTemplate reports whether id is in the template table.
func (e *Engine) HasTemplate(id string) bool {
	_, ok := e.templates[id]
	return ok
}

// Render executes the sub-template against {data, cids}. The output is
// returned as produced by pongo2.
//
// pongo2's autoescape switch is process wide and has no getter. Render flips
// it for the id being executed and leaves it at pongo2's default (on)
// afterwards, overriding any SetAutoescape(false) made by the application.
func (e *Engine) Render(sub spec.SubTemplateSpec, data any, cids template.AdditionalCIDs) (string, error) {
	id := sub.Source().ID()
	tmpl, ok := e.templates[id]
	if !ok {
		return "", e.UnknownTemplateIDError(id)
	}

	ctx, err := envelope{Data: data, CIDs: cids}.context()
	if err != nil {
		return "", newError(KindRender, id, fmt.Errorf("convert data: %w", err))
	}

	out, err := e.execute(id, tmpl, ctx)
	if err != nil {
		return "", newError(KindRender, id, err)
	}
	return out, nil
}

func (e *Engine) execute(id string, tmpl *pongo2.Template, ctx pongo2.Context) (string, error) {
	autoescapeMu.Lock()
	defer autoescapeMu.Unlock()

	pongo2.SetAutoescape(e.autoescapes(id))
	defer pongo2.SetAutoescape(true)

	return tmpl.Execute(ctx)
}

func (e *Engine) autoescapes(id string) bool {
	for _, suffix := range e.autoescape {
		if strings.HasSuffix(id, suffix) {
			return true
		}
	}
	return false
}

func (e *Engine) globals() pongo2.Context {
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	return e.set.Globals
}
