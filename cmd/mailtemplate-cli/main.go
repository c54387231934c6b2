package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-mailtemplate/pkg/render"
	"github.com/goliatone/go-mailtemplate/pkg/render/template"
	"github.com/goliatone/go-mailtemplate/pkg/render/template/pongo"
	"github.com/goliatone/go-mailtemplate/pkg/spec"
)

func main() {
	base := flag.String("base", "", "glob of shared base templates (layouts, partials)")
	specPath := flag.String("spec", "", "template directory or JSON/YAML manifest")
	id := flag.String("id", "", "sub-template id to render (all when empty)")
	pick := flag.Bool("pick", false, "choose the sub-template interactively")
	dataPath := flag.String("data", "", "JSON file with template data")
	cidsFlag := flag.String("cids", "", "comma separated content ids of inline attachments")
	engineName := flag.String("engine", "pongo", "render engine to use")
	output := flag.String("output", "", "output file (stdout if empty)")
	verbose := flag.Bool("v", false, "log template loading")
	flag.Parse()

	if strings.TrimSpace(*specPath) == "" {
		log.Fatalf("-spec is required")
	}

	var logger pongo.Logger = pongo.NopLogger{}
	if *verbose {
		logger = stdLogger{}
	}

	engine, err := pongo.New(*base, pongo.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	registry := render.NewRegistry()
	registry.MustRegister("pongo", engine)

	selected, err := registry.Get(*engineName)
	if err != nil {
		log.Fatalf("%v (available: %s)", err, strings.Join(registry.List(), ", "))
	}

	tpl, err := loadSpec(*specPath)
	if err != nil {
		log.Fatalf("Failed to load spec: %v", err)
	}
	if err := selected.LoadTemplates(tpl); err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	data, err := readData(*dataPath)
	if err != nil {
		log.Fatalf("Failed to read data: %v", err)
	}
	cids := parseCIDs(*cidsFlag)

	targetID := strings.TrimSpace(*id)
	if *pick {
		targetID, err = pickSubTemplate(tpl)
		if err != nil {
			log.Fatalf("Failed to pick template: %v", err)
		}
	}

	var out string
	if targetID == "" {
		bodies, err := render.RenderAll(selected, tpl, data, cids)
		if err != nil {
			log.Fatalf("Failed to render: %v", err)
		}
		out = formatBodies(bodies)
	} else {
		out, err = renderOne(selected, tpl, targetID, data, cids)
		if err != nil {
			log.Fatalf("Failed to render: %v", err)
		}
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(out), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Mail written to %s\n", *output)
		return
	}
	fmt.Print(out)
}

func loadSpec(path string) (*spec.TemplateSpec, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return spec.FromDir(path)
	}
	return spec.LoadManifest(path)
}

func readData(path string) (any, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return data, nil
}

func parseCIDs(raw string) template.AdditionalCIDs {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return template.AdditionalCIDs(strings.Split(raw, ",")).Normalize()
}

func renderOne(engine template.Engine, tpl *spec.TemplateSpec, id string, data any, cids template.AdditionalCIDs) (string, error) {
	for _, sub := range tpl.SubSpecs() {
		if sub.Source().ID() != id {
			continue
		}
		out, err := engine.Render(sub, data, cids)
		if err != nil {
			return "", err
		}
		if !engine.ProducesValidNewlines() {
			out = render.FixNewlines(out)
		}
		return out, nil
	}
	return "", engine.UnknownTemplateIDError(id)
}

func formatBodies(bodies []render.Body) string {
	var b strings.Builder
	for _, body := range bodies {
		fmt.Fprintf(&b, "--- %s (%s; charset=%s)\r\n", body.ID, body.MediaType, body.Charset)
		b.WriteString(body.Content)
		if !strings.HasSuffix(body.Content, "\r\n") {
			b.WriteString("\r\n")
		}
	}
	return b.String()
}

type stdLogger struct{}

func (stdLogger) Debugf(format string, args ...any) { log.Printf("DEBUG "+format, args...) }
func (stdLogger) Infof(format string, args ...any)  { log.Printf("INFO "+format, args...) }
func (stdLogger) Errorf(format string, args ...any) { log.Printf("ERROR "+format, args...) }
