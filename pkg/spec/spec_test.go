package spec_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mailtemplate/pkg/spec"
)

func TestSourceFromFile_UsesSlashPathAsID(t *testing.T) {
	src := spec.SourceFromFile(filepath.Join("mails", "welcome", "mail.html"))

	if got := src.ID(); got != "mails/welcome/mail.html" {
		t.Fatalf("unexpected id %q", got)
	}
	if src.Kind() != spec.SourceKindFile {
		t.Fatalf("expected file kind, got %s", src.Kind())
	}
	if _, ok := src.Content(); ok {
		t.Fatalf("file source must not expose content")
	}
}

func TestSourceFromContent(t *testing.T) {
	src := spec.SourceFromContent(" greeting.txt ", "Hello")

	if src.ID() != "greeting.txt" {
		t.Fatalf("expected trimmed id, got %q", src.ID())
	}
	content, ok := src.Content()
	if !ok || content != "Hello" {
		t.Fatalf("content mismatch: %q (ok=%v)", content, ok)
	}
	if _, ok := src.Path(); ok {
		t.Fatalf("content source must not expose a path")
	}
}

func TestNewSubTemplateSpec_DerivesMediaType(t *testing.T) {
	sub, err := spec.NewSubTemplateSpec(spec.SourceFromContent("mail.html", "<p></p>"), "", "")
	if err != nil {
		t.Fatalf("new sub spec: %v", err)
	}
	if sub.MediaType() != spec.MediaTypeHTML {
		t.Fatalf("expected text/html, got %s", sub.MediaType())
	}
	if sub.Charset() != "utf-8" {
		t.Fatalf("expected default charset, got %s", sub.Charset())
	}

	if _, err := spec.NewSubTemplateSpec(spec.SourceFromContent("mail.bin", ""), "", ""); err == nil {
		t.Fatalf("expected error for unknown suffix without media type")
	}
}

func TestNew_RequiresSubSpecs(t *testing.T) {
	if _, err := spec.New("dir"); !errors.Is(err, spec.ErrNoSubSpecs) {
		t.Fatalf("expected ErrNoSubSpecs, got %v", err)
	}
}

func TestFromDir_OrdersPlainBeforeHTML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.html"), "<b>{{ data.name }}</b>")
	writeFile(t, filepath.Join(dir, "a.html"), "<a></a>")
	writeFile(t, filepath.Join(dir, "mail.txt"), "Hi")
	writeFile(t, filepath.Join(dir, "notes.md"), "ignored")

	tpl, err := spec.FromDir(dir)
	if err != nil {
		t.Fatalf("from dir: %v", err)
	}

	var got []string
	for _, sub := range tpl.SubSpecs() {
		got = append(got, filepath.Base(sub.Source().ID()))
	}
	want := []string{"mail.txt", "a.html", "b.html"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseManifest_YAML(t *testing.T) {
	payload := []byte(`
templates:
  - path: mail.txt
  - id: mail.html
    content: "<p>{{ data.name }}</p>"
    charset: iso-8859-1
`)

	tpl, err := spec.ParseManifest(payload, "inline.yaml", "mails")
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}

	subs := tpl.SubSpecs()
	if len(subs) != 2 {
		t.Fatalf("expected 2 sub specs, got %d", len(subs))
	}
	path, ok := subs[0].Source().Path()
	if !ok || path != filepath.Join("mails", "mail.txt") {
		t.Fatalf("path mismatch: %q", path)
	}
	if subs[0].MediaType() != spec.MediaTypePlain {
		t.Fatalf("media type mismatch: %s", subs[0].MediaType())
	}
	if subs[1].Source().ID() != "mail.html" || subs[1].Charset() != "iso-8859-1" {
		t.Fatalf("inline entry mismatch: %#v", subs[1])
	}
}

func TestParseManifest_JSON(t *testing.T) {
	payload := []byte(`{"templates":[{"id":"a.txt","content":"A"}]}`)

	tpl, err := spec.ParseManifest(payload, "inline.json", "")
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if got := tpl.SubSpecs()[0].Source().ID(); got != "a.txt" {
		t.Fatalf("unexpected id %q", got)
	}
}

func TestParseManifest_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":          "  ",
		"no templates":   "templates: []",
		"path+content":   "templates:\n  - path: a.txt\n    content: x\n",
		"missing id":     "templates:\n  - content: x\n",
		"malformed yaml": "templates: [",
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := spec.ParseManifest([]byte(payload), name, ""); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadManifest_ResolvesAgainstManifestDir(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "welcome.yaml")
	writeFile(t, manifest, "templates:\n  - path: mail.txt\n")

	tpl, err := spec.LoadManifest(manifest)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	path, _ := tpl.SubSpecs()[0].Source().Path()
	if path != filepath.Join(dir, "mail.txt") {
		t.Fatalf("unexpected path %q", path)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
