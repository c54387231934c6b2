package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mailtemplate/pkg/render"
	"github.com/goliatone/go-mailtemplate/pkg/render/template"
	"github.com/goliatone/go-mailtemplate/pkg/render/template/pongo"
	"github.com/goliatone/go-mailtemplate/pkg/testsupport"
)

func TestParseCIDs(t *testing.T) {
	got := parseCIDs(" logo@acme, ,banner@acme,logo@acme")
	want := template.AdditionalCIDs{"logo@acme", "banner@acme"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cids mismatch (-want +got):\n%s", diff)
	}
	if parseCIDs("") != nil {
		t.Fatalf("empty flag should yield nil")
	}
}

func TestLoadSpecAndRenderOne(t *testing.T) {
	dir := testsupport.WriteTemplateTree(t, t.TempDir(), map[string]string{
		"mail/welcome.txt": "Hi {{ data.name }}\n",
		"data.json":        `{"name": "Ada"}`,
	})

	tpl, err := loadSpec(filepath.Join(dir, "mail"))
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	engine, err := pongo.New("")
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	testsupport.MustLoad(t, engine, tpl)

	data, err := readData(filepath.Join(dir, "data.json"))
	if err != nil {
		t.Fatalf("read data: %v", err)
	}

	id := tpl.SubSpecs()[0].Source().ID()
	out, err := renderOne(engine, tpl, id, data, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hi Ada\r\n" {
		t.Fatalf("unexpected output %q", out)
	}

	if _, err := renderOne(engine, tpl, "missing.txt", data, nil); !errors.Is(err, pongo.ErrUnknownTemplateID) {
		t.Fatalf("expected unknown template id, got %v", err)
	}
}

func TestLoadSpec_Manifest(t *testing.T) {
	dir := testsupport.WriteTemplateTree(t, t.TempDir(), map[string]string{
		"mail.yaml": "templates:\n  - id: a.txt\n    content: A\n  - id: b.html\n    content: B\n",
	})

	tpl, err := loadSpec(filepath.Join(dir, "mail.yaml"))
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	if diff := cmp.Diff([]string{"a.txt", "b.html"}, subTemplateIDs(tpl)); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if _, err := loadSpec(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist error, got %v", err)
	}
}

func TestFormatBodies(t *testing.T) {
	got := formatBodies([]render.Body{
		{ID: "a.txt", MediaType: "text/plain", Charset: "utf-8", Content: "A"},
		{ID: "b.html", MediaType: "text/html", Charset: "utf-8", Content: "B\r\n"},
	})
	want := "--- a.txt (text/plain; charset=utf-8)\r\nA\r\n--- b.html (text/html; charset=utf-8)\r\nB\r\n"
	if got != want {
		t.Fatalf("unexpected output %q", got)
	}
}
