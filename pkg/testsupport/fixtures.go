package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mailtemplate/pkg/render/template"
	"github.com/goliatone/go-mailtemplate/pkg/spec"
)

// WriteTemplateTree writes files (relative path -> content) below dir and
// returns dir. Parent directories are created as needed.
func WriteTemplateTree(t *testing.T, dir string, files map[string]string) string {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return dir
}

// InlineSub builds a sub-template spec from inline content. Ids without a
// known suffix default to text/plain.
func InlineSub(t *testing.T, id, content string) spec.SubTemplateSpec {
	t.Helper()

	mediaType := ""
	if spec.MediaTypeForName(id) == "" {
		mediaType = spec.MediaTypePlain
	}
	sub, err := spec.NewSubTemplateSpec(spec.SourceFromContent(id, content), mediaType, "")
	if err != nil {
		t.Fatalf("sub spec %q: %v", id, err)
	}
	return sub
}

// FileSub builds a sub-template spec pointing at path.
func FileSub(t *testing.T, path string) spec.SubTemplateSpec {
	t.Helper()

	sub, err := spec.NewSubTemplateSpec(spec.SourceFromFile(path), "", "")
	if err != nil {
		t.Fatalf("sub spec %q: %v", path, err)
	}
	return sub
}

// Spec wraps sub-template specs into a TemplateSpec.
func Spec(t *testing.T, subs ...spec.SubTemplateSpec) *spec.TemplateSpec {
	t.Helper()

	tpl, err := spec.New("", subs...)
	if err != nil {
		t.Fatalf("template spec: %v", err)
	}
	return tpl
}

// MustLoad loads tpl into engine, failing the test on error.
func MustLoad(t *testing.T, engine template.EngineBase, tpl *spec.TemplateSpec) {
	t.Helper()

	if err := engine.LoadTemplates(tpl); err != nil {
		t.Fatalf("load templates: %v", err)
	}
}

// MustRender renders sub, failing the test on error.
func MustRender(t *testing.T, engine template.Engine, sub spec.SubTemplateSpec, data any, cids template.AdditionalCIDs) string {
	t.Helper()

	out, err := engine.Render(sub, data, cids)
	if err != nil {
		t.Fatalf("render %q: %v", sub.Source().ID(), err)
	}
	return out
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}
