package figma

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

const sampleDoc = `{
  "name": "Vitrine",
  "document": {
    "id": "0:0", "name": "Document", "type": "DOCUMENT",
    "children": [
      {"id": "1:0", "name": "Telas", "type": "CANVAS", "children": [
        {"id": "1:1", "name": "Preços Promoção", "type": "FRAME", "absoluteRenderBounds": {"x": 1}},
        {"id": "1:2", "type": "INSTANCE"},
        42,
        "not a node"
      ]},
      {"id": "2:0", "name": "Notes", "type": "CANVAS"}
    ]
  }
}`

func TestParse_BuildsTree(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Root.Type != "DOCUMENT" {
		t.Errorf("expected root type %q, got %q", "DOCUMENT", doc.Root.Type)
	}
	if len(doc.Root.Children) != 2 {
		t.Fatalf("expected 2 canvases, got %d", len(doc.Root.Children))
	}

	page := doc.Root.Children[0]
	// Scalars in children are dropped.
	if len(page.Children) != 2 {
		t.Fatalf("expected 2 screens, got %d", len(page.Children))
	}
	if page.Children[0].Name != "Preços Promoção" {
		t.Errorf("expected %q, got %q", "Preços Promoção", page.Children[0].Name)
	}
	if page.Children[1].Name != "" {
		t.Errorf("expected empty name for unnamed node, got %q", page.Children[1].Name)
	}
	if page.Children[0].Raw == nil || page.Children[0].Raw.Get("absoluteRenderBounds") == nil {
		t.Error("expected raw value to keep every source field")
	}

	if doc.Root.Children[1].Children != nil {
		t.Errorf("expected no children for a node without a children key")
	}
}

func TestParse_MissingDocument(t *testing.T) {
	doc, err := Parse(strings.NewReader(`{"name": "x"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Root == nil {
		t.Fatal("expected empty root node")
	}
	if len(doc.Canvases()) != 0 {
		t.Errorf("expected no canvases, got %d", len(doc.Canvases()))
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []string{
		``,
		`{"document": `,
		`{"document": {"children": [}}`,
	}
	for _, in := range tests {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("input %q: expected parse error", in)
		}
	}
}

func TestParse_NonStringFields(t *testing.T) {
	doc, err := Parse(strings.NewReader(`{"document": {"id": 5, "name": null, "type": ["FRAME"]}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Root.ID != "" || doc.Root.Name != "" || doc.Root.Type != "" {
		t.Errorf("expected empty fields, got id=%q name=%q type=%q", doc.Root.ID, doc.Root.Name, doc.Root.Type)
	}
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/in/figma.json", []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(fs, "/in/figma.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Canvases()) != 2 {
		t.Errorf("expected 2 canvases, got %d", len(doc.Canvases()))
	}

	if _, err := Load(fs, "/in/missing.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
