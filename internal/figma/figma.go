package figma

import (
	"fmt"
	"io"

	"github.com/dgallion1/figport/internal/doctree"
	"github.com/spf13/afero"
	"github.com/valyala/fastjson"
)

// Parse reads a design file export ({"document": {...}}) into a Document.
func Parse(r io.Reader) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return ParseBytes(src)
}

// ParseBytes is Parse for an in-memory document.
func ParseBytes(src []byte) (*doctree.Document, error) {
	v, err := fastjson.ParseBytes(src)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	doc := &doctree.Document{Raw: v}
	root := v.Get("document")
	if root == nil || root.Type() != fastjson.TypeObject {
		// No document: an empty root so walks and canvas lookups see nothing.
		doc.Root = &doctree.Node{}
		return doc, nil
	}
	doc.Root = buildNode(root)
	return doc, nil
}

// Load opens path on fs and parses it.
func Load(fs afero.Fs, path string) (*doctree.Document, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func buildNode(v *fastjson.Value) *doctree.Node {
	n := &doctree.Node{
		ID:   stringField(v, "id"),
		Name: stringField(v, "name"),
		Type: stringField(v, "type"),
		Raw:  v,
	}
	// Non-object entries in children are ignored.
	for _, c := range v.GetArray("children") {
		if c.Type() != fastjson.TypeObject {
			continue
		}
		n.Children = append(n.Children, buildNode(c))
	}
	return n
}

func stringField(v *fastjson.Value, key string) string {
	return string(v.GetStringBytes(key))
}
