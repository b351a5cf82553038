package doctree

import (
	"iter"

	"github.com/valyala/fastjson"
)

// Node types the pipelines care about.
const (
	TypeCanvas       = "CANVAS"
	TypeFrame        = "FRAME"
	TypeComponent    = "COMPONENT"
	TypeComponentSet = "COMPONENT_SET"
	TypeInstance     = "INSTANCE"
	TypeSection      = "SECTION"
)

// Document is the root of a parsed design file.
type Document struct {
	Root *Node           // The "document" node
	Raw  *fastjson.Value // Whole top-level value (may be nil)
}

// Node is a recursive element of the design tree.
type Node struct {
	ID       string          // Unique within the document
	Name     string          // Human-readable, may be empty
	Type     string          // FRAME, CANVAS, ...
	Children []*Node         // Declared order
	Raw      *fastjson.Value // Source object, carries every field
}

// Canvases returns the CANVAS nodes directly under the document root.
func (d *Document) Canvases() []*Node {
	if d == nil || d.Root == nil {
		return nil
	}
	var out []*Node
	for _, c := range d.Root.Children {
		if c.Type == TypeCanvas {
			out = append(out, c)
		}
	}
	return out
}

// Walk yields root and every descendant in pre-order.
func Walk(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		var walk func(n *Node) bool
		walk = func(n *Node) bool {
			if !yield(n) {
				return false
			}
			for _, c := range n.Children {
				if c == nil {
					continue
				}
				if !walk(c) {
					return false
				}
			}
			return true
		}
		if root != nil {
			walk(root)
		}
	}
}
