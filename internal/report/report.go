// Package report renders a human-readable summary of a screen export.
package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/figport/internal/screens"
	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// File names written next to the exported screens.
const (
	MarkdownFile = "report.md"
	HTMLFile     = "report.html"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "#", `\#`,
)

// Markdown summarizes the exported screens grouped by canvas, in index order.
func Markdown(title string, index []screens.Screen) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", mdEscaper.Replace(title))

	var canvases []string
	byCanvas := make(map[string][]screens.Screen)
	for _, s := range index {
		if _, ok := byCanvas[s.CanvasID]; !ok {
			canvases = append(canvases, s.CanvasID)
		}
		byCanvas[s.CanvasID] = append(byCanvas[s.CanvasID], s)
	}
	fmt.Fprintf(&b, "%d screen(s) exported from %d canvas(es).\n", len(index), len(canvases))

	for _, id := range canvases {
		group := byCanvas[id]
		fmt.Fprintf(&b, "\n## %s\n\n", mdEscaper.Replace(group[0].CanvasName))
		b.WriteString("| Screen | Type | Node | File |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		for _, s := range group {
			name := s.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | [%s.json](%s.json) |\n",
				mdEscaper.Replace(name), mdEscaper.Replace(s.Type), mdEscaper.Replace(s.ID), s.Slug, s.Slug)
		}
	}
	return b.String()
}

// HTML converts md and wraps it in a standalone page.
func HTML(title, md string) ([]byte, error) {
	var body bytes.Buffer
	gm := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := gm.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	bodyEl := element(atom.Body)
	fragment, err := html.ParseFragment(&body, bodyEl)
	if err != nil {
		return nil, fmt.Errorf("parse rendered markdown: %w", err)
	}
	for _, n := range fragment {
		bodyEl.AppendChild(n)
	}

	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	titleEl := element(atom.Title)
	titleEl.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	head := element(atom.Head)
	head.AppendChild(meta)
	head.AppendChild(titleEl)

	root := element(atom.Html)
	root.AppendChild(head)
	root.AppendChild(bodyEl)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	var out bytes.Buffer
	if err := html.Render(&out, doc); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

// Write renders both report files into dir.
func Write(fs afero.Fs, dir, title string, index []screens.Screen) error {
	md := Markdown(title, index)
	page, err := HTML(title, md)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, filepath.Join(dir, MarkdownFile), []byte(md), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", MarkdownFile, err)
	}
	if err := afero.WriteFile(fs, filepath.Join(dir, HTMLFile), page, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", HTMLFile, err)
	}
	return nil
}
