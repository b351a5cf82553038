// Package screens splits the children of every CANVAS into standalone JSON
// files and writes an index describing them.
package screens

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/dgallion1/figport/internal/doctree"
	"github.com/dgallion1/figport/internal/jsonstrip"
	"github.com/dgallion1/figport/internal/slug"
	"github.com/fatih/color"
	"github.com/spf13/afero"
)

// IndexFile is the name of the summary written next to the screen files.
const IndexFile = "index.json"

// DefaultSkipPattern matches "ui kit" spellings such as "UI-Kit", "ui_kit" and "uikit".
const DefaultSkipPattern = `(?i)\bui\s*[-_ ]?kit\b`

// ErrNoCanvas is returned when document.children holds no CANVAS node.
var ErrNoCanvas = errors.New("no CANVAS found in document.children[]")

// Config controls which canvas children are exported and how.
type Config struct {
	Types      []string       // Exportable node types; empty exports any type
	SkipName   *regexp.Regexp // Names matching this are skipped; nil disables
	StripHeavy bool           // Remove jsonstrip.HeavyKeys before writing
	Fallback   string         // Slug used when a name normalizes to nothing
}

// DefaultConfig returns the screen export defaults.
func DefaultConfig() Config {
	return Config{
		Types: []string{
			doctree.TypeFrame,
			doctree.TypeComponent,
			doctree.TypeInstance,
			doctree.TypeSection,
		},
		SkipName:   regexp.MustCompile(DefaultSkipPattern),
		StripHeavy: true,
		Fallback:   slug.FallbackScreen,
	}
}

// Screen is one entry of the export index.
type Screen struct {
	CanvasName string `json:"canvas_name"`
	CanvasID   string `json:"canvas_id"`
	Name       string `json:"name"`
	ID         string `json:"id"`
	Type       string `json:"type"`
	Slug       string `json:"slug"`
	File       string `json:"file"`
}

// ParseTypes splits a comma-separated type list, trimming and uppercasing each entry.
func ParseTypes(list string) []string {
	var types []string
	for _, t := range strings.Split(list, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			types = append(types, t)
		}
	}
	return types
}

// CompileSkipPattern compiles expr as a case-insensitive pattern. An empty
// expression disables skipping and returns nil.
func CompileSkipPattern(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, nil
	}
	if !strings.HasPrefix(expr, "(?i)") {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid skip-name pattern: %w", err)
	}
	return re, nil
}

// Eligible reports whether a canvas child should be exported.
func (c Config) Eligible(n *doctree.Node) bool {
	if len(c.Types) > 0 && !slices.Contains(c.Types, n.Type) {
		return false
	}
	if c.SkipName != nil && n.Name != "" && c.SkipName.MatchString(n.Name) {
		return false
	}
	return true
}

// SlugFor returns the file slug of n. Unnamed nodes use "<TYPE>-<id>".
func (c Config) SlugFor(n *doctree.Node) string {
	src := n.Name
	if src == "" {
		src = n.Type + "-" + strings.ReplaceAll(n.ID, ":", "_")
	}
	return slug.Make(src, c.Fallback)
}

// Export writes every eligible canvas child of doc to outDir as <slug>.json,
// then writes the index. One progress line per screen goes to progress.
// Nothing is written when the document has no canvas.
func Export(fs afero.Fs, doc *doctree.Document, outDir string, cfg Config, progress io.Writer, log *slog.Logger) ([]Screen, error) {
	canvases := doc.Canvases()
	if len(canvases) == 0 {
		return nil, ErrNoCanvas
	}
	if err := fs.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	check := color.New(color.FgGreen).Sprint("✔")
	index := make([]Screen, 0)
	written := make(map[string]string)

	for _, canvas := range canvases {
		for _, n := range canvas.Children {
			if !cfg.Eligible(n) {
				log.Debug("skipping node", "canvas", canvas.Name, "name", n.Name, "type", n.Type)
				continue
			}

			s := cfg.SlugFor(n)
			path := filepath.Join(outDir, s+".json")
			if prev, ok := written[s]; ok {
				log.Warn("slug collision, overwriting", "slug", s, "previous_id", prev, "id", n.ID)
			}

			if err := writeNode(fs, path, n, cfg.StripHeavy); err != nil {
				return index, err
			}
			written[s] = n.ID

			index = append(index, Screen{
				CanvasName: canvas.Name,
				CanvasID:   canvas.ID,
				Name:       n.Name,
				ID:         n.ID,
				Type:       n.Type,
				Slug:       s,
				File:       path,
			})
			fmt.Fprintf(progress, "%s %s › %s (%s) → %s\n", check, canvas.Name, n.Name, n.Type, path)
		}
	}

	if err := WriteIndex(fs, filepath.Join(outDir, IndexFile), index); err != nil {
		return index, err
	}
	return index, nil
}

func writeNode(fs afero.Fs, path string, n *doctree.Node, stripHeavy bool) error {
	if n.Raw == nil {
		return fmt.Errorf("node %s has no source value", n.ID)
	}
	obj, err := jsonstrip.Clone(n.Raw)
	if err != nil {
		return fmt.Errorf("copy node %s: %w", n.ID, err)
	}
	if stripHeavy {
		jsonstrip.Strip(obj, jsonstrip.HeavyKeys...)
	}
	data, err := jsonstrip.Indent(obj)
	if err != nil {
		return fmt.Errorf("render node %s: %w", n.ID, err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteIndex writes screens as an indented JSON array.
func WriteIndex(fs afero.Fs, path string, screens []Screen) error {
	if screens == nil {
		screens = []Screen{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(screens); err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadIndex loads an index written by WriteIndex.
func ReadIndex(fs afero.Fs, path string) ([]Screen, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	var screens []Screen
	if err := json.Unmarshal(data, &screens); err != nil {
		return nil, fmt.Errorf("parse index %s: %w", path, err)
	}
	return screens, nil
}
