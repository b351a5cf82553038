// Package routemap derives an application route table from a design document.
package routemap

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/dgallion1/figport/internal/doctree"
	"github.com/dgallion1/figport/internal/figma"
	"github.com/dgallion1/figport/internal/slug"
	"github.com/spf13/afero"
)

// Header is the first CSV row.
var Header = []string{"route", "frame_name", "node_id", "requires_auth"}

// Config selects which nodes become routes.
type Config struct {
	Types        []string // Node types eligible for a route
	ExcludeNames []string // Lowercase names never routed
	HomePrefix   string   // Lowercase prefix mapped to "/"
	Fallback     string   // Slug used when a name normalizes to nothing
}

// DefaultConfig returns the route map defaults.
func DefaultConfig() Config {
	return Config{
		Types:        []string{doctree.TypeFrame, doctree.TypeComponent, doctree.TypeComponentSet},
		ExcludeNames: []string{"grid", "ui-kit", "tokens"},
		HomePrefix:   "home",
		Fallback:     slug.FallbackRoute,
	}
}

// Record is one row of the route map.
type Record struct {
	Route        string
	FrameName    string
	NodeID       string
	RequiresAuth bool
}

// Row renders the record as CSV fields.
func (r Record) Row() []string {
	return []string{r.Route, r.FrameName, r.NodeID, strconv.FormatBool(r.RequiresAuth)}
}

// Collect walks the document in pre-order and returns one record per unique
// eligible frame name, first occurrence wins.
func Collect(doc *doctree.Document, cfg Config) []Record {
	if doc == nil {
		return nil
	}
	seen := make(map[string]bool)
	var records []Record
	for n := range doctree.Walk(doc.Root) {
		if !slices.Contains(cfg.Types, n.Type) || n.Name == "" {
			continue
		}
		lower := strings.ToLower(n.Name)
		if slices.Contains(cfg.ExcludeNames, lower) || seen[n.Name] {
			continue
		}
		seen[n.Name] = true
		records = append(records, Record{
			Route:     Route(n.Name, cfg),
			FrameName: n.Name,
			NodeID:    n.ID,
		})
	}
	return records
}

// Route maps a frame name to its URL path.
func Route(name string, cfg Config) string {
	if cfg.HomePrefix != "" && strings.HasPrefix(strings.ToLower(name), cfg.HomePrefix) {
		return "/"
	}
	return "/" + slug.Make(name, cfg.Fallback)
}

// WriteCSV writes the header and records. Lines end with CRLF.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.NodeID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Run loads in, writes the route map to out and returns the number of routes.
func Run(fs afero.Fs, in, out string, cfg Config, log *slog.Logger) (int, error) {
	doc, err := figma.Load(fs, in)
	if err != nil {
		return 0, err
	}

	records := Collect(doc, cfg)
	log.Debug("collected routes", "input", in, "routes", len(records))

	f, err := fs.Create(out)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", out, err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", out, err)
	}
	return len(records), nil
}
