// Package manifest matches exported screens against the routes of a Next.js
// app directory.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/figport/internal/screens"
	"github.com/spf13/afero"
)

// PageFile marks a directory of the app tree as a routable page.
const PageFile = "page.tsx"

// Rules maps screen slugs to suggested routes.
type Rules struct {
	Aliases        map[string]string // Exact slug -> route
	NestedPrefixes []string          // "cadastro-x" -> "/cadastro/x"
	StripSuffixes  []string          // "clubes-grid" -> "/clubes"
	DetailSuffixes []string          // "<singular><suffix>" -> "/<plural>/[id]"
	Plurals        map[string]string // Singular -> plural path segment
}

// DefaultRules returns the rule set used by the Vitrine app.
func DefaultRules() Rules {
	return Rules{
		Aliases: map[string]string{
			"home":             "/",
			"home-logado":      "/",
			"feeds":            "/feed",
			"upload-de-videos": "/upload",
		},
		NestedPrefixes: []string{"cadastro-"},
		StripSuffixes:  []string{"-grid", "-lista"},
		DetailSuffixes: []string{"-detalhe", "-perfil"},
		Plurals: map[string]string{
			"agente":       "agentes",
			"atleta":       "atletas",
			"clube":        "clubes",
			"confederacao": "confederacoes",
			"noticia":      "noticias",
			"game":         "games",
		},
	}
}

// Entry is one line of the route manifest.
type Entry struct {
	Slug            string `json:"slug"`
	SuggestedRoute  string `json:"suggested_route"`
	ExistsInProject bool   `json:"exists_in_project"`
}

// SuggestRoute returns the app route a screen slug most likely belongs to.
func SuggestRoute(slug string, rules Rules) string {
	if r, ok := rules.Aliases[slug]; ok {
		return r
	}
	for _, p := range rules.NestedPrefixes {
		if rest, ok := strings.CutPrefix(slug, p); ok && rest != "" {
			return "/" + strings.TrimSuffix(p, "-") + "/" + rest
		}
	}
	for _, s := range rules.StripSuffixes {
		if base, ok := strings.CutSuffix(slug, s); ok && base != "" {
			return "/" + base
		}
	}
	for _, s := range rules.DetailSuffixes {
		if base, ok := strings.CutSuffix(slug, s); ok {
			if plural, ok := rules.Plurals[base]; ok {
				return "/" + plural + "/[id]"
			}
		}
	}
	return "/" + slug
}

// RouteExists reports whether appDir holds a page for route. Segments match a
// directory of the same name, then a dynamic "[param]" directory, then are
// searched inside "(group)" directories.
func RouteExists(fs afero.Fs, appDir, route string) bool {
	dir := appDir
	if route != "/" {
		for _, seg := range strings.Split(strings.TrimPrefix(route, "/"), "/") {
			next := matchSegment(fs, dir, seg)
			if next == "" {
				return false
			}
			dir = next
		}
	}
	ok, _ := afero.Exists(fs, filepath.Join(dir, PageFile))
	return ok
}

func matchSegment(fs afero.Fs, dir, seg string) string {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.IsDir() && e.Name() == seg {
			return filepath.Join(dir, e.Name())
		}
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "[") {
			return filepath.Join(dir, e.Name())
		}
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "(") {
			if found := matchSegment(fs, filepath.Join(dir, e.Name()), seg); found != "" {
				return found
			}
		}
	}
	return ""
}

// Build lists the screen files in screensDir and suggests a route for each.
func Build(fs afero.Fs, screensDir, appDir string, rules Rules) ([]Entry, error) {
	entries, err := afero.ReadDir(fs, screensDir)
	if err != nil {
		return nil, fmt.Errorf("read screens dir: %w", err)
	}
	var slugs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".json" || name == screens.IndexFile {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(slugs)

	out := make([]Entry, 0, len(slugs))
	for _, s := range slugs {
		route := SuggestRoute(s, rules)
		out = append(out, Entry{
			Slug:            s,
			SuggestedRoute:  route,
			ExistsInProject: RouteExists(fs, appDir, route),
		})
	}
	return out, nil
}

// Write stores entries as indented JSON, creating the parent directory.
func Write(fs afero.Fs, outPath string, entries []Entry) error {
	if err := fs.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := afero.WriteFile(fs, outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}
