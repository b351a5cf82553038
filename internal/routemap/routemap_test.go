package routemap

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dgallion1/figport/internal/figma"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routesDoc = `{"document": {"id": "0:0", "type": "DOCUMENT", "children": [
  {"id": "1:0", "name": "App", "type": "CANVAS", "children": [
    {"id": "1:1", "name": "Home Screen", "type": "FRAME", "children": [
      {"id": "1:2", "name": "Header", "type": "COMPONENT"}
    ]},
    {"id": "1:3", "name": "Home Screen", "type": "FRAME"},
    {"id": "1:4", "name": "Preços Promoção", "type": "FRAME"},
    {"id": "1:5", "name": "Grid", "type": "FRAME"},
    {"id": "1:6", "name": "UI-Kit", "type": "COMPONENT_SET"},
    {"id": "1:7", "name": "TOKENS", "type": "FRAME"},
    {"id": "1:8", "name": "Badge", "type": "INSTANCE"},
    {"id": "1:9", "name": "", "type": "FRAME"},
    {"id": "1:10", "name": "!!!", "type": "FRAME"},
    {"id": "1:11", "name": "Buttons", "type": "COMPONENT_SET"}
  ]},
  {"id": "2:0", "name": "Extra", "type": "CANVAS", "children": [
    {"id": "2:1", "name": "HomePage", "type": "FRAME"},
    {"id": "2:2", "name": "Login, \"Social\"", "type": "FRAME"}
  ]}
]}}`

func collect(t *testing.T, src string) []Record {
	t.Helper()
	doc, err := figma.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return Collect(doc, DefaultConfig())
}

func TestCollect(t *testing.T) {
	got := collect(t, routesDoc)
	want := []Record{
		{Route: "/", FrameName: "Home Screen", NodeID: "1:1"},
		{Route: "/header", FrameName: "Header", NodeID: "1:2"},
		{Route: "/precos-promocao", FrameName: "Preços Promoção", NodeID: "1:4"},
		{Route: "/pagina", FrameName: "!!!", NodeID: "1:10"},
		{Route: "/buttons", FrameName: "Buttons", NodeID: "1:11"},
		{Route: "/", FrameName: "HomePage", NodeID: "2:1"},
		{Route: "/login-social", FrameName: "Login, \"Social\"", NodeID: "2:2"},
	}
	assert.Equal(t, want, got)
}

func TestCollect_DuplicateNameFirstWins(t *testing.T) {
	got := collect(t, `{"document": {"children": [
		{"id": "a", "name": "Home Screen", "type": "FRAME"},
		{"id": "b", "name": "Home Screen", "type": "FRAME"},
		{"id": "c", "name": "home screen", "type": "FRAME"}
	]}}`)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].NodeID)
	// Dedup is case-sensitive.
	assert.Equal(t, "c", got[1].NodeID)
}

func TestCollect_ExcludedNamesAnyCase(t *testing.T) {
	for _, name := range []string{"Grid", "grid", "GRID", "UI-Kit", "ui-kit", "Tokens", "tOkEnS"} {
		src := `{"document": {"children": [{"id": "x", "name": "` + name + `", "type": "FRAME"}]}}`
		assert.Empty(t, collect(t, src), "name %q", name)
	}
	// Only exact matches are excluded.
	assert.Len(t, collect(t, `{"document": {"children": [{"id": "x", "name": "Grid 2", "type": "FRAME"}]}}`), 1)
}

func TestCollect_RootIsVisited(t *testing.T) {
	got := collect(t, `{"document": {"id": "r", "name": "Root", "type": "FRAME"}}`)
	require.Len(t, got, 1)
	assert.Equal(t, "/root", got[0].Route)
}

func TestCollect_NilDocument(t *testing.T) {
	assert.Nil(t, Collect(nil, DefaultConfig()))
}

func TestRoute(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		want string
	}{
		{"Home", "/"},
		{"HOME logado", "/"},
		{"Homepage", "/"},
		{"Perfil do Atleta", "/perfil-do-atleta"},
		{"My Home", "/my-home"},
		{"???", "/pagina"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Route(tt.name, cfg), "name %q", tt.name)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []Record{
		{Route: "/", FrameName: "Home", NodeID: "1:1"},
		{Route: "/login-social", FrameName: "Login, \"Social\"", NodeID: "2:2"},
	})
	require.NoError(t, err)
	want := "route,frame_name,node_id,requires_auth\r\n" +
		"/,Home,1:1,false\r\n" +
		"/login-social,\"Login, \"\"Social\"\"\",2:2,false\r\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "route,frame_name,node_id,requires_auth\r\n", buf.String())
}

func TestRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/docs/figma.json", []byte(routesDoc), 0o644))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	n, err := Run(fs, "/docs/figma.json", "/docs/routes.csv", DefaultConfig(), log)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	out, err := afero.ReadFile(fs, "/docs/routes.csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(out), "\r\n"), "\r\n")
	assert.Len(t, lines, 8)
	assert.Equal(t, "/,Home Screen,1:1,false", lines[1])
}

func TestRun_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := Run(fs, "/missing.json", "/out.csv", DefaultConfig(), log)
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/bad.json", []byte(`{"document":`), 0o644))
	_, err = Run(fs, "/bad.json", "/out.csv", DefaultConfig(), log)
	assert.Error(t, err)
	exists, _ := afero.Exists(fs, "/out.csv")
	assert.False(t, exists, "no output expected on parse failure")
}
