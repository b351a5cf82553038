package api

import (
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/figport/internal/pipeline"
	"github.com/dgallion1/figport/internal/report"
	"github.com/dgallion1/figport/internal/screens"
	"github.com/dgallion1/figport/internal/slug"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
)

type exportResponse struct {
	pipeline.JobSnapshot
	Index []screens.Screen `json:"index"`
}

func newExportResponse(job *pipeline.Job) exportResponse {
	index := job.Index()
	if index == nil {
		index = []screens.Screen{}
	}
	return exportResponse{JobSnapshot: job.Snapshot(), Index: index}
}

// screenConfig overlays query parameters on the server defaults.
func (s *Server) screenConfig(r *http.Request) (screens.Config, error) {
	cfg := s.screens
	q := r.URL.Query()
	if q.Has("types") {
		// An empty list exports any type.
		cfg.Types = screens.ParseTypes(q.Get("types"))
	}
	if q.Has("skip_name_regex") {
		re, err := screens.CompileSkipPattern(q.Get("skip_name_regex"))
		if err != nil {
			return cfg, err
		}
		cfg.SkipName = re
	}
	if v := q.Get("no_strip_heavy"); v != "" {
		noStrip, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.New("no_strip_heavy must be a boolean")
		}
		cfg.StripHeavy = !noStrip
	}
	return cfg, nil
}

func (s *Server) handleExportScreens(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.screenConfig(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, filename, err := s.readDocument(w, r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	title := r.URL.Query().Get("title")
	if title == "" && filename != "" {
		title = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	job, err := s.exporter.Export(data, title, cfg)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, newExportResponse(job))
	case errors.Is(err, screens.ErrNoCanvas):
		writeJSON(w, http.StatusUnprocessableEntity, newExportResponse(job))
	case job.Snapshot().Phase == "parsing":
		writeJSON(w, http.StatusBadRequest, newExportResponse(job))
	default:
		writeJSON(w, http.StatusInternalServerError, newExportResponse(job))
	}
}

// lookupJob resolves the {exportID} URL parameter, writing an error response
// when it does not name a known export.
func (s *Server) lookupJob(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	id := chi.URLParam(r, "exportID")
	if !pipeline.ValidID(id) {
		jsonError(w, "invalid export id", http.StatusBadRequest)
		return nil
	}
	job := s.exporter.GetJob(id)
	if job == nil {
		jsonError(w, "export not found", http.StatusNotFound)
		return nil
	}
	return job
}

func (s *Server) handleGetExport(w http.ResponseWriter, r *http.Request) {
	job := s.lookupJob(w, r)
	if job == nil {
		return
	}
	writeJSON(w, http.StatusOK, newExportResponse(job))
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	job := s.lookupJob(w, r)
	if job == nil {
		return
	}
	if job.Snapshot().Status != pipeline.StatusCompleted {
		jsonError(w, "export has no report", http.StatusConflict)
		return
	}
	s.serveFile(w, filepath.Join(job.Dir, report.HTMLFile), "text/html; charset=utf-8")
}

func (s *Server) handleExportFile(w http.ResponseWriter, r *http.Request) {
	job := s.lookupJob(w, r)
	if job == nil {
		return
	}
	name := strings.TrimSuffix(chi.URLParam(r, "slug"), ".json")
	if name == "" || slug.Make(name, "") != name {
		jsonError(w, "invalid slug", http.StatusBadRequest)
		return
	}
	s.serveFile(w, filepath.Join(job.Dir, name+".json"), "application/json")
}

func (s *Server) serveFile(w http.ResponseWriter, name, contentType string) {
	data, err := afero.ReadFile(s.exporter.FS(), name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			jsonError(w, "file not found", http.StatusNotFound)
			return
		}
		s.log.Error("read export file", "path", name, "error", err)
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
