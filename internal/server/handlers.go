package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stateful/launchpad/pkg/document"
	"github.com/stateful/launchpad/pkg/session"
)

type stateResponse struct {
	Session  string           `json:"session"`
	Blocks   []document.Block `json:"blocks"`
	Selected int              `json:"selected,omitempty"`
	CanUndo  bool             `json:"canUndo"`
	CanRedo  bool             `json:"canRedo"`
	Changed  bool             `json:"changed"`
	Canvas   string           `json:"canvas"`
}

type kindResponse struct {
	Kind   string          `json:"kind"`
	Label  string          `json:"label"`
	Fields []fieldResponse `json:"fields"`
}

type fieldResponse struct {
	Name    string `json:"name"`
	Default string `json:"default"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Info("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// state must be called with s.mu held.
func (s *Server) state(changed bool) stateResponse {
	blocks := make([]document.Block, 0, s.session.Len())
	for b := range s.session.Blocks() {
		blocks = append(blocks, b)
	}
	selected, _ := s.session.Selected()

	return stateResponse{
		Session:  s.session.ID,
		Blocks:   blocks,
		Selected: selected,
		CanUndo:  s.session.CanUndo(),
		CanRedo:  s.session.CanRedo(),
		Changed:  changed,
		Canvas:   s.session.EditableMarkup(),
	}
}

// intent runs fn under the session lock and answers with the resulting state.
func (s *Server) intent(w http.ResponseWriter, fn func() bool) {
	s.mu.Lock()
	changed := fn()
	state := s.state(changed)
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, state)
}

func blockID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid block id %q", raw)
	}
	return id, nil
}

func (s *Server) handleEditor(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	page, err := renderEditor(s.session.Registry(), s.session.EditableMarkup())
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("failed to render editor", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleCanvas(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	markup := s.session.EditableMarkup()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(markup))
}

// page returns the clean page with the export filter applied.
// Preview and export must not diverge.
func (s *Server) page() (session.Artifact, error) {
	if s.exportFilter == nil {
		return s.session.Export(), nil
	}
	return s.session.ExportWhere(s.exportFilter)
}

func (s *Server) markdown() (string, error) {
	if s.exportFilter == nil {
		return s.session.MarkdownMarkup()
	}
	return s.session.MarkdownWhere(s.exportFilter)
}

func (s *Server) handlePreview(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	artifact, err := s.page()
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to render preview", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", artifact.MediaType)
	_, _ = w.Write(artifact.Content)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var (
		name      = s.exportName
		mediaType string
		content   []byte
		err       error
	)

	s.mu.Lock()
	switch format := r.URL.Query().Get("format"); format {
	case "", "html":
		artifact, exportErr := s.page()
		mediaType, content, err = artifact.MediaType, artifact.Content, exportErr
	case "markdown":
		var markdown string
		markdown, err = s.markdown()
		name = strings.TrimSuffix(name, path.Ext(name)) + ".md"
		mediaType, content = "text/markdown; charset=utf-8", []byte(markdown)
	default:
		s.mu.Unlock()
		s.writeError(w, http.StatusBadRequest, errors.Errorf("unknown format %q", format))
		return
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to export", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	_, _ = w.Write(content)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.intent(w, func() bool { return false })
}

func (s *Server) handleLoadState(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrap(err, "failed to read state"))
		return
	}
	if _, err := document.ParseSnapshot(data); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.intent(w, func() bool { return s.session.Load(data) })
}

func (s *Server) handleKinds(w http.ResponseWriter, _ *http.Request) {
	registry := s.session.Registry()

	var result []kindResponse
	for _, kind := range registry.Kinds() {
		tmpl, err := registry.Resolve(kind)
		if err != nil {
			continue
		}
		item := kindResponse{Kind: kind, Label: tmpl.Label()}
		for _, f := range tmpl.Fields() {
			item.Fields = append(item.Fields, fieldResponse{Name: f.Name, Default: f.Default})
		}
		result = append(result, item)
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAddBlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Kind == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid body: expected {\"kind\": string}"))
		return
	}

	s.intent(w, func() bool {
		_, ok := s.session.AddBlock(req.Kind)
		return ok
	})
}

func (s *Server) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	id, err := blockID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	field := chi.URLParam(r, "field")

	var req struct {
		Value *string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid body: expected {\"value\": string}"))
		return
	}

	s.intent(w, func() bool { return s.session.UpdateField(id, field, *req.Value) })
}

func (s *Server) handleRemoveBlock(w http.ResponseWriter, r *http.Request) {
	id, err := blockID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.intent(w, func() bool { return s.session.RemoveBlock(id) })
}

func (s *Server) handleSelectBlock(w http.ResponseWriter, r *http.Request) {
	id, err := blockID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.intent(w, func() bool { return s.session.Select(id) })
}

func (s *Server) handleClear(w http.ResponseWriter, _ *http.Request) {
	s.intent(w, func() bool {
		s.session.Clear()
		return true
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, _ *http.Request) {
	s.intent(w, s.session.Undo)
}

func (s *Server) handleRedo(w http.ResponseWriter, _ *http.Request) {
	s.intent(w, s.session.Redo)
}

func (s *Server) handleLoadPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.intent(w, func() bool { return s.session.LoadTemplate(name) })
}
