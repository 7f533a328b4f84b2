package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dotcommander/plotarc/internal/curve"
	"github.com/dotcommander/plotarc/internal/lexicon"
	"github.com/dotcommander/plotarc/internal/manuscript"
	"github.com/dotcommander/plotarc/internal/report"
)

type scoreRequest struct {
	Markup     string                 `json:"markup"`
	SceneID    string                 `json:"scene_id,omitempty"`
	Manuscript *manuscript.Manuscript `json:"manuscript,omitempty"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req scoreRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	res, err := s.live.Score(r.Context(), req.Manuscript, req.SceneID, req.Markup)
	if err != nil {
		writeError(w, http.StatusTooManyRequests, "Throttled", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	format := report.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		var err error
		if format, err = report.ParseFormat(q); err != nil {
			writeError(w, http.StatusBadRequest, "BadRequest", err.Error())
			return
		}
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	m, err := manuscript.Parse(body, manuscript.FormatJSON)
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidManuscript", err.Error())
		return
	}

	analysis, err := report.Build(r.Context(), s.builder, m)
	switch {
	case errors.Is(err, curve.ErrEmptyCurve):
		writeError(w, http.StatusUnprocessableEntity, "EmptyCurve", "the manuscript has no scenes; create scenes first")
		return
	case err != nil:
		s.logger.Warn("Curve request failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Cancelled", err.Error())
		return
	}

	if r.URL.Query().Get("save") == "true" && s.archiver != nil {
		dir, err := s.archiver.Save(r.Context(), analysis)
		if err != nil {
			s.logger.Error("Failed to archive analysis", "error", err)
			writeError(w, http.StatusInternalServerError, "ArchiveFailed", err.Error())
			return
		}
		w.Header().Set("X-Plotarc-Session", dir)
	}

	switch format {
	case report.FormatJSON:
		writeJSON(w, http.StatusOK, analysis)
	default:
		contentType := "text/plain; charset=utf-8"
		if format == report.FormatYAML {
			contentType = "application/yaml"
		}
		w.Header().Set("Content-Type", contentType)
		if err := report.Render(w, analysis, format); err != nil {
			s.logger.Error("Failed to render analysis", "format", format, "error", err)
		}
	}
}

func (s *Server) handleLexicon(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.lexicon.Snapshot().Lists())
}

type addWordRequest struct {
	Category string `json:"category"`
	Word     string `json:"word"`
}

func (s *Server) handleAddWord(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req addWordRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	writeOp(w, s.lexicon.AddWord(r.Context(), req.Category, req.Word))
}

// handleRemoveWord serves DELETE /v1/lexicon/words/{category}/{index}
func (s *Server) handleRemoveWord(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodDelete) {
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/lexicon/words/"), "/"), "/")
	if len(parts) != 2 {
		writeError(w, http.StatusNotFound, "NotFound", "expected /v1/lexicon/words/{category}/{index}")
		return
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil {
		writeError(w, http.StatusBadRequest, "BadRequest", "index must be an integer")
		return
	}
	writeOp(w, s.lexicon.RemoveWord(r.Context(), parts[0], index))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	writeOp(w, s.lexicon.ResetToDefault(r.Context()))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	text, _ := s.lexicon.ExportLexicon()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="lexicon.txt"`)
	_, _ = io.WriteString(w, text)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	writeOp(w, s.lexicon.ImportLexicon(r.Context(), string(body)))
}

type sessionsResponse struct {
	Sessions []string `json:"sessions"`
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) || !s.requireArchiver(w) {
		return
	}
	names, err := s.archiver.Sessions(r.Context())
	if err != nil {
		s.logger.Error("Failed to list sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "ArchiveFailed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessionsResponse{Sessions: names})
}

// handleRemoveSession serves DELETE /v1/sessions/{name}
func (s *Server) handleRemoveSession(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodDelete) || !s.requireArchiver(w) {
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	err := s.archiver.Remove(r.Context(), name)
	switch {
	case errors.Is(err, report.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "NotFound", err.Error())
	case err != nil:
		s.logger.Error("Failed to remove session", "session", name, "error", err)
		writeError(w, http.StatusInternalServerError, "ArchiveFailed", err.Error())
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) requireArchiver(w http.ResponseWriter) bool {
	if s.archiver == nil {
		writeError(w, http.StatusNotFound, "NotFound", "session archive is not enabled")
		return false
	}
	return true
}

// writeOp maps an edit outcome to a status code
func writeOp(w http.ResponseWriter, res lexicon.OpResult) {
	status := http.StatusOK
	switch {
	case res.Success:
	case errors.Is(res.Err, lexicon.ErrDuplicateWord):
		status = http.StatusConflict
	case errors.Is(res.Err, lexicon.ErrUnknownCategory),
		errors.Is(res.Err, lexicon.ErrEmptyWord),
		errors.Is(res.Err, lexicon.ErrInvalidWord),
		errors.Is(res.Err, lexicon.ErrIndexOutOfRange),
		errors.Is(res.Err, lexicon.ErrMalformedExport):
		status = http.StatusBadRequest
	default:
		// persistence failed; the edit was rolled back
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res)
}
