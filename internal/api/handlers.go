package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"moodtunes/internal/mood"
	"moodtunes/internal/video"
)

type videoSearchResponse struct {
	VideoID string `json:"videoId"`
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	ID string `json:"id"`
	mood.Result
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// VideoSearch handles GET /api/video-search?q=.
func (s *Server) VideoSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "Missing query parameter: q")
		return
	}

	id, err := s.resolver.Resolve(r.Context(), q)
	switch {
	case errors.Is(err, video.ErrNotFound):
		writeError(w, http.StatusNotFound, "No video found")
		return
	case err != nil:
		slog.Warn("video search failed", "component", "api", "request_id", middleware.GetReqID(r.Context()), "err", err)
		writeError(w, http.StatusInternalServerError, "Video search failed")
		return
	case id == "":
		writeError(w, http.StatusNotFound, "No video found")
		return
	}
	writeJSON(w, http.StatusOK, videoSearchResponse{VideoID: id})
}

// Analyze handles POST /api/analyze.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	res := s.analyzer.Analyze(r.Context(), req.Text)
	writeJSON(w, http.StatusOK, analyzeResponse{ID: uuid.NewString(), Result: res})
}
