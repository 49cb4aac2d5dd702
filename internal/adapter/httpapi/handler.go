package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"rym2spotify/internal/application/port/input"
	"rym2spotify/internal/application/port/output"
	"rym2spotify/internal/domain/entity"
)

const (
	maxBodyBytes   = 1 << 20
	startedMessage = "Scraping task started."
)

type Handler struct {
	svc    input.ScrapeService
	logger output.LoggerPort
}

func NewHandler(svc input.ScrapeService, logger output.LoggerPort) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type startRequest struct {
	URL          *string `json:"url"`
	ScrapeAlbums bool    `json:"scrape_albums"`
}

type startResponse struct {
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// StartScraping registers a task and returns before any page is fetched.
func (h *Handler) StartScraping(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("malformed request body: %v", err))
		return
	}

	if req.URL == nil {
		writeError(w, http.StatusUnprocessableEntity, "field required: url")
		return
	}
	rawURL := strings.TrimSpace(*req.URL)
	if err := validateHTTPURL(rawURL); err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid url: %v", err))
		return
	}

	id, err := h.svc.Submit(r.Context(), entity.Job{URL: rawURL, ResolveAlbums: req.ScrapeAlbums})
	if err != nil {
		h.logger.Error("Submit failed", "url", rawURL, "error", err)
		writeError(w, http.StatusInternalServerError, "could not start task")
		return
	}

	writeJSON(w, http.StatusAccepted, startResponse{TaskID: id, Message: startedMessage})
}

func (h *Handler) TaskStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "task_id")

	task, err := h.svc.Status(r.Context(), id)
	if errors.Is(err, entity.ErrTaskNotFound) {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		h.logger.Error("Status lookup failed", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func validateHTTPURL(raw string) error {
	if raw == "" {
		return errors.New("empty")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
