// Package api serves the rhythm commands over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/san-kum/rhythms/internal/bridge"
	"github.com/san-kum/rhythms/internal/dynamo"
	"go.uber.org/zap"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	disp    *bridge.Dispatcher
	logger  *zap.Logger
	origins []string
}

// NewHandler creates a new API handler. A nil origins list allows any origin.
func NewHandler(disp *bridge.Dispatcher, origins []string, logger *zap.Logger) *Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{disp: disp, logger: logger, origins: origins}
}

// Router builds the chi router with all routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.healthCheck)

		// Command routes, one per desktop command
		r.Post("/commands/{command}", h.invoke)

		r.Get("/rhythms", h.listRhythms)
		r.Get("/rhythms/{kind}", h.getRhythm)
		r.Post("/rhythms/{kind}/update", h.updateRhythm)
	})

	return r
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "rhythms": len(h.disp.List())})
}

func (h *Handler) invoke(w http.ResponseWriter, r *http.Request) {
	command := chi.URLParam(r, "command")

	var args bridge.Args
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.disp.Invoke(r.Context(), command, args)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if out == nil {
		h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) listRhythms(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.disp.SampleAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snaps)
}

func (h *Handler) getRhythm(w http.ResponseWriter, r *http.Request) {
	snap, err := h.disp.GetRhythmData(chi.URLParam(r, "kind"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

type updateRequest struct {
	DeltaTime *float64 `json:"delta_time"`
}

func (h *Handler) updateRhythm(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.DeltaTime == nil {
		h.writeError(w, http.StatusBadRequest, "delta_time is required")
		return
	}

	if err := h.disp.UpdateRhythm(chi.URLParam(r, "kind"), *req.DeltaTime); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dynamo.ErrUnknownRhythm), errors.Is(err, bridge.ErrUnknownCommand):
		status = http.StatusNotFound
	case errors.Is(err, dynamo.ErrInvalidDelta), errors.Is(err, bridge.ErrMissingArg):
		status = http.StatusBadRequest
	default:
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
	h.writeError(w, status, bridge.Message(err))
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes v before committing the status, so an unencodable body
// turns into a 500 instead of an empty 200.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encode response", zap.Int("status", status), zap.Error(err))
		status = http.StatusInternalServerError
		data, _ = json.Marshal(map[string]string{"error": "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}
