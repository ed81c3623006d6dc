package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ashureev/sproc-lineage/internal/catalog"
	"github.com/ashureev/sproc-lineage/internal/domain"
	"github.com/ashureev/sproc-lineage/internal/history"
	"github.com/ashureev/sproc-lineage/internal/identity"
	"github.com/ashureev/sproc-lineage/internal/interaction"
	"github.com/ashureev/sproc-lineage/internal/logger"
	"github.com/ashureev/sproc-lineage/internal/store"
	"github.com/go-chi/chi/v5"
)

// Runner executes one analysis run.
type Runner interface {
	Run(ctx context.Context, sess interaction.Session, req domain.AnalysisRequest, n interaction.Notifier) (domain.InteractionRecord, error)
}

// LineageHandler serves the analyze, history and audit endpoints.
type LineageHandler struct {
	runner   Runner
	sessions *history.Sessions
	audit    store.Repository
}

// NewLineageHandler creates a handler. A nil audit repository disables the
// audit endpoint's data (it returns an empty list).
func NewLineageHandler(runner Runner, sessions *history.Sessions, audit store.Repository) *LineageHandler {
	if audit == nil {
		audit = store.Nop{}
	}
	return &LineageHandler{runner: runner, sessions: sessions, audit: audit}
}

// RegisterRoutes registers lineage routes.
func (h *LineageHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", h.Analyze)
		r.Get("/history", h.History)
		r.Get("/audit", h.Audit)
	})
}

// historyView shows the current record separately from the earlier ones,
// which stay in append order.
type historyView struct {
	Current  *domain.InteractionRecord  `json:"current"`
	Previous []domain.InteractionRecord `json:"previous"`
}

type analyzeResponse struct {
	Record        domain.InteractionRecord   `json:"record"`
	Notifications []interaction.Notification `json:"notifications"`
	historyView
}

type analyzeErrorResponse struct {
	Error         string                     `json:"error"`
	Stage         interaction.Stage          `json:"stage"`
	Notifications []interaction.Notification `json:"notifications"`
}

func viewOf(h *history.History) historyView {
	view := historyView{Previous: h.Previous()}
	if latest, ok := h.Latest(); ok {
		view.Current = &latest
	}
	return view
}

// Analyze runs the pipeline for the caller's session.
func (h *LineageHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req domain.AnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := identity.SessionIDFromContext(r.Context())
	hist, known := h.sessions.Lookup(sessionID)
	if !known {
		// Registered only after a successful run.
		hist = history.New()
	}
	sess := interaction.Session{ID: sessionID, History: hist}
	notes := &interaction.Collector{}

	rec, err := h.runner.Run(r.Context(), sess, req, notes)
	if err != nil {
		JSON(w, statusForRunError(err), analyzeErrorResponse{
			Error:         err.Error(),
			Stage:         interaction.FailedStage(err),
			Notifications: notes.Notifications(),
		})
		return
	}
	if !known {
		hist = h.sessions.Adopt(sessionID, hist)
	}

	JSON(w, http.StatusOK, analyzeResponse{
		Record:        rec,
		Notifications: notes.Notifications(),
		historyView:   viewOf(hist),
	})
}

// History returns the caller's current and previous records.
func (h *LineageHandler) History(w http.ResponseWriter, r *http.Request) {
	hist, ok := h.sessions.Lookup(identity.SessionIDFromContext(r.Context()))
	if !ok {
		JSON(w, http.StatusOK, historyView{Previous: []domain.InteractionRecord{}})
		return
	}
	JSON(w, http.StatusOK, viewOf(hist))
}

// Audit returns recent completed interactions across all sessions.
func (h *LineageHandler) Audit(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			Error(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := h.audit.ListInteractions(r.Context(), limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list audit records", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list audit records")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"interactions": entries})
}

func statusForRunError(err error) int {
	switch {
	case errors.Is(err, interaction.ErrInvalidRequest), errors.Is(err, catalog.ErrInvalidIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, interaction.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, interaction.ErrConnection), errors.Is(err, interaction.ErrAnalysis):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
