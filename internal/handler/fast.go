package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/Crypto-Scavenger/Ing-Fast/internal/errors"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/middleware"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/service"
)

type FastHandler struct {
	fastService  *service.FastService
	statsService *service.StatsService
}

func NewFastHandler(fastService *service.FastService, statsService *service.StatsService) *FastHandler {
	return &FastHandler{
		fastService:  fastService,
		statsService: statsService,
	}
}

func (h *FastHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/start", h.Start)
	r.Post("/{sessionID}/pause", h.Pause)
	r.Post("/{sessionID}/resume", h.Resume)
	r.Post("/{sessionID}/end", h.End)
	r.Get("/current", h.Current)
	r.Get("/history", h.History)
	r.Get("/stats", h.Stats)
	r.Get("/milestones", h.Milestones)
	r.Get("/phases", h.Phases)

	return r
}

type startFastRequest struct {
	TargetHours int `json:"targetHours"`
}

// POST /v1/fasts/start
func (h *FastHandler) Start(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	var req startFastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "malformed JSON"))
		return
	}

	result, err := h.fastService.Start(r.Context(), account.ID, req.TargetHours)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"sessionId": result.SessionID,
		"startTime": result.StartTime,
	})
}

// POST /v1/fasts/{sessionID}/pause
func (h *FastHandler) Pause(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := h.fastService.Pause(r.Context(), sessionID, account.ID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// POST /v1/fasts/{sessionID}/resume
func (h *FastHandler) Resume(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := h.fastService.Resume(r.Context(), sessionID, account.ID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// POST /v1/fasts/{sessionID}/end
func (h *FastHandler) End(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	result, err := h.fastService.End(r.Context(), sessionID, account.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	// Completed history changed; drop the cached stats.
	h.statsService.Invalidate(r.Context(), account.ID)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"duration":   result.Duration,
		"milestones": result.MilestonesAchieved,
	})
}

// GET /v1/fasts/current
func (h *FastHandler) Current(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	current, err := h.fastService.Current(r.Context(), account.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load current fast")
		writeError(w, err)
		return
	}

	if current == nil {
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"active": true,
		"fast":   current,
	})
}

// GET /v1/fasts/history?limit=
func (h *FastHandler) History(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	history, err := h.statsService.History(r.Context(), account.ID, parseHistoryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

// GET /v1/fasts/stats
func (h *FastHandler) Stats(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	stats, err := h.statsService.Stats(r.Context(), account.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

// GET /v1/fasts/milestones
func (h *FastHandler) Milestones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"milestones": service.MilestoneCatalog()})
}

// GET /v1/fasts/phases?hours=
func (h *FastHandler) Phases(w http.ResponseWriter, r *http.Request) {
	hours, err := strconv.ParseFloat(r.URL.Query().Get("hours"), 64)
	if err != nil || hours < 0 {
		writeError(w, apperrors.InvalidInput("hours", "must be a non-negative number"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"phase": service.ClassifyPhase(hours)})
}
