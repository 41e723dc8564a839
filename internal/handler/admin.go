package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/audit"
	apperrors "github.com/Crypto-Scavenger/Ing-Fast/internal/errors"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/service"
)

type AdminHandler struct {
	adminService    *service.AdminService
	settingsService *service.SettingsService
}

func NewAdminHandler(adminService *service.AdminService, settingsService *service.SettingsService) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		settingsService: settingsService,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.SaveSettings)
	r.Delete("/data", h.WipeData)

	return r
}

// GET /admin/settings
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"settings": settings})
}

// PUT /admin/settings
func (h *AdminHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings map[string]string
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, apperrors.InvalidInput("body", "malformed JSON"))
		return
	}
	if len(settings) == 0 {
		writeError(w, apperrors.MissingRequired("settings"))
		return
	}

	for key, value := range settings {
		if err := h.settingsService.Save(r.Context(), key, value); err != nil {
			writeError(w, err)
			return
		}
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventSettingsChange,
		Details: map[string]interface{}{"keys": len(settings)},
	})

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DELETE /admin/data
func (h *AdminHandler) WipeData(w http.ResponseWriter, r *http.Request) {
	result, err := h.adminService.WipeAllData(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type: audit.EventDataWipe,
		Details: map[string]interface{}{
			"sessions":   result.SessionsDeleted,
			"milestones": result.MilestonesDeleted,
		},
	})

	writeJSON(w, http.StatusOK, result)
}
