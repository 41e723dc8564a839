package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/audit"
	apperrors "github.com/Crypto-Scavenger/Ing-Fast/internal/errors"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/middleware"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
	authMiddleware func(http.Handler) http.Handler
}

func NewAccountHandler(accountService *service.AccountService, authMiddleware func(http.Handler) http.Handler) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		authMiddleware: authMiddleware,
	}
}

func (h *AccountHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Register)
	r.With(h.authMiddleware).Post("/token", h.RotateToken)

	return r
}

type registerRequest struct {
	DisplayName *string `json:"displayName"`
}

// POST /v1/accounts
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	// An empty body registers an anonymous account.
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.InvalidInput("body", "malformed JSON"))
			return
		}
	}

	result, err := h.accountService.Register(r.Context(), req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventAccountRegister,
		AccountID: result.AccountID,
	})

	writeJSON(w, http.StatusCreated, result)
}

// POST /v1/accounts/token
func (h *AccountHandler) RotateToken(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	result, err := h.accountService.RotateToken(r.Context(), account.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventTokenRotate,
		AccountID: account.ID,
	})

	writeJSON(w, http.StatusOK, result)
}
