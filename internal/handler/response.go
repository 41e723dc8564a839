package handler

import (
	"net/http"
	"strconv"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/config"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}

// parseHistoryLimit clamps the ?limit= query parameter.
func parseHistoryLimit(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > config.MaxHistoryLimit {
		limit = config.DefaultHistoryLimit
	}
	return limit
}
