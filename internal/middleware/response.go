package middleware

import (
	"net/http"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}
