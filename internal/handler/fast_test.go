package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastHandler_Milestones(t *testing.T) {
	t.Run("returns the full catalog", func(t *testing.T) {
		h := NewFastHandler(nil, nil)

		req := httptest.NewRequest("GET", "/milestones", nil)
		rec := httptest.NewRecorder()

		h.Milestones(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Milestones []struct {
				Hours       int    `json:"hours"`
				Badge       string `json:"badge"`
				Description string `json:"description"`
			} `json:"milestones"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Milestones, 5)
		assert.Equal(t, 12, body.Milestones[0].Hours)
		assert.Equal(t, "Ketosis Initiated", body.Milestones[0].Badge)
		assert.Equal(t, 72, body.Milestones[4].Hours)
	})
}

func TestFastHandler_Phases(t *testing.T) {
	h := NewFastHandler(nil, nil)

	t.Run("classifies the given elapsed hours", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/phases?hours=30", nil)
		rec := httptest.NewRecorder()

		h.Phases(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Phase struct {
				Name  string `json:"name"`
				Color string `json:"color"`
			} `json:"phase"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Deep Ketosis", body.Phase.Name)
		assert.Equal(t, "#90ee90", body.Phase.Color)
	})

	t.Run("rejects missing hours parameter", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/phases", nil)
		rec := httptest.NewRecorder()

		h.Phases(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects negative hours", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/phases?hours=-1", nil)
		rec := httptest.NewRecorder()

		h.Phases(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestParseHistoryLimit(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"missing parameter", "", 10},
		{"valid limit", "limit=25", 25},
		{"zero falls back to default", "limit=0", 10},
		{"negative falls back to default", "limit=-3", 10},
		{"over maximum falls back to default", "limit=500", 10},
		{"non-numeric falls back to default", "limit=abc", 10},
		{"maximum allowed", "limit=100", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/history?"+tt.query, nil)
			assert.Equal(t, tt.want, parseHistoryLimit(req))
		})
	}
}
