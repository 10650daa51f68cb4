package api

import (
	"net/http"

	"github.com/hollis-dev/attic/internal/models"
	"github.com/hollis-dev/attic/internal/store"
)

type HealthHandler struct {
	db *store.DB
}

func NewHealthHandler(db *store.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status: "ok",
		DB:     "ok",
	}

	messages, err := h.db.MessageCount()
	if err != nil {
		resp.Status = "degraded"
		resp.DB = err.Error()
	} else {
		resp.MessageCount = messages
	}

	memories, err := h.db.MemoryCount()
	if err != nil {
		resp.Status = "degraded"
		resp.DB = err.Error()
	} else {
		resp.MemoryCount = memories
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
