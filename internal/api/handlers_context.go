package api

import (
	"net/http"

	"github.com/hollis-dev/attic/internal/assembly"
	"github.com/hollis-dev/attic/internal/models"
)

type ContextHandler struct {
	svc *assembly.Service
}

func NewContextHandler(svc *assembly.Service) *ContextHandler {
	return &ContextHandler{svc: svc}
}

// Build handles POST /context/build
func (h *ContextHandler) Build(w http.ResponseWriter, r *http.Request) {
	var req models.BuildContextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.TotalTokens < 0 {
		writeError(w, http.StatusBadRequest, "totalTokens must be non-negative")
		return
	}

	resp, err := h.svc.BuildContext(&req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Budget handles GET /context/budget?model=
func (h *ContextHandler) Budget(w http.ResponseWriter, r *http.Request) {
	model := r.URL.Query().Get("model")
	writeJSON(w, http.StatusOK, h.svc.PreviewBudget(model))
}
