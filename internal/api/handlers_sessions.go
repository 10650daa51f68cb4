package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hollis-dev/attic/internal/assembly"
	"github.com/hollis-dev/attic/internal/models"
)

type SessionHandler struct {
	svc *assembly.Service
}

func NewSessionHandler(svc *assembly.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// LogMessage handles POST /sessions/{id}/messages
func (h *SessionHandler) LogMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var req models.LogMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.Role != "" && !req.Role.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	resp, err := h.svc.LogMessage(sessionID, &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListMessages handles GET /sessions/{id}/messages
func (h *SessionHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	msgs, err := h.svc.ListMessages(sessionID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if msgs == nil {
		msgs = []*models.Message{}
	}
	writeJSON(w, http.StatusOK, models.ListMessagesResponse{Messages: msgs})
}
