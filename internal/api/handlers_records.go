package api

import (
	"net/http"
	"strconv"

	"github.com/hollis-dev/attic/internal/assembly"
	"github.com/hollis-dev/attic/internal/models"
)

// RecordHandler serves the memory, learning, and entity routes.
type RecordHandler struct {
	svc *assembly.Service
}

func NewRecordHandler(svc *assembly.Service) *RecordHandler {
	return &RecordHandler{svc: svc}
}

func queryLimit(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

// StoreMemory handles POST /memories
func (h *RecordHandler) StoreMemory(w http.ResponseWriter, r *http.Request) {
	var req models.StoreMemoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.Importance < 0 || req.Importance > 1 {
		writeError(w, http.StatusBadRequest, "importance must be in [0, 1]")
		return
	}

	resp, err := h.svc.StoreMemory(&req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListMemories handles GET /memories
func (h *RecordHandler) ListMemories(w http.ResponseWriter, r *http.Request) {
	mems, err := h.svc.ListMemories(queryLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if mems == nil {
		mems = []*models.Memory{}
	}
	writeJSON(w, http.StatusOK, mems)
}

// StoreLearning handles POST /learnings
func (h *RecordHandler) StoreLearning(w http.ResponseWriter, r *http.Request) {
	var req models.StoreLearningRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Trigger == "" || req.Lesson == "" {
		writeError(w, http.StatusBadRequest, "trigger and lesson are required")
		return
	}

	resp, err := h.svc.StoreLearning(&req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListLearnings handles GET /learnings
func (h *RecordHandler) ListLearnings(w http.ResponseWriter, r *http.Request) {
	ls, err := h.svc.ListLearnings(queryLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ls == nil {
		ls = []*models.Learning{}
	}
	writeJSON(w, http.StatusOK, ls)
}

// TrackEntity handles POST /entities
func (h *RecordHandler) TrackEntity(w http.ResponseWriter, r *http.Request) {
	var req models.TrackEntityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	resp, err := h.svc.TrackEntity(&req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListEntities handles GET /entities
func (h *RecordHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	ents, err := h.svc.ListEntities(queryLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ents == nil {
		ents = []*models.Entity{}
	}
	writeJSON(w, http.StatusOK, ents)
}
