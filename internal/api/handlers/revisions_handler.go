package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/chiedozieu/website-builder/internal/api/middleware"
	"github.com/chiedozieu/website-builder/internal/api/types"
	"github.com/chiedozieu/website-builder/internal/services"
)

type RevisionsHandler struct {
	svc services.RevisionService
}

func NewRevisionsHandler(svc services.RevisionService) *RevisionsHandler {
	return &RevisionsHandler{svc: svc}
}

// Revise runs the full generation pipeline synchronously; the response only
// says whether the revision landed, the client refetches the preview.
func (h *RevisionsHandler) Revise(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}
	var req types.ReviseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	userID := middleware.GetUserID(r.Context())
	if err := h.svc.MakeRevision(r.Context(), userID, projectID, req.Message); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}

func (h *RevisionsHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}
	versionID, ok := pathUUID(w, r, "versionID")
	if !ok {
		return
	}
	userID := middleware.GetUserID(r.Context())
	if err := h.svc.Rollback(r.Context(), userID, projectID, versionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}
