// internal/server/handlers/hotspot.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ladiesmans217/unalone/internal/domain/hotspot"
)

// HotspotHandler handles hotspot lifecycle HTTP requests
type HotspotHandler struct {
	manager hotspot.Manager
}

// NewHotspotHandler creates a new hotspot handler
func NewHotspotHandler(manager hotspot.Manager) *HotspotHandler {
	return &HotspotHandler{
		manager: manager,
	}
}

// CreateHotspot creates a new hotspot owned by the caller
func (h *HotspotHandler) CreateHotspot(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "Missing caller identity", nil)
		return
	}

	var req hotspot.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := h.manager.Create(r.Context(), userID, &req)
	if err != nil {
		respondWithHotspotError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// GetHotspot returns a hotspot by ID
func (h *HotspotHandler) GetHotspot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := h.manager.Get(r.Context(), id)
	if err != nil {
		respondWithHotspotError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, found)
}

// UpdateHotspot applies a partial update. Owner only.
func (h *HotspotHandler) UpdateHotspot(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "Missing caller identity", nil)
		return
	}

	var req hotspot.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	updated, err := h.manager.Update(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		respondWithHotspotError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteHotspot removes a hotspot. Owner only.
func (h *HotspotHandler) DeleteHotspot(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "Missing caller identity", nil)
		return
	}

	if err := h.manager.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondWithHotspotError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// JoinHotspot adds the caller to a hotspot
func (h *HotspotHandler) JoinHotspot(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "Missing caller identity", nil)
		return
	}

	joined, err := h.manager.Join(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondWithHotspotError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, joined)
}

// LeaveHotspot removes the caller from a hotspot
func (h *HotspotHandler) LeaveHotspot(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "Missing caller identity", nil)
		return
	}

	left, err := h.manager.Leave(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondWithHotspotError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, left)
}

// ListMine returns hotspots owned by the caller
func (h *HotspotHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "Missing caller identity", nil)
		return
	}

	owned, err := h.manager.ListByOwner(r.Context(), userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list hotspots", err)
		return
	}

	respondWithJSON(w, http.StatusOK, owned)
}

// callerID extracts the authenticated user set by the auth layer in
// front of this service.
func callerID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

// respondWithHotspotError maps domain errors to HTTP status codes
func respondWithHotspotError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, hotspot.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Hotspot not found", err)
	case errors.Is(err, hotspot.ErrNotOwner):
		respondWithError(w, http.StatusForbidden, err.Error(), err)
	case errors.Is(err, hotspot.ErrNotActive),
		errors.Is(err, hotspot.ErrAlreadyAttendee),
		errors.Is(err, hotspot.ErrNotAttendee),
		errors.Is(err, hotspot.ErrAtCapacity),
		errors.Is(err, hotspot.ErrInvalidCategory),
		errors.Is(err, hotspot.ErrInvalidLocation),
		errors.Is(err, hotspot.ErrTooManyTags),
		errors.Is(err, hotspot.ErrInvalidSchedule):
		respondWithError(w, http.StatusBadRequest, err.Error(), err)
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
