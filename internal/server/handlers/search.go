// internal/server/handlers/search.go

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ladiesmans217/unalone/internal/domain/geo"
	"github.com/ladiesmans217/unalone/internal/domain/hotspot"
)

// SearchHandler handles geospatial search HTTP requests
type SearchHandler struct {
	service geo.Service
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service geo.Service) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// searchRequest mirrors hotspot.SearchRequest with a pointer center so
// a missing center can be told apart from (0,0).
type searchRequest struct {
	Center     *hotspot.Location     `json:"center"`
	RadiusKm   float64               `json:"radius_km"`
	Filters    hotspot.SearchFilters `json:"filters"`
	Pagination hotspot.Pagination    `json:"pagination"`
}

// optimizedSearchRequest mirrors hotspot.OptimizedSearchRequest.
type optimizedSearchRequest struct {
	Query struct {
		Center    *hotspot.Location `json:"center"`
		RadiusKm  float64           `json:"radius_km"`
		ZoomLevel int               `json:"zoom_level"`
	} `json:"geospatial_query"`
	Filters    hotspot.SearchFilters `json:"filters"`
	Pagination hotspot.Pagination    `json:"pagination"`
	Clustering hotspot.ClusterConfig `json:"clustering"`
}

// Search performs a direct radius search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Center == nil {
		respondWithError(w, http.StatusBadRequest, "Missing center coordinates", nil)
		return
	}

	resp, err := h.service.Search(r.Context(), &hotspot.SearchRequest{
		Center:     *req.Center,
		RadiusKm:   req.RadiusKm,
		Filters:    req.Filters,
		Pagination: req.Pagination,
	})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Search failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// SearchOptimized performs a cache-accelerated, optionally clustered
// search for map rendering
func (h *SearchHandler) SearchOptimized(w http.ResponseWriter, r *http.Request) {
	var req optimizedSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Query.Center == nil {
		respondWithError(w, http.StatusBadRequest, "Missing center coordinates", nil)
		return
	}

	result, err := h.service.SearchOptimized(r.Context(), &hotspot.OptimizedSearchRequest{
		Query: hotspot.GeospatialQuery{
			Center:    *req.Query.Center,
			RadiusKm:  req.Query.RadiusKm,
			ZoomLevel: req.Query.ZoomLevel,
		},
		Filters:    req.Filters,
		Pagination: req.Pagination,
		Clustering: req.Clustering,
	})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Search failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// CacheStats returns cache tier diagnostics
func (h *SearchHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.CacheStats(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get cache stats", err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}
