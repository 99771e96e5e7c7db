// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/baseline/internal/domain/surface"
	"github.com/okian/baseline/internal/domain/types"
)

// MetadataDependencies defines the interface for metadata reads.
type MetadataDependencies interface {
	Metadata(ctx context.Context) types.Metadata
}

// MetadataHandler handles snapshot metadata requests.
type MetadataHandler struct {
	deps MetadataDependencies
}

// NewMetadataHandler creates a new metadata handler.
func NewMetadataHandler(deps MetadataDependencies) *MetadataHandler {
	return &MetadataHandler{deps: deps}
}

// HandleGetMetadata handles GET /api/metadata requests.
func (h *MetadataHandler) HandleGetMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Metadata(r.Context()))
}

// SurfacesHandler serves the canonical surface list.
type SurfacesHandler struct{}

// NewSurfacesHandler creates a new surfaces handler.
func NewSurfacesHandler() *SurfacesHandler {
	return &SurfacesHandler{}
}

type surfaceInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type surfacesResponse struct {
	Surfaces []surfaceInfo `json:"surfaces"`
}

// HandleGetSurfaces handles GET /api/surfaces requests.
func (h *SurfacesHandler) HandleGetSurfaces(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	names := map[surface.Surface]string{
		surface.IndoorHard:  "Indoor Hard",
		surface.OutdoorHard: "Outdoor Hard",
		surface.Clay:        "Clay",
		surface.Grass:       "Grass",
	}
	resp := surfacesResponse{}
	for _, surf := range surface.All() {
		resp.Surfaces = append(resp.Surfaces, surfaceInfo{ID: string(surf), Name: names[surf]})
	}
	writeJSON(w, http.StatusOK, resp)
}
