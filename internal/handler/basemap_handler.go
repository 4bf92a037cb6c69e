package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/staymap/staymap-backend-go/internal/basemap"
)

// BasemapHandler serves the cached pre-projected topology asset
type BasemapHandler struct {
	store *basemap.Store
}

// NewBasemapHandler creates a new basemap handler
func NewBasemapHandler(store *basemap.Store) *BasemapHandler {
	return &BasemapHandler{store: store}
}

// Get handles GET /api/v1/basemap. A load failure degrades to an empty
// topology rather than an error; the X-Basemap-Degraded header tells the
// client it is rendering without base geography.
func (h *BasemapHandler) Get(c *gin.Context) {
	doc, degraded := h.store.Document()
	if degraded {
		c.Header("X-Basemap-Degraded", "true")
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "application/json", doc)
}
