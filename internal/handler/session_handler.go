package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/staymap/staymap-backend-go/internal/middleware"
	"github.com/staymap/staymap-backend-go/internal/models"
	"github.com/staymap/staymap-backend-go/internal/service"
	"github.com/staymap/staymap-backend-go/pkg/response"
)

// SessionHandler handles HTTP requests for map sessions
type SessionHandler struct {
	service *service.MapService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service *service.MapService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var body struct {
		Persona string `json:"persona"`
	}
	// Body is optional; an empty one opens a traveler session
	_ = c.ShouldBindJSON(&body)

	persona := models.ParsePersona(body.Persona)
	if persona == models.PersonaHost && middleware.PersonaFrom(c) != models.PersonaHost {
		response.Error(c, http.StatusForbidden, "Host persona requires a host token", nil)
		return
	}

	state, err := h.service.CreateSession(persona)
	if err != nil {
		response.InternalError(c, "Failed to create session", err)
		return
	}

	response.Success(c, state)
}

// Close handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Close(c *gin.Context) {
	h.service.CloseSession(c.Param("id"))
	response.Success(c, gin.H{"closed": true})
}

// ApplyFilter handles PUT /api/v1/sessions/:id/filter
func (h *SessionHandler) ApplyFilter(c *gin.Context) {
	var filter models.ListingFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		response.BadRequest(c, "Invalid filter body", err)
		return
	}

	state, err := h.service.ApplyFilter(c.Param("id"), filter)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, state)
}

// SetZoom handles PUT /api/v1/sessions/:id/zoom
func (h *SessionHandler) SetZoom(c *gin.Context) {
	var body struct {
		Zoom float64 `json:"zoom" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid zoom body", err)
		return
	}

	view, err := h.service.SetZoom(c.Param("id"), body.Zoom)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, view)
}

// ZoomIn handles POST /api/v1/sessions/:id/zoom/in
func (h *SessionHandler) ZoomIn(c *gin.Context) {
	view, err := h.service.ZoomIn(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, view)
}

// ZoomOut handles POST /api/v1/sessions/:id/zoom/out
func (h *SessionHandler) ZoomOut(c *gin.Context) {
	view, err := h.service.ZoomOut(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, view)
}

// Layer handles GET /api/v1/sessions/:id/layer
func (h *SessionHandler) Layer(c *gin.Context) {
	doc, err := h.service.Layer(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, doc)
}

// PointerMove handles POST /api/v1/sessions/:id/pointer
func (h *SessionHandler) PointerMove(c *gin.Context) {
	var body struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid pointer body", err)
		return
	}

	overlay, err := h.service.PointerMove(c.Param("id"), body.X, body.Y)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, overlay)
}

// PointerLeave handles DELETE /api/v1/sessions/:id/pointer
func (h *SessionHandler) PointerLeave(c *gin.Context) {
	state, err := h.service.PointerLeave(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, state)
}

// Select handles PUT /api/v1/sessions/:id/selection
func (h *SessionHandler) Select(c *gin.Context) {
	var body struct {
		ListingID int64 `json:"listingId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid selection body", err)
		return
	}

	state, err := h.service.Select(c.Param("id"), body.ListingID)
	if err != nil {
		response.BadRequest(c, "Failed to select listing", err)
		return
	}

	response.Success(c, state)
}

// ClearSelection handles DELETE /api/v1/sessions/:id/selection
func (h *SessionHandler) ClearSelection(c *gin.Context) {
	state, err := h.service.ClearSelection(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, state)
}

// parseID is shared by listing-scoped handlers
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid "+name+" parameter", err)
		return 0, false
	}
	return id, true
}
