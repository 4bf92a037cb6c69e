package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/staymap/staymap-backend-go/internal/middleware"
	"github.com/staymap/staymap-backend-go/internal/service"
	"github.com/staymap/staymap-backend-go/pkg/response"
)

// ListingHandler handles HTTP requests for listing details
type ListingHandler struct {
	service *service.MapService
}

// NewListingHandler creates a new listing handler
func NewListingHandler(service *service.MapService) *ListingHandler {
	return &ListingHandler{service: service}
}

// Detail handles GET /api/v1/listings/:id. Host-only metrics appear only
// when the request carries a host persona token.
func (h *ListingHandler) Detail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.service.ListingDetail(id, middleware.PersonaFrom(c))
	if err != nil {
		response.InternalError(c, "Failed to load listing", err)
		return
	}
	if detail == nil {
		response.NotFound(c, "Listing not found")
		return
	}

	response.Success(c, detail)
}
