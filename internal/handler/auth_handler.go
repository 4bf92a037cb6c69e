package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/staymap/staymap-backend-go/internal/middleware"
	"github.com/staymap/staymap-backend-go/internal/models"
	"github.com/staymap/staymap-backend-go/pkg/response"
)

// AuthHandler issues persona tokens
type AuthHandler struct {
	secret string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(secret string) *AuthHandler {
	return &AuthHandler{secret: secret}
}

// Token handles POST /api/v1/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var body struct {
		Persona string `json:"persona" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid token request", err)
		return
	}

	persona := models.ParsePersona(body.Persona)
	token, err := middleware.IssuePersonaToken(persona, h.secret)
	if err != nil {
		response.InternalError(c, "Failed to issue token", err)
		return
	}

	response.Success(c, gin.H{
		"token":   token,
		"persona": persona,
	})
}
