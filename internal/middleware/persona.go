package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/staymap/staymap-backend-go/internal/models"
)

// personaKey is the gin context key the resolved persona is stored under
const personaKey = "persona"

// Persona resolves the request persona from an optional bearer token.
// Requests without a token, or with an invalid one, run as traveler; a
// valid token with a host claim unlocks host-only fields. Persona gates
// field visibility, not access, so a bad token downgrades instead of 401s.
func Persona(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		persona := models.PersonaTraveler

		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			raw := strings.TrimPrefix(auth, "Bearer ")
			if p, err := parsePersonaToken(raw, secret); err == nil {
				persona = p
			}
		}

		c.Set(personaKey, persona)
		c.Next()
	}
}

// PersonaFrom reads the resolved persona off the gin context
func PersonaFrom(c *gin.Context) models.Persona {
	if v, ok := c.Get(personaKey); ok {
		if p, ok := v.(models.Persona); ok {
			return p
		}
	}
	return models.PersonaTraveler
}

// IssuePersonaToken signs a persona claim valid for 24 hours
func IssuePersonaToken(persona models.Persona, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"persona": string(persona),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign persona token: %w", err)
	}
	return signed, nil
}

func parsePersonaToken(raw, secret string) (models.Persona, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return models.PersonaTraveler, fmt.Errorf("invalid persona token: %w", err)
	}
	if !token.Valid {
		return models.PersonaTraveler, fmt.Errorf("invalid persona token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.PersonaTraveler, fmt.Errorf("unexpected claims type")
	}

	p, _ := claims["persona"].(string)
	return models.ParsePersona(p), nil
}
