package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
)

const actorKey = "actor"

type personDirectory interface {
	GetByStaffID(ctx context.Context, staffID string) (*domain.Person, error)
}

// AuthMiddleware resolves the acting person from a Bearer JWT whose subject
// is the staff id. Inactive persons are rejected.
type AuthMiddleware struct {
	secret  []byte
	persons personDirectory
}

func NewAuthMiddleware(secret []byte, persons personDirectory) *AuthMiddleware {
	return &AuthMiddleware{secret: secret, persons: persons}
}

func (m *AuthMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		staffID, err := token.Claims.GetSubject()
		if err != nil || staffID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
			return
		}

		person, err := m.persons.GetByStaffID(c.Request.Context(), staffID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown staff id"})
			return
		}
		if !person.IsActive() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account inactive"})
			return
		}

		c.Set(actorKey, person)
		c.Next()
	}
}

func actorFrom(c *gin.Context) *domain.Person {
	v, _ := c.Get(actorKey)
	p, _ := v.(*domain.Person)
	return p
}
