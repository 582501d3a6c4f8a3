package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agenda-cultural/agenda-api/internal/models"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
	"github.com/agenda-cultural/agenda-api/pkg/response"
)

const claimsContextKey = "auth_claims"

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// Auth extracts and validates the bearer token, storing the claims in
// the request context for downstream handlers.
func Auth(validator tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, appErrors.Clone(appErrors.ErrUnauthorized, "falta el header Authorization"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abort(c, appErrors.Clone(appErrors.ErrUnauthorized, "formato de Authorization inválido, se espera Bearer <token>"))
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			abort(c, err)
			return
		}

		SetClaims(c, claims)
		c.Next()
	}
}

// AuthOpcional validates the bearer token when one is present but never
// rejects the request. Public endpoints use it so an authenticated admin
// can widen what the anonymous view shows.
func AuthOpcional(validator tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
				if claims, err := validator.ValidateToken(parts[1]); err == nil {
					SetClaims(c, claims)
				}
			}
		}
		c.Next()
	}
}

// RequireRol allows only the listed roles past this point. It assumes
// Auth already ran.
func RequireRol(roles ...models.Rol) gin.HandlerFunc {
	allowed := make(map[models.Rol]struct{}, len(roles))
	for _, rol := range roles {
		allowed[rol] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abort(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
			return
		}
		if _, ok := allowed[claims.Rol]; !ok {
			abort(c, appErrors.Clone(appErrors.ErrForbidden, ""))
			return
		}
		c.Next()
	}
}

// SetClaims stores the authenticated claims in the request context.
func SetClaims(c *gin.Context, claims *models.JWTClaims) {
	c.Set(claimsContextKey, claims)
}

// ClaimsFrom returns the authenticated claims stored by Auth.
func ClaimsFrom(c *gin.Context) (*models.JWTClaims, bool) {
	v, exists := c.Get(claimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*models.JWTClaims)
	return claims, ok
}

func abort(c *gin.Context, err error) {
	response.Error(c, err)
	c.Abort()
}
