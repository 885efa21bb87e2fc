package middleware

import (
	"errors"
	"net/http"
	"strings"

	"jumboscan/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimsKey   = "claims"
	TokenHeader = "x-access-token"
)

// JWTClaims are the claims the login endpoint signs into every token.
type JWTClaims struct {
	ID     uint   `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// tokenFromRequest reads the mobile app's x-access-token header, falling back to a Bearer token.
func tokenFromRequest(c *gin.Context) string {
	if t := strings.TrimSpace(c.GetHeader(TokenHeader)); t != "" {
		return t
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// JWTAuth validates the token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token no encontrado"))
			return
		}

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if errors.Is(err, jwt.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("El token ha expirado"))
			return
		}
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireAdmin rejects requests whose token e-mail is not in emails.
// An empty list locks the route for everyone.
func RequireAdmin(emails []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(emails))
	for _, e := range emails {
		allowed[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !allowed[strings.ToLower(claims.Email)] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}
