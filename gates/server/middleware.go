package server

import (
	"net/http"

	"app/auth"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware fails closed: no jwt cookie or a cookie that doesn't verify
// stops the request before any handler work.
func (s *Server) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "gates.server.authMiddleware"

		token, err := c.Cookie(auth.CookieName)
		if err != nil {
			s.log.Debug(op, "reason", "no jwt cookie")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		claims, err := s.auth.VerifyRequired(token)
		if err != nil {
			s.log.Debug(op, "reason", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware never rejects: a missing or broken cookie just
// means the request proceeds anonymously.
func (s *Server) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err == nil {
			if claims := s.auth.VerifyOptional(token); claims != nil {
				c.Set(claimsContextKey, *claims)
			}
		}
		c.Next()
	}
}

func claimsFromContext(c *gin.Context) (auth.Claims, bool) {
	claimsAny, ok := c.Get(claimsContextKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := claimsAny.(auth.Claims)
	return claims, ok
}
