package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/Bry504/red-de-agencias/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// TokenAuth validates the shared-secret ?token= query parameter that
// HighLevel workflows append to each webhook URL. An empty configured secret
// rejects everything: a misconfigured deployment must not accept blind
// writes.
func TokenAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if secret == "" || token == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			log.Warn().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("path", c.Request.URL.Path).
				Msg("webhook con token inválido")
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("No autorizado"))
			return
		}
		c.Next()
	}
}
