package httpapi

import (
	"errors"
	"net/http"

	"github.com/dvergara-cl/refdata/internal/common"
	"github.com/dvergara-cl/refdata/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestID tags every response with an id for log correlation, keeping a
// caller-supplied one when present.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}

// auditRecorder persists the single audit entry staged by the gate or a
// handler. The write is synchronous and best-effort: a failed append is
// logged and never alters the response already produced.
func (s *HTTPServer) auditRecorder() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		entry, ok := stagedEntry(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		if err := s.audit.Append(ctx, entry); err != nil {
			s.logger.Error(ctx, "audit append failed", "action", entry.Action, "error", err.Error())
		}
	}
}

// gate rejects requests without a valid bearer token and injects the
// resolved account into the request context for the handlers.
func (s *HTTPServer) gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			record(c, models.ActionTokenRejected, "Token no proporcionado")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "Token no proporcionado",
			})
			return
		}

		user, err := s.tokens.Validate(c.Request.Context(), header)
		if err != nil {
			if errors.Is(err, common.ErrInvalidToken) {
				record(c, models.ActionTokenRejected, "Token inválido o expirado")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "Token inválido o expirado",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"status": false,
				"errors": []string{"Internal error"},
			})
			return
		}

		setCurrentUser(c, user)
		c.Next()
	}
}
