package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dvergara-cl/refdata/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) handleAuditExport(c *gin.Context) {
	key, count, err := s.export.Export(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "audit export failed", "error", err.Error())
		renderError(c, err)
		return
	}

	record(c, models.ActionAuditExported, fmt.Sprintf("Exportación de auditoría: %d registros en %s", count, key))
	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "Audit log successfully exported",
		"key":     key,
	})
}
