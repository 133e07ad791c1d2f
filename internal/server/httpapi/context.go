package httpapi

import (
	"github.com/dvergara-cl/refdata/internal/server/models"
	"github.com/gin-gonic/gin"
)

// Gin context keys used to pass request-scoped state between the
// middlewares and the handlers.
const (
	currentUserKey = "httpapi.user"
	auditEntryKey  = "httpapi.audit"
)

func setCurrentUser(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
}

// currentUser returns the account injected by the gate, if any.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// record stages the audit entry for this request. The recorder middleware
// persists it once the handler chain finishes; staging twice keeps only
// the last entry, so every request yields at most one row.
func record(c *gin.Context, action, details string) {
	entry := &models.AuditEntry{
		Action:    action,
		Details:   details,
		IPAddress: c.ClientIP(),
	}
	if user, ok := currentUser(c); ok {
		id := user.ID
		entry.UserID = &id
	}
	c.Set(auditEntryKey, entry)
}

// recordFor stages an audit entry with an explicit actor, for handlers
// that establish the acting user themselves (register, login).
func recordFor(c *gin.Context, userID int64, action, details string) {
	c.Set(auditEntryKey, &models.AuditEntry{
		UserID:    &userID,
		Action:    action,
		Details:   details,
		IPAddress: c.ClientIP(),
	})
}

func stagedEntry(c *gin.Context) (*models.AuditEntry, bool) {
	v, ok := c.Get(auditEntryKey)
	if !ok {
		return nil, false
	}
	entry, ok := v.(*models.AuditEntry)
	return entry, ok
}
