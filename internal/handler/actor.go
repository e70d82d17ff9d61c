package handler

import (
	"packtrack/internal/service"

	"github.com/gin-gonic/gin"
)

// requestActor resolves who triggered the request for the audit trail: the
// verified token claims when the auth middleware ran, the cached session
// otherwise.
func requestActor(c *gin.Context, sessions service.SessionService) (string, string) {
	if id := c.GetString("userID"); id != "" {
		return id, c.GetString("userEmail")
	}
	user := sessions.CurrentUser()
	if user == nil {
		return "", ""
	}
	return user.ID, user.Email
}
