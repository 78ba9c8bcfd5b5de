package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aethermere/campaign/server/audit"
	mw "github.com/aethermere/campaign/server/middleware"
	"github.com/aethermere/campaign/server/model"
	"github.com/gin-gonic/gin"
)

// paramID parses the named path parameter as an id, responding 400 itself
// when the parameter is not numeric.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// isUniqueViolation detects duplicate-key errors from common database drivers.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "already exists")
}

// auditEntry builds an audit entry for the acting user and request payload.
func auditEntry(c *gin.Context, u *model.User, action string, request interface{}) audit.Entry {
	return audit.Entry{
		TraceID:  mw.GetTraceID(c),
		UserID:   &u.ID,
		Username: u.Username,
		Action:   action,
		Request:  request,
		IP:       c.ClientIP(),
	}
}
