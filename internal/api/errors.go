package api

import (
	"net/http"

	"github.com/athena-edu/backend/internal/rooms"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps a lifecycle error onto its HTTP status. The three
// caller-fault kinds carry their message through verbatim; internal
// failures are logged and masked.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch rooms.KindOf(err) {
	case rooms.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case rooms.KindForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case rooms.KindConflict:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("internal error", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
