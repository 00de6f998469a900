package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func ok(c *gin.Context, status int, message string, data gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// dbFail maps a gorm error to 404 or 500 and logs the latter.
func dbFail(c *gin.Context, logger *zap.Logger, err error, notFound, failed string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, notFound)
		return
	}
	logger.Error(failed, zap.String("path", c.FullPath()), zap.Error(err))
	fail(c, http.StatusInternalServerError, failed)
}
