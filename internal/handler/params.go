package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/edutrack/edutrack-api/pkg/errors"
)

// idParam parses the :id path segment as a positive integer.
func idParam(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid id parameter")
	}
	return id, nil
}
