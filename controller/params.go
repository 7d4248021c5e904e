package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// uintParam parses a numeric path parameter, answering 400 itself on bad input.
func uintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(value), true
}
