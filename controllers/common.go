package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/formworks/form-server/store"
)

// idParam parses a positive numeric path parameter, writing the 400
// response itself on failure.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return 0, false
	}
	return uint(id), true
}

// storeError maps a store failure onto the wire: unknown ids are 404,
// everything else is a retryable store_unavailable, logged but never
// swallowed.
func storeError(c *gin.Context, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	logrus.WithError(err).Error(op)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "store_unavailable"})
}
