package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formworks/form-server/store"
)

type HealthController struct {
	Store store.Store
}

func NewHealthController(st store.Store) *HealthController {
	return &HealthController{Store: st}
}

// Check pings the backing store. GET /health
func (hc *HealthController) Check(c *gin.Context) {
	if err := hc.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
}
