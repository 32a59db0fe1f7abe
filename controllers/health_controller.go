package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hmnguyen/flashdeck-backend/ws"
)

type HealthController struct {
	db  *gorm.DB
	hub *ws.Hub
}

func NewHealthController(db *gorm.DB, hub *ws.Hub) *HealthController {
	return &HealthController{db: db, hub: hub}
}

// GET /health
func (ctl *HealthController) HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"db":        "ok",
		"websocket": ctl.hub.Stats(),
	}

	sqlDB, err := ctl.db.DB()
	if err != nil {
		response["db"] = "error: cannot get DB instance"
		response["status"] = "degraded"
		c.JSON(http.StatusInternalServerError, response)
		return
	}
	if err := sqlDB.Ping(); err != nil {
		response["db"] = "error: cannot connect to DB"
		response["status"] = "degraded"
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	c.JSON(http.StatusOK, response)
}
