package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Check godoc
// @Summary      Service health
// @Description  Reports connectivity to Postgres and Redis.
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      503 {object} map[string]string
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	status := gin.H{"status": "ok", "database": "ok", "redis": "ok"}
	code := http.StatusOK

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status["database"] = "unreachable"
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}
	if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
		status["redis"] = "unreachable"
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
