package handler

import (
	"context"
	"net/http"
	"time"

	"jumboscan/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health checks the database, that the API tables exist, and Redis when configured.
// Never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		ok := true
		body := gin.H{}

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
			ok = false
		} else if faltantes := infra.TablasPresentes(db.WithContext(ctx)); len(faltantes) > 0 {
			dbStatus = "schema_missing"
			body["tablas_faltantes"] = faltantes
			ok = false
		}
		body["db"] = dbStatus

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
				ok = false
			}
		}
		body["redis"] = redisStatus
		body["ok"] = ok

		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, body)
	}
}
