package api

import (
	"net/http"

	"memvault/internal/auth"
	"memvault/internal/config"
	"memvault/internal/db"
	"memvault/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// GET /health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// GET /config
func configHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only return non-sensitive config fields
		c.JSON(http.StatusOK, gin.H{
			"server": gin.H{
				"host":    cfg.Server.Host,
				"port":    cfg.Server.Port,
				"subpath": cfg.Server.Subpath,
			},
			"embedding": gin.H{
				"provider":   cfg.Embedding.Provider,
				"model":      cfg.Embedding.Model,
				"dimensions": cfg.Embedding.Dimensions,
			},
			"memory": cfg.Memory,
		})
	}
}

// GET /stats (admin only)
func statsHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userCount int64
		if err := db.DB.Model(&user.User{}).Count(&userCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		online, err := auth.OnlineUserCount(rdb)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Redis error"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"users":        userCount,
			"online_users": online,
		})
	}
}
