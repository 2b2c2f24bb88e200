package api

import (
	"errors"
	"net/http"

	"memvault/internal/cache"

	"github.com/gin-gonic/gin"
)

type PutSessionValueRequest struct {
	Value string `json:"value"`
}

// PUT /session/:key — short-term memory write; expiry is the store-wide TTL.
func PutSessionValueHandler(stm *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PutSessionValueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		if err := stm.Put(c.Request.Context(), c.Param("key"), []byte(req.Value)); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": err.Error()}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "ttl_seconds": int(stm.TTL().Seconds())})
	}
}

// GET /session/:key
func GetSessionValueHandler(stm *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, err := stm.Get(c.Request.Context(), c.Param("key"))
		if errors.Is(err, cache.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Key not found or expired"}})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": err.Error()}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": string(val)})
	}
}
