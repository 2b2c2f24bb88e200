package api

import (
	"memvault/internal/auth"
	"memvault/internal/cache"
	"memvault/internal/config"
	"memvault/internal/memory"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func SetupRouter(cfg *config.Config, rdb *redis.Client, store memory.RecordStore, stm *cache.Cache) *gin.Engine {
	r := gin.Default()
	subpath := cfg.Server.Subpath // e.g. "/memvault" or any custom path, always starts with '/'

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))
		group.GET("/stats", auth.AuthMiddleware(cfg, rdb, true), statsHandler(rdb))

		// Setup: only if no users
		group.POST("/setup", SetupHandler())

		// Auth
		group.POST("/auth/login", LoginHandler(cfg, rdb))
		group.POST("/auth/logout", auth.AuthMiddleware(cfg, rdb, false), LogoutHandler(rdb))
		group.GET("/auth/me", auth.AuthMiddleware(cfg, rdb, false), MeHandler())

		// Admin: users
		group.GET("/users", auth.AuthMiddleware(cfg, rdb, true), ListUsersHandler())
		group.POST("/users", auth.AuthMiddleware(cfg, rdb, true), CreateUserHandler())
		group.DELETE("/users/:id", auth.AuthMiddleware(cfg, rdb, true), DeleteUserByIdHandler())

		// --- Long-term memory ---
		group.POST("/memories", auth.AuthMiddleware(cfg, rdb, false), UpsertMemoryHandler(store))
		group.GET("/memories", auth.AuthMiddleware(cfg, rdb, false), ListMemoriesHandler(store))
		group.GET("/memories/:id", auth.AuthMiddleware(cfg, rdb, false), GetMemoryHandler(store))
		group.DELETE("/memories/:id", auth.AuthMiddleware(cfg, rdb, false), DeleteMemoryHandler(store))
		group.POST("/memories/delete", auth.AuthMiddleware(cfg, rdb, false), DeleteMemoriesHandler(store))
		group.DELETE("/memories", auth.AuthMiddleware(cfg, rdb, true), ClearMemoriesHandler(store))

		// --- Short-term memory ---
		group.PUT("/session/:key", auth.AuthMiddleware(cfg, rdb, false), PutSessionValueHandler(stm))
		group.GET("/session/:key", auth.AuthMiddleware(cfg, rdb, false), GetSessionValueHandler(stm))
	}
	return r
}
