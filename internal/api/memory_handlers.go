package api

import (
	"errors"
	"net/http"
	"strconv"

	"memvault/internal/audit"
	"memvault/internal/db"
	"memvault/internal/memory"

	"github.com/gin-gonic/gin"
)

type UpsertMemoryRequest struct {
	MemoryID string   `json:"memory_id"`
	UserID   string   `json:"user_id"`
	AgentID  string   `json:"agent_id"`
	TeamID   string   `json:"team_id"`
	Content  string   `json:"content"`
	Topics   []string `json:"topics"`
}

// POST /memories
func UpsertMemoryHandler(store memory.RecordStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpsertMemoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		if req.Content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "content is required"}})
			return
		}
		rec := &memory.Record{
			MemoryID: req.MemoryID,
			UserID:   req.UserID,
			AgentID:  req.AgentID,
			TeamID:   req.TeamID,
			Content:  req.Content,
			Topics:   req.Topics,
		}
		stored, err := store.Upsert(c.Request.Context(), rec)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": err.Error()}})
			return
		}
		audit.Record(db.DB, "upsert", string(memory.CategoryMemories), stored.MemoryID, c.GetString("username"), stored)
		c.JSON(http.StatusOK, stored)
	}
}

// GET /memories/:id
func GetMemoryHandler(store memory.RecordStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := store.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, memory.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Memory not found"}})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": err.Error()}})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// GET /memories
func ListMemoriesHandler(store memory.RecordStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := memory.ListOptions{
			UserID:    c.Query("user_id"),
			AgentID:   c.Query("agent_id"),
			TeamID:    c.Query("team_id"),
			Topics:    c.QueryArray("topics"),
			Query:     c.Query("query"),
			SortBy:    c.Query("sort_by"),
			SortOrder: c.Query("sort_order"),
		}
		if limit := c.Query("limit"); limit != "" {
			v, err := strconv.Atoi(limit)
			if err != nil || v < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid limit"}})
				return
			}
			opts.Limit = v
		}
		if page := c.Query("page"); page != "" {
			v, err := strconv.Atoi(page)
			if err != nil || v < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid page"}})
				return
			}
			opts.Page = v
		}

		records, total, err := store.List(c.Request.Context(), opts)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": err.Error()}})
			return
		}
		if records == nil {
			records = []*memory.Record{}
		}
		c.JSON(http.StatusOK, gin.H{"memories": records, "total": total})
	}
}

// DELETE /memories/:id
func DeleteMemoryHandler(store memory.RecordStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := store.Delete(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": err.Error()}})
			return
		}
		audit.Record(db.DB, "delete", string(memory.CategoryMemories), id, c.GetString("username"), nil)
		c.JSON(http.StatusOK, gin.H{"message": "Memory deleted"})
	}
}

type DeleteMemoriesRequest struct {
	IDs []string `json:"ids"`
}

// POST /memories/delete
func DeleteMemoriesHandler(store memory.RecordStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeleteMemoriesRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "ids required"}})
			return
		}
		if err := store.DeleteMany(c.Request.Context(), req.IDs); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": err.Error()}})
			return
		}
		audit.Record(db.DB, "delete", string(memory.CategoryMemories), "", c.GetString("username"), req.IDs)
		c.JSON(http.StatusOK, gin.H{"message": "Memories deleted", "count": len(req.IDs)})
	}
}

// DELETE /memories
func ClearMemoriesHandler(store memory.RecordStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Clear(c.Request.Context()); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": err.Error()}})
			return
		}
		audit.Record(db.DB, "clear", string(memory.CategoryMemories), "", c.GetString("username"), nil)
		c.JSON(http.StatusOK, gin.H{"message": "Memories cleared"})
	}
}
