// internal/memory/types.go
package memory

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Category is a logical record category. Each category maps to one physical
// qdrant collection; the set is closed so unknown categories are rejected at
// the edge instead of failing deep inside a backend call.
type Category string

const (
	CategoryMemories  Category = "memories"
	CategorySessions  Category = "sessions"
	CategoryKnowledge Category = "knowledge"
)

// Validate checks that the category is one of the known values.
func (c Category) Validate() error {
	switch c {
	case CategoryMemories, CategorySessions, CategoryKnowledge:
		return nil
	default:
		return fmt.Errorf("unknown category: %q", string(c))
	}
}

// ErrNotFound is returned by Get for an unknown memory id.
var ErrNotFound = errors.New("memory not found")

// Record is a single long-term memory. Vectors are derived from Content on
// every write and never set by callers.
type Record struct {
	MemoryID  string    `json:"memory_id"`
	UserID    string    `json:"user_id,omitempty"`
	AgentID   string    `json:"agent_id,omitempty"`
	TeamID    string    `json:"team_id,omitempty"`
	Content   string    `json:"content"`
	Topics    []string  `json:"topics,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListOptions narrows and pages a List call. Zero values mean "no constraint".
type ListOptions struct {
	UserID  string
	AgentID string
	TeamID  string
	Topics  []string
	Query   string // when set, results are ranked by hybrid similarity

	Limit int // page size, defaults to DefaultPageSize
	Page  int // 1-based page number

	SortBy    string // "updated_at", "memory_id", "user_id", "agent_id", "team_id", "content"
	SortOrder string // "asc" (default) or "desc"
}

// DefaultPageSize bounds List calls that don't specify a limit.
const DefaultPageSize = 100

// RecordStore is the full long-term memory contract.
type RecordStore interface {
	Upsert(ctx context.Context, rec *Record) (*Record, error)
	Get(ctx context.Context, memoryID string) (*Record, error)
	List(ctx context.Context, opts ListOptions) ([]*Record, int, error)
	Delete(ctx context.Context, memoryID string) error
	DeleteMany(ctx context.Context, memoryIDs []string) error
	Clear(ctx context.Context) error
}
