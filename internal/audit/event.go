package audit

import (
	"encoding/json"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event is one entry in the memory mutation trail.
type Event struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Op        string         `gorm:"size:16;not null" json:"op"` // upsert, delete, clear
	Category  string         `gorm:"size:32;not null;index" json:"category"`
	MemoryID  string         `gorm:"size:64;index" json:"memory_id"`
	Actor     string         `gorm:"size:64" json:"actor"`
	Detail    datatypes.JSON `gorm:"type:jsonb" json:"detail"`
	CreatedAt time.Time      `json:"created_at"`
}

// Record appends an event. Best-effort: failures are logged, never returned,
// so auditing can't fail the mutation it describes.
func Record(db *gorm.DB, op, category, memoryID, actor string, detail any) {
	if db == nil {
		return
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		log.Printf("[Audit] failed to encode detail for %s %s: %v", op, memoryID, err)
		raw = []byte("{}")
	}
	event := Event{
		Op:       op,
		Category: category,
		MemoryID: memoryID,
		Actor:    actor,
		Detail:   datatypes.JSON(raw),
	}
	if err := db.Create(&event).Error; err != nil {
		log.Printf("[Audit] failed to record %s %s: %v", op, memoryID, err)
	}
}
