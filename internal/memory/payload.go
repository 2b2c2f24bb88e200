package memory

import (
	"time"

	"github.com/qdrant/go-client/qdrant"
)

// recordToPayload flattens a record into a qdrant payload map. Vectors are
// stored separately; empty tenant fields are omitted so equality filters
// never match them.
func recordToPayload(rec *Record) map[string]*qdrant.Value {
	topicValues := make([]*qdrant.Value, len(rec.Topics))
	for i, topic := range rec.Topics {
		topicValues[i] = qdrant.NewValueString(topic)
	}

	payload := map[string]*qdrant.Value{
		"memory_id":  qdrant.NewValueString(rec.MemoryID),
		"content":    qdrant.NewValueString(rec.Content),
		"updated_at": qdrant.NewValueInt(rec.UpdatedAt.Unix()),
		"topics": {Kind: &qdrant.Value_ListValue{
			ListValue: &qdrant.ListValue{Values: topicValues},
		}},
	}

	if rec.UserID != "" {
		payload["user_id"] = qdrant.NewValueString(rec.UserID)
	}
	if rec.AgentID != "" {
		payload["agent_id"] = qdrant.NewValueString(rec.AgentID)
	}
	if rec.TeamID != "" {
		payload["team_id"] = qdrant.NewValueString(rec.TeamID)
	}

	return payload
}

// payloadToRecord reconstructs a record from a point payload.
func payloadToRecord(payload map[string]*qdrant.Value) *Record {
	return &Record{
		MemoryID:  getStringFromPayload(payload, "memory_id"),
		UserID:    getStringFromPayload(payload, "user_id"),
		AgentID:   getStringFromPayload(payload, "agent_id"),
		TeamID:    getStringFromPayload(payload, "team_id"),
		Content:   getStringFromPayload(payload, "content"),
		Topics:    getStringSliceFromPayload(payload, "topics"),
		UpdatedAt: time.Unix(getIntFromPayload(payload, "updated_at"), 0).UTC(),
	}
}

func getStringFromPayload(payload map[string]*qdrant.Value, key string) string {
	if val, ok := payload[key]; ok {
		return val.GetStringValue()
	}
	return ""
}

func getIntFromPayload(payload map[string]*qdrant.Value, key string) int64 {
	if val, ok := payload[key]; ok {
		return val.GetIntegerValue()
	}
	return 0
}

func getStringSliceFromPayload(payload map[string]*qdrant.Value, key string) []string {
	val, ok := payload[key]
	if !ok {
		return nil
	}
	listValue := val.GetListValue()
	if listValue == nil {
		return nil
	}
	result := make([]string, 0, len(listValue.Values))
	for _, v := range listValue.Values {
		if str := v.GetStringValue(); str != "" {
			result = append(result, str)
		}
	}
	return result
}
