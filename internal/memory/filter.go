package memory

import (
	"github.com/qdrant/go-client/qdrant"
)

// BuildFilter translates tenant/topic parameters into a qdrant filter. All
// supplied conditions are AND-combined; topics use match-any semantics.
// Returns nil (match everything) when no parameters are set. Pure function,
// no I/O.
func BuildFilter(userID, agentID, teamID string, topics []string) *qdrant.Filter {
	var must []*qdrant.Condition

	if userID != "" {
		must = append(must, qdrant.NewMatch("user_id", userID))
	}
	if agentID != "" {
		must = append(must, qdrant.NewMatch("agent_id", agentID))
	}
	if teamID != "" {
		must = append(must, qdrant.NewMatch("team_id", teamID))
	}
	if len(topics) > 0 {
		must = append(must, qdrant.NewMatchKeywords("topics", topics...))
	}

	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}
