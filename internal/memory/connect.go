package memory

import (
	"fmt"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"memvault/internal/config"
)

// Connect opens a qdrant gRPC client from config. The client is a shared,
// read-mostly handle: construct once and reuse across stores.
func Connect(cfg config.QdrantConfig) (*qdrant.Client, error) {
	// Tolerate URL-ish host values from hand-edited configs
	host := strings.TrimPrefix(cfg.Host, "http://")
	host = strings.TrimPrefix(host, "https://")
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}
	return client, nil
}
