package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"memvault/internal/api"
	"memvault/internal/cache"
	"memvault/internal/config"
	"memvault/internal/db"
	"memvault/internal/embed"
	"memvault/internal/memory"
	redisdb "memvault/internal/redis"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	rdb := redisdb.NewClient(cfg)

	provider, err := newProvider(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedding provider error: %v\n", err)
		os.Exit(1)
	}

	client, err := memory.Connect(cfg.Qdrant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Qdrant error: %v\n", err)
		os.Exit(1)
	}
	store, err := memory.NewStore(client, provider, cfg.Qdrant.Prefix, memory.CategoryMemories, cfg.Memory.SearchDepth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Store error: %v\n", err)
		os.Exit(1)
	}
	log.Printf("[Main] Long-term memory store ready (prefix: %s, dims: %d)",
		cfg.Qdrant.Prefix, provider.Dimensions())

	stm := cache.New(rdb, time.Duration(cfg.Memory.ShortTermTTLSeconds)*time.Second)

	r := api.SetupRouter(cfg, rdb, store, stm)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s%s\n", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func newProvider(cfg *config.Config) (embed.Provider, error) {
	switch cfg.Embedding.Provider {
	case "fastembed":
		return embed.NewFastEmbedProvider(cfg.Embedding.CacheDir, cfg.Embedding.Dimensions)
	case "http":
		if cfg.Embedding.DenseURL == "" {
			return nil, fmt.Errorf("embedding.dense_url must be set for the http provider")
		}
		return embed.NewHTTPProvider(cfg.Embedding.DenseURL, cfg.Embedding.SparseURL,
			cfg.Embedding.Model, cfg.Embedding.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Embedding.Provider)
	}
}
