package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

type QdrantConfig struct {
	Host   string `json:"host"`
	Port   int    `json:"port"`
	APIKey string `json:"api_key"`
	UseTLS bool   `json:"use_tls"`
	Prefix string `json:"prefix"`
}

type EmbeddingConfig struct {
	Provider   string `json:"provider"` // "http" or "fastembed"
	Model      string `json:"model"`
	DenseURL   string `json:"dense_url"`
	SparseURL  string `json:"sparse_url"`
	Dimensions int    `json:"dimensions"`
	CacheDir   string `json:"cache_dir"`
}

type MemoryConfig struct {
	ShortTermTTLSeconds int `json:"short_term_ttl_seconds"`
	SearchDepth         int `json:"search_depth"`
}

type Config struct {
	Server struct {
		Host      string `json:"host"`
		Port      int    `json:"port"`
		Subpath   string `json:"subpath"`
		JWTSecret string `json:"jwtSecret"`
	} `json:"server"`
	Postgres struct {
		DSN string `json:"dsn"`
	} `json:"postgres"`
	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	Qdrant    QdrantConfig    `json:"qdrant"`
	Embedding EmbeddingConfig `json:"embedding"`
	Memory    MemoryConfig    `json:"memory"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads config.json from disk (singleton)
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		// Minimal validation
		if c.Server.JWTSecret == "" {
			cfgErr = errors.New("jwtSecret must be set in config")
			return
		}
		if c.Qdrant.Host == "" {
			cfgErr = errors.New("qdrant.host must be set in config")
			return
		}
		c.ApplyDefaults()
		cfg = &c
	})
	return cfg, cfgErr
}

// ApplyDefaults fills in the optional fields a config file may omit.
func (c *Config) ApplyDefaults() {
	if c.Qdrant.Port == 0 {
		c.Qdrant.Port = 6334 // gRPC port
	}
	if c.Qdrant.Prefix == "" {
		c.Qdrant.Prefix = "memvault"
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "http"
	}
	if c.Embedding.Dimensions == 0 {
		c.Embedding.Dimensions = 384
	}
	if c.Memory.ShortTermTTLSeconds == 0 {
		c.Memory.ShortTermTTLSeconds = 60
	}
	if c.Memory.SearchDepth == 0 {
		c.Memory.SearchDepth = 100
	}
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
