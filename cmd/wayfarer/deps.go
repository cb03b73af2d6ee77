package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wayfarer/internal/ai"
	"wayfarer/internal/lookup"
)

func newModel(ctx context.Context) (*ai.GeminiModel, error) {
	if cfg.AI.GeminiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	return ai.NewGeminiModel(ctx, cfg.AI)
}

// newSources builds the live safety data sources, wrapped in the Redis cache
// when one is configured. The returned func releases the cache connection.
func newSources() (lookup.Sources, func(), error) {
	client, err := lookup.NewClient(cfg.Lookup)
	if err != nil {
		return nil, nil, fmt.Errorf("init lookup sources: %w", err)
	}

	if cfg.Redis.Addr == "" {
		return client, func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	cached := lookup.NewCached(client, rdb, time.Duration(cfg.Redis.CacheTTLMin)*time.Minute)
	return cached, func() { _ = rdb.Close() }, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
