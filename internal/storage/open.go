package storage

import (
	"context"
	"fmt"

	"computerx_chatbot/internal/config"
	"computerx_chatbot/internal/logger"
)

// Open creates the storage selected by cfg.Driver
func Open[T any](ctx context.Context, cfg config.SessionConfig) (Storage[T], error) {
	switch cfg.Driver {
	case "", "memory":
		logger.Debug().Dur("ttl", cfg.TTL).Msg("Using in-memory session storage")
		return NewMemoryStorage[T](cfg.TTL), nil
	case "redis":
		store, err := NewRedisStorage[T](ctx, cfg.RedisURL, cfg.TTL)
		if err != nil {
			return nil, err
		}
		logger.Info().Dur("ttl", cfg.TTL).Msg("Using Redis session storage")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session driver: %s", cfg.Driver)
	}
}
