// internal/services/container.go
// Service container for dependency injection. Same pattern as the
// teacher's services.Container, trimmed to the two services this repo
// actually needs plus the cache used by the trainer and the rate limiter.
package services

import (
	"log"

	"fllc-scheduler/internal/fllconfig"
	"fllc-scheduler/internal/repositories"

	"github.com/redis/go-redis/v9"
)

// Container holds all service instances.
type Container struct {
	Auth    *AuthService
	Trainer *TrainerService
	Cache   *CacheService
}

// NewContainer wires every service together in dependency order: cache
// first (no dependencies), then auth and trainer (both depend on cache
// and/or repositories and config).
func NewContainer(repos *repositories.Container, redisClient *redis.Client, cfg *fllconfig.Config, logger *log.Logger) *Container {
	cache := NewCacheService(redisClient, logger)
	auth := NewAuthService(cfg.Auth, logger)
	trainer := NewTrainerService(repos, cache, cfg.Engine, logger)

	return &Container{
		Auth:    auth,
		Trainer: trainer,
		Cache:   cache,
	}
}
