package repositories

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/config"
	"github.com/yolmane/fintech-project-manager/backend/utils"
)

// OpenSnapshotStore builds the store selected by cfg.StorageBackend.
// Networked backends are wrapped in a circuit breaker.
func OpenSnapshotStore(ctx context.Context, cfg config.TrackerConfig, logger *logrus.Logger) (SnapshotStore, error) {
	var (
		store SnapshotStore
		err   error
	)
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile, "":
		return NewFileStore(cfg.DataDir)
	case config.BackendMongo:
		store, err = NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDBName, cfg.MongoCollection, logger)
	case config.BackendRedis:
		store, err = NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	case config.BackendCassandra:
		store, err = NewCassandraStore(cfg.CassandraHost, cfg.CassandraKeyspace, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, err
	}
	breaker := utils.NewBreaker(cfg.StorageBackend+"-store-cb", cfg.StoreBreakerTimeout, logger)
	return NewBreakerStore(store, breaker), nil
}

// OpenDependencyGraph returns nil when no Neo4j URI is configured.
func OpenDependencyGraph(ctx context.Context, cfg config.TrackerConfig, logger *logrus.Logger) (*DependencyGraph, error) {
	if cfg.Neo4jURI == "" {
		return nil, nil
	}
	return NewDependencyGraph(ctx, cfg.Neo4jURI, cfg.Neo4jUsername, cfg.Neo4jPassword, logger)
}
