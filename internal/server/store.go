package server

import (
	"context"
	"time"

	"github.com/songsvc/songs-service/internal/config"
	"github.com/songsvc/songs-service/internal/database"
	"github.com/songsvc/songs-service/internal/song/repository"
	"github.com/songsvc/songs-service/pkg/logger"
)

// OpenStore builds the configured song store. The returned close function
// releases the store's connection and must be called on shutdown.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	if cfg.Store.Backend == config.BackendMemory {
		logger.Warnf("using in-memory song store; data is lost on restart")
		return repository.NewMemoryStore(), func() {}, nil
	}

	client, err := database.ConnectWithRetry(ctx, database.ConnectMongo, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.ConnectAttempts, time.Second)
	if err != nil {
		return nil, nil, err
	}
	col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
	store := repository.NewMongoStore(col)
	if err := store.EnsureIndexes(ctx); err != nil {
		// existing duplicate ids block the unique index; serve anyway
		logger.Warnf("could not create unique index on song id: %v", err)
	}
	logger.Infof("connected to MongoDB %s.%s", cfg.MongoDB.Database, cfg.MongoDB.Collection)

	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Warnf("mongo disconnect: %v", err)
		}
	}
	return store, closeFn, nil
}
