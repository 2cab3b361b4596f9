package kvstore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/noah-isme/gwa-tracker/pkg/cache"
	"github.com/noah-isme/gwa-tracker/pkg/config"
	"github.com/noah-isme/gwa-tracker/pkg/database"
)

// Open builds the store selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case "", config.StoreDriverFile:
		return NewFileStore(cfg.Store.Dir)
	case config.StoreDriverMemory:
		return NewMemoryStore(), nil
	case config.StoreDriverBadger:
		return OpenBadgerStore(filepath.Join(cfg.Store.Dir, "badger"))
	case config.StoreDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis, cfg.Store.WriteTimeout)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, "gwa"), nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
