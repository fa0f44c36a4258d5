package cli

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/skovert/folio/internal/config"
	"github.com/skovert/folio/pkg/cache"
	"github.com/skovert/folio/pkg/cms"
	"github.com/skovert/folio/pkg/errors"
	"github.com/skovert/folio/pkg/ratelimit"
	"github.com/skovert/folio/pkg/session"
	"github.com/skovert/folio/pkg/social"
	"github.com/skovert/folio/pkg/store"
)

// newService assembles the CMS service from the configured backends.
func (c *CLI) newService(ctx context.Context, cfg config.Config) (*cms.Service, error) {
	opts := cms.Options{
		Logger:   c.Logger,
		CacheTTL: cfg.Cache.TTL.Duration,
	}

	switch cfg.Store.Backend {
	case "mongo":
		docs, err := store.NewMongo(ctx, store.MongoConfig{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.Database,
		}, c.Logger)
		if err != nil {
			return nil, err
		}
		opts.Docs = docs
		opts.Social = social.NewMongoStore(docs.Database(), "")

		// Local snapshot keeps reads alive when the database is down.
		if snap, err := store.NewFile(cfg.Store.Dir, c.Logger); err == nil {
			opts.Snapshot = snap
		} else {
			c.Logger.Warn("snapshot store unavailable", "dir", cfg.Store.Dir, "error", err)
		}
	case "file":
		docs, err := store.NewFile(cfg.Store.Dir, c.Logger)
		if err != nil {
			return nil, err
		}
		links, err := social.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return nil, err
		}
		opts.Docs = docs
		opts.Social = links
	case "memory":
		opts.Docs = store.NewMemory()
		opts.Social = social.NewMemoryStore()
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Store.Backend)
	}

	var err error
	opts.Cache, err = c.newCache(ctx, cfg)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "error", err)
		opts.Cache = cache.NewNullCache()
	}

	return cms.New(opts)
}

// newCache builds the configured cache backend.
func (c *CLI) newCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
	case "file":
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Cache.Backend)
	}
}

// newLimiter builds the contact-form rate limiter. With Redis configured the
// limit is shared across server instances; otherwise it is per-process.
func (c *CLI) newLimiter(cfg config.Config) ratelimit.Limiter {
	if cfg.Cache.Backend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		return ratelimit.NewRedisLimiter(client, cfg.Contact.Window.Duration)
	}
	return ratelimit.NewMemoryLimiter(cfg.Contact.Window.Duration)
}

// newSessionStore builds the configured session backend.
func (c *CLI) newSessionStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	switch cfg.Sessions.Backend {
	case "redis":
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.Sessions.Addr,
			Password: cfg.Cache.Password,
		})
	case "memory":
		return session.NewMemoryStore(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown sessions backend %q", cfg.Sessions.Backend)
	}
}
