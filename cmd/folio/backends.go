package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/export"
	"github.com/alnah/go-folio/internal/logging"
	"github.com/alnah/go-folio/internal/mongostore"
	"github.com/alnah/go-folio/internal/portfolio"
	"github.com/alnah/go-folio/internal/retention"
	"github.com/alnah/go-folio/internal/storage"
)

// exportRecordTTL bounds how long purged export records are kept so that
// late promotion attempts still answer "expired" rather than "not found".
const exportRecordTTL = 24 * time.Hour

// backends are the stores shared by serve and worker.
type backends struct {
	store    *portfolio.Store
	media    storage.Store
	local    *storage.Local // set when media live on disk
	records  export.Records
	redisOpt asynq.RedisClientOpt
	closers  []func() error
}

// openBackends connects to MongoDB and the object store. With memory set,
// repositories and export records live in process memory.
func openBackends(ctx context.Context, cfg *config.Config, memory bool, logger *zap.Logger) (*backends, error) {
	b := &backends{redisOpt: retention.RedisOpt(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)}

	media, local, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}
	b.media, b.local = media, local

	var repos portfolio.Repositories
	if memory {
		logger.Warn("using in-memory repositories, data is lost on exit")
		repos = portfolio.MemoryRepositories()
		b.records = mongostore.NewMemory(func(e export.Export) string { return e.ID })
	} else {
		client, err := mongostore.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() error {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Disconnect(dctx)
		})
		db := client.Database(cfg.Mongo.Database)
		repos = portfolio.MongoRepositories(db)

		coll := mongostore.New[export.Export](db, export.CollExports)
		if err := coll.EnsureTTL(ctx, "expires_at", exportRecordTTL); err != nil {
			_ = b.Close()
			return nil, err
		}
		b.records = coll
		logger.Info("connected to mongodb", zap.String("database", cfg.Mongo.Database))
	}

	b.store = portfolio.NewStore(repos, media, logging.Named(logger, "portfolio"))
	return b, nil
}

// openStorage picks Cloudinary when configured, else the local directory.
func openStorage(cfg *config.Config) (storage.Store, *storage.Local, error) {
	if cfg.Storage.CloudinaryURL != "" {
		c, err := storage.NewCloudinary(cfg.Storage.CloudinaryURL)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: storage.cloudinaryURL: %v", config.ErrInvalidValue, err)
		}
		return c, nil, nil
	}
	l, err := storage.NewLocal(cfg.Storage.LocalDir, cfg.Storage.LocalBaseURL)
	if err != nil {
		return nil, nil, err
	}
	return l, l, nil
}

// exportService wires the export adapter over the backends.
func (b *backends) exportService(cfg *config.Config, r export.Renderer, s export.Scheduler, logger *zap.Logger) *export.Service {
	return export.NewService(export.Config{
		Renderer:  r,
		Store:     b.media,
		Folder:    cfg.Storage.DocsFolder,
		Profile:   b.store.Profile,
		Scheduler: s,
		Records:   b.records,
		Retention: cfg.Export.RetentionWindow,
		Logger:    logging.Named(logger, "export"),
	})
}

// staticPath returns the URL path local media are served under.
func staticPath(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Path == "" {
		return "/uploads"
	}
	return u.Path
}

// Close releases connections in reverse order of opening.
func (b *backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

// newLogger builds the process logger; verbose forces debug level.
func newLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Log.Development)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidValue, err)
	}
	return logger, nil
}
