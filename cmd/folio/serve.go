package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alnah/go-folio/internal/api"
	"github.com/alnah/go-folio/internal/apidocs"
	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/auth"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/export"
	"github.com/alnah/go-folio/internal/logging"
	"github.com/alnah/go-folio/internal/retention"
)

// serveWorkerConcurrency is used by the in-process worker of serve --worker.
const serveWorkerConcurrency = 2

func runServe(ctx context.Context, args []string, env *Environment) error {
	f, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(f.common.config)
	if err != nil {
		return err
	}
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.memory {
		err = cfg.RequireAuth()
	} else {
		err = cfg.RequireServer()
	}
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, f.common.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	b, err := openBackends(ctx, cfg, f.memory, logger)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	var revoker auth.Revoker
	if f.memory {
		revoker = auth.NewMemoryRevoker()
	} else {
		rr, err := auth.NewRedisRevoker(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer func() { _ = rr.Close() }()
		revoker = rr
	}
	authn := auth.New(auth.Settings{
		AdminEmail:   cfg.Auth.AdminEmail,
		PasswordHash: cfg.Auth.PasswordHash,
		JWTSecret:    cfg.Auth.JWTSecret,
		SessionTTL:   cfg.Auth.SessionTTL,
	}, revoker)

	r := datedRenderer{renderer: env.NewRenderer(cfg, logger), generatedOn: cfg.Render.GeneratedOn}
	defer func() { _ = r.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Timers purge through the export service they are handed to.
	var exports *export.Service
	var sched export.Scheduler
	if f.memory {
		timers := retention.NewTimers(retention.PurgerFunc(func(ctx context.Context, p retention.Payload) error {
			return exports.Purge(ctx, p)
		}), logging.Named(logger, "retention"))
		defer func() { _ = timers.Close() }()
		sched = timers
	} else {
		s := retention.NewScheduler(b.redisOpt)
		defer func() { _ = s.Close() }()
		sched = s
	}
	exports = b.exportService(cfg, r, sched, logger)

	if f.worker && !f.memory {
		w := retention.NewWorker(b.redisOpt, serveWorkerConcurrency, exports, logging.Named(logger, "worker"))
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("retention worker failed", zap.Error(err))
				cancel()
			}
		}()
	}

	docs, err := apidocs.NewRenderer()
	if err != nil {
		return err
	}
	docAssets, err := assets.NewResolver(cfg.Render.AssetsPath)
	if err != nil {
		return fmt.Errorf("render.assetsPath: %w", err)
	}

	opts := api.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
		RateBurst:   cfg.Server.RateBurst,
		MediaFolder: cfg.Storage.MediaFolder,
		DocsFolder:  cfg.Storage.DocsFolder,
		// Development runs over plain HTTP.
		SecureCookie: !cfg.Log.Development,
	}
	if b.local != nil {
		opts.StaticDir = b.local.Dir()
		opts.StaticURL = staticPath(cfg.Storage.LocalBaseURL)
	}
	router := api.NewRouter(api.Deps{
		Store:   b.store,
		Exports: exports,
		Media:   b.media,
		Auth:    authn,
		Docs:    docs,
		Assets:  docAssets,
		Logger:  logger,
	}, opts)

	srv := api.NewServer(api.ServerConfig{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logging.Named(logger, "server"))
	return srv.Run(ctx)
}
