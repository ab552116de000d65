package main

import (
	"context"

	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/logging"
	"github.com/alnah/go-folio/internal/retention"
)

// runWorker executes deferred export deletions until interrupted.
func runWorker(ctx context.Context, args []string, env *Environment) error {
	f, err := parseWorkerFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(f.common.config)
	if err != nil {
		return err
	}
	if err := cfg.RequireBackends(); err != nil {
		return err
	}

	logger, err := newLogger(cfg, f.common.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	b, err := openBackends(ctx, cfg, false, logger)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	// Purging needs only the object store and the export records.
	exports := b.exportService(cfg, nil, nil, logger)
	w := retention.NewWorker(b.redisOpt, f.concurrency, exports, logging.Named(logger, "worker"))
	return w.Run(ctx)
}
